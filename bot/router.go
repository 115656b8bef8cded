package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yoanbernabeu/phrasebot/counter"
	"github.com/yoanbernabeu/phrasebot/tracker"
)

// HelpText is the reply to /start and /help.
const HelpText = `I count how often your phrases appear in this chat.

/add <phrase> — register a phrase for this chat
/remove <phrase> — remove a registered phrase
/list — show registered phrases
/stats — show occurrence counts, highest first
/track — enable counting in this chat
/untrack — disable counting in this chat
/help — show this message

Phrases match case-insensitively as plain substrings. Counting only
happens while the chat is tracked; /add works either way, so you can
set phrases up before enabling it.`

// Router maps chat commands to store and engine operations and builds
// the reply for each one. It is transport-free: the telebot handlers
// in bot.go only extract the chat key and payload and relay the reply.
//
// Invalid user input (empty phrase, unknown phrase, untracking an
// untracked chat) becomes a plain reply and is never logged as a
// failure. Snapshot write failures go to the operator via the log;
// the user still gets a normal reply since in-memory state applied.
type Router struct {
	store  *tracker.Store
	engine *counter.Engine
}

// NewRouter creates a router over the given store and engine.
func NewRouter(store *tracker.Store, engine *counter.Engine) *Router {
	return &Router{store: store, engine: engine}
}

// Start handles /start.
func (r *Router) Start(chatID string) string {
	return HelpText
}

// Help handles /help.
func (r *Router) Help(chatID string) string {
	return HelpText
}

// Add handles /add <phrase>.
func (r *Router) Add(chatID, payload string) string {
	phrase := strings.TrimSpace(payload)
	err := r.store.AddPhrase(chatID, phrase)
	switch {
	case errors.Is(err, tracker.ErrEmptyPhrase):
		return "Usage: /add <phrase>"
	case err != nil:
		log.Printf("flush failed after /add in chat %s: %v", chatID, err)
	}
	return fmt.Sprintf("Tracking %q. Count starts at 0.", phrase)
}

// Remove handles /remove <phrase>.
func (r *Router) Remove(chatID, payload string) string {
	phrase := strings.TrimSpace(payload)
	if phrase == "" {
		return "Usage: /remove <phrase>"
	}
	err := r.store.RemovePhrase(chatID, phrase)
	switch {
	case errors.Is(err, tracker.ErrPhraseNotFound):
		return fmt.Sprintf("%q is not registered in this chat.", phrase)
	case err != nil:
		log.Printf("flush failed after /remove in chat %s: %v", chatID, err)
	}
	return fmt.Sprintf("Removed %q.", phrase)
}

// List handles /list.
func (r *Router) List(chatID string) string {
	phrases := r.store.ListPhrases(chatID)
	if len(phrases) == 0 {
		return "No phrases registered. Use /add <phrase> to start."
	}
	var b strings.Builder
	b.WriteString("Registered phrases:")
	for _, phrase := range phrases {
		fmt.Fprintf(&b, "\n• %s", phrase)
	}
	return b.String()
}

// Stats handles /stats.
func (r *Router) Stats(chatID string) string {
	counts := r.store.Stats(chatID)
	if len(counts) == 0 {
		return "No phrases registered. Use /add <phrase> to start."
	}
	var b strings.Builder
	b.WriteString("Phrase counts:")
	for _, pc := range counts {
		fmt.Fprintf(&b, "\n• %s: %d", pc.Phrase, pc.Count)
	}
	return b.String()
}

// Track handles /track.
func (r *Router) Track(chatID string) string {
	if err := r.store.Track(chatID); err != nil {
		log.Printf("flush failed after /track in chat %s: %v", chatID, err)
	}
	return "Counting is on for this chat."
}

// Untrack handles /untrack.
func (r *Router) Untrack(chatID string) string {
	err := r.store.Untrack(chatID)
	switch {
	case errors.Is(err, tracker.ErrNotTracked):
		return "This chat is not being tracked."
	case err != nil:
		log.Printf("flush failed after /untrack in chat %s: %v", chatID, err)
	}
	return "Counting is off for this chat."
}

// Message handles a plain (non-command) text message. Plain messages
// never get a reply.
func (r *Router) Message(chatID, text string) {
	if _, err := r.engine.CountMessage(chatID, text); err != nil {
		log.Printf("flush failed after message in chat %s: %v", chatID, err)
	}
}
