// Package counter applies incoming chat messages to the phrase
// counters owned by the tracker store.
package counter

import (
	"strings"

	"github.com/yoanbernabeu/phrasebot/tracker"
)

// Engine scans incoming messages against a chat's registered phrases.
type Engine struct {
	store *tracker.Store
}

// NewEngine creates an engine counting into the given store.
func NewEngine(store *tracker.Store) *Engine {
	return &Engine{store: store}
}

// CountMessage counts phrase occurrences in text and adds them to the
// chat's counters in one batch, so at most one snapshot flush happens
// per message. Chats that are not tracked are skipped before any
// scanning, at zero cost. Matching is case-insensitive and counts
// non-overlapping substring occurrences ("aa" appears once in "aaa").
//
// Returns the total number of occurrences applied.
func (e *Engine) CountMessage(chatID, text string) (int, error) {
	if !e.store.Tracked(chatID) {
		return 0, nil
	}
	// Snapshot the phrase set before applying deltas.
	phrases := e.store.ListPhrases(chatID)
	if len(phrases) == 0 || text == "" {
		return 0, nil
	}

	lowered := strings.ToLower(text)
	deltas := make(map[string]int, len(phrases))
	total := 0
	for _, phrase := range phrases {
		n := strings.Count(lowered, strings.ToLower(phrase))
		if n > 0 {
			deltas[phrase] = n
			total += n
		}
	}
	if total == 0 {
		return 0, nil
	}
	if err := e.store.ApplyDeltas(chatID, deltas); err != nil {
		return total, err
	}
	return total, nil
}
