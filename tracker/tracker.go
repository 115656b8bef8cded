package tracker

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChatKey returns the canonical string form of a numeric chat identifier.
func ChatKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// CanonicalChatID returns the snapshot key used for the given chat
// identifier.
func CanonicalChatID(chatID string) string {
	return canonical(chatID)
}

// canonical collapses differing representations of the same chat
// identifier ("42", " 42 ", "0042") to one snapshot key.
func canonical(chatID string) string {
	chatID = strings.TrimSpace(chatID)
	if n, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return chatID
}

// PhraseCount is one registered phrase with its running occurrence total.
type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// Store owns the phrase counters and the tracked-chat set. All methods
// are safe for concurrent use; every mutation is flushed to the
// snapshot before its method returns.
//
// The two structures are independent: a chat may have registered
// phrases without being tracked (counting is suppressed), and may be
// tracked with no phrases (counting is a no-op).
type Store struct {
	mu      sync.Mutex
	path    string
	counts  map[string]*orderedmap.OrderedMap[string, int]
	tracked map[string]struct{}
}

// NewStore creates an empty store persisting to the given snapshot path.
// Call Load to pick up previously persisted state.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		counts:  make(map[string]*orderedmap.OrderedMap[string, int]),
		tracked: make(map[string]struct{}),
	}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// AddPhrase registers phrase for the chat with a count of zero.
// Re-adding an already registered phrase resets its count to zero
// (re-registration restarts tracking for that phrase). Empty or
// whitespace-only phrases are rejected with ErrEmptyPhrase.
func (s *Store) AddPhrase(chatID, phrase string) error {
	if strings.TrimSpace(phrase) == "" {
		return ErrEmptyPhrase
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonical(chatID)
	m, ok := s.counts[key]
	if !ok {
		m = orderedmap.New[string, int]()
		s.counts[key] = m
	}
	m.Set(phrase, 0)
	return s.flushLocked()
}

// RemovePhrase removes a registered phrase for the chat. Removing a
// phrase that was never registered returns ErrPhraseNotFound and leaves
// both memory and snapshot untouched.
func (s *Store) RemovePhrase(chatID, phrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonical(chatID)
	m, ok := s.counts[key]
	if !ok {
		return ErrPhraseNotFound
	}
	if _, present := m.Delete(phrase); !present {
		return ErrPhraseNotFound
	}
	if m.Len() == 0 {
		// Keep the outer map free of empty chats.
		delete(s.counts, key)
	}
	return s.flushLocked()
}

// ListPhrases returns the chat's registered phrases in the order they
// were added. Nil for a chat with no registered phrases.
func (s *Store) ListPhrases(chatID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.counts[canonical(chatID)]
	if !ok {
		return nil
	}
	phrases := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		phrases = append(phrases, pair.Key)
	}
	return phrases
}

// Stats returns the chat's phrase counts sorted by count descending.
// Ties keep their insertion order (stable sort).
func (s *Store) Stats(chatID string) []PhraseCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.counts[canonical(chatID)]
	if !ok {
		return nil
	}
	counts := make([]PhraseCount, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		counts = append(counts, PhraseCount{Phrase: pair.Key, Count: pair.Value})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Track enables message counting for the chat. Idempotent: re-tracking
// an already tracked chat changes nothing but still flushes.
func (s *Store) Track(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracked[canonical(chatID)] = struct{}{}
	return s.flushLocked()
}

// Untrack disables message counting for the chat. Untracking a chat
// that is not tracked returns ErrNotTracked without flushing.
func (s *Store) Untrack(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonical(chatID)
	if _, ok := s.tracked[key]; !ok {
		return ErrNotTracked
	}
	delete(s.tracked, key)
	return s.flushLocked()
}

// Tracked reports whether message counting is enabled for the chat.
func (s *Store) Tracked(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tracked[canonical(chatID)]
	return ok
}

// ApplyDeltas adds the given positive occurrence deltas to the chat's
// counters and flushes once for the whole batch. Phrases no longer
// registered for the chat are skipped. A batch that changes nothing
// leaves the snapshot untouched.
func (s *Store) ApplyDeltas(chatID string, deltas map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.counts[canonical(chatID)]
	if !ok || len(deltas) == 0 {
		return nil
	}
	changed := false
	for phrase, n := range deltas {
		if n <= 0 {
			continue
		}
		current, present := m.Get(phrase)
		if !present {
			continue
		}
		m.Set(phrase, current+n)
		changed = true
	}
	if !changed {
		return nil
	}
	return s.flushLocked()
}

// Chats returns the sorted ids of every chat present in either
// structure: chats with registered phrases and chats that are tracked.
func (s *Store) Chats() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.counts)+len(s.tracked))
	for chatID := range s.counts {
		seen[chatID] = struct{}{}
	}
	for chatID := range s.tracked {
		seen[chatID] = struct{}{}
	}
	chats := make([]string, 0, len(seen))
	for chatID := range seen {
		chats = append(chats, chatID)
	}
	sort.Strings(chats)
	return chats
}

// ResetChat removes the chat's counters and tracking state. A chat the
// store never saw is a no-op without a flush.
func (s *Store) ResetChat(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonical(chatID)
	_, hadCounts := s.counts[key]
	_, wasTracked := s.tracked[key]
	if !hadCounts && !wasTracked {
		return nil
	}
	delete(s.counts, key)
	delete(s.tracked, key)
	return s.flushLocked()
}

// ResetAll clears the whole store and rewrites the snapshot.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts = make(map[string]*orderedmap.OrderedMap[string, int])
	s.tracked = make(map[string]struct{})
	return s.flushLocked()
}
