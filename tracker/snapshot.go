package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SnapshotFileName is the name of the state file inside .phrasebot/.
const SnapshotFileName = "state.json"

// snapshot is the on-disk form of the store. The inner phrase maps
// keep their insertion order through the JSON round trip.
type snapshot struct {
	Counts       map[string]*orderedmap.OrderedMap[string, int] `json:"counts"`
	TrackedChats []string                                       `json:"tracked_chats"`
}

// Load reads the snapshot from disk, replacing the store's in-memory
// state. A missing file is the expected first-run state and leaves the
// store empty without an error. Unreadable or malformed snapshots
// return an error wrapping ErrPersistence and also leave the store
// empty, so the caller can degrade to first-run semantics.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", ErrPersistence, s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrPersistence, s.path, err)
	}

	s.counts = make(map[string]*orderedmap.OrderedMap[string, int], len(snap.Counts))
	for chatID, m := range snap.Counts {
		if m == nil || m.Len() == 0 {
			continue
		}
		s.counts[canonical(chatID)] = m
	}
	s.tracked = make(map[string]struct{}, len(snap.TrackedChats))
	for _, chatID := range snap.TrackedChats {
		s.tracked[canonical(chatID)] = struct{}{}
	}
	return nil
}

// Flush rewrites the snapshot from the current in-memory state.
// Mutating operations flush on their own; this is for the final write
// at shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked serializes the whole store and overwrites the snapshot.
// A failed write is retried once; after that the error is reported
// upward wrapping ErrPersistence while in-memory state stays
// authoritative until the next successful flush.
func (s *Store) flushLocked() error {
	err := s.writeSnapshot()
	if err == nil {
		return nil
	}
	if retryErr := s.writeSnapshot(); retryErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// writeSnapshot writes the snapshot atomically: encode everything,
// write to a temp file next to the target, then rename over it. A
// crash mid-write can never leave a truncated snapshot behind.
func (s *Store) writeSnapshot() error {
	snap := snapshot{
		Counts:       s.counts,
		TrackedChats: make([]string, 0, len(s.tracked)),
	}
	for chatID := range s.tracked {
		snap.TrackedChats = append(snap.TrackedChats, chatID)
	}
	sort.Strings(snap.TrackedChats)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, SnapshotFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
