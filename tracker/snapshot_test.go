package tracker_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yoanbernabeu/phrasebot/tracker"
)

// ---- Round trip ----

func TestSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), tracker.SnapshotFileName)

	s := tracker.NewStore(path)
	mustAdd(t, s, "100", "Zebra", "apple", "Mango Juice")
	if err := s.ApplyDeltas("100", map[string]int{"apple": 4, "Mango Juice": 2}); err != nil {
		t.Fatalf("ApplyDeltas: %v", err)
	}
	mustAdd(t, s, "-200", "только раз")
	if err := s.Track("100"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	fresh := tracker.NewStore(path)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Phrase case and insertion order survive the round trip.
	wantOrder := []string{"Zebra", "apple", "Mango Juice"}
	if got := fresh.ListPhrases("100"); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("ListPhrases = %v, want %v", got, wantOrder)
	}
	wantStats := []tracker.PhraseCount{
		{Phrase: "apple", Count: 4},
		{Phrase: "Mango Juice", Count: 2},
		{Phrase: "Zebra", Count: 0},
	}
	if got := fresh.Stats("100"); !reflect.DeepEqual(got, wantStats) {
		t.Errorf("Stats = %v, want %v", got, wantStats)
	}
	if got := fresh.ListPhrases("-200"); !reflect.DeepEqual(got, []string{"только раз"}) {
		t.Errorf("ListPhrases(-200) = %v", got)
	}
	if !fresh.Tracked("100") || fresh.Tracked("-200") {
		t.Errorf("tracked set not preserved: 100=%v -200=%v",
			fresh.Tracked("100"), fresh.Tracked("-200"))
	}
}

// ---- Load ----

func TestLoad_MissingFileIsFirstRun(t *testing.T) {
	s := tracker.NewStore(filepath.Join(t.TempDir(), tracker.SnapshotFileName))
	if err := s.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if got := s.Chats(); len(got) != 0 {
		t.Errorf("expected empty store, got chats %v", got)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), tracker.SnapshotFileName)
	if err := os.WriteFile(path, []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := tracker.NewStore(path)
	err := s.Load()
	if !errors.Is(err, tracker.ErrPersistence) {
		t.Fatalf("Load = %v, want ErrPersistence", err)
	}
	// Degrades to first-run state.
	if got := s.Chats(); len(got) != 0 {
		t.Errorf("expected empty store after corrupt load, got %v", got)
	}
}

func TestLoad_ReplacesInMemoryState(t *testing.T) {
	path := filepath.Join(t.TempDir(), tracker.SnapshotFileName)

	s := tracker.NewStore(path)
	mustAdd(t, s, "C1", "persisted")

	other := tracker.NewStore(path)
	mustAdd(t, other, "C9", "stale")
	if err := other.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := other.ListPhrases("C9"); len(got) != 0 {
		t.Errorf("Load kept stale state: %v", got)
	}
	if got := other.ListPhrases("C1"); !reflect.DeepEqual(got, []string{"persisted"}) {
		t.Errorf("ListPhrases(C1) = %v", got)
	}
}

// ---- Flush ----

func TestFlush_WholeFileRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), tracker.SnapshotFileName)

	s := tracker.NewStore(path)
	mustAdd(t, s, "C1", "a", "b")
	if err := s.RemovePhrase("C1", "a"); err != nil {
		t.Fatalf("RemovePhrase: %v", err)
	}

	fresh := tracker.NewStore(path)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fresh.ListPhrases("C1"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("removed phrase survived on disk: %v", got)
	}
}

func TestFlush_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := tracker.NewStore(filepath.Join(dir, tracker.SnapshotFileName))
	mustAdd(t, s, "C1", "a")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != tracker.SnapshotFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files in state dir: %v", names)
	}
}

func TestFlush_ErrorSurfacedAsPersistence(t *testing.T) {
	// Point the snapshot inside a path blocked by a regular file so the
	// write can never succeed.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	s := tracker.NewStore(filepath.Join(blocker, tracker.SnapshotFileName))
	err := s.AddPhrase("C1", "p")
	if !errors.Is(err, tracker.ErrPersistence) {
		t.Fatalf("AddPhrase = %v, want ErrPersistence", err)
	}
	// In-memory state stays authoritative.
	if got := s.ListPhrases("C1"); !reflect.DeepEqual(got, []string{"p"}) {
		t.Errorf("in-memory state lost after failed flush: %v", got)
	}
}
