package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func session(player string, chain, cleared int) SessionRecord {
	return SessionRecord{
		GameID:       "chainfall",
		Player:       player,
		Speed:        2,
		Pairs:        10,
		Settled:      9,
		ChainLinks:   chain,
		LongestChain: chain,
		CellsCleared: cleared,
		Duration:     90 * time.Second,
		EndReason:    EndGameOver,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its directory were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveSession(session("ann", 3, 12))
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveSession() id = %d, want positive", id)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got.Player != "ann" || got.LongestChain != 3 || got.CellsCleared != 12 {
		t.Errorf("SessionByID() = %+v", got)
	}
	if got.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", got.Duration)
	}
	if got.EndReason != EndGameOver {
		t.Errorf("EndReason = %q, want %q", got.EndReason, EndGameOver)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	if _, err := store.SessionByID(id + 100); !errors.Is(err, ErrNotFound) {
		t.Errorf("SessionByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRecentSessionsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 3; i++ {
		if _, err := store.SaveSession(session("ann", i, i*4)); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	recent, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(recent))
	}
	if recent[0].LongestChain != 3 || recent[1].LongestChain != 2 {
		t.Errorf("Sessions not newest first: %d, %d", recent[0].LongestChain, recent[1].LongestChain)
	}
}

func TestPlayerSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(session("ann", 1, 4))
	store.SaveSession(session("bob", 2, 8))
	store.SaveSession(session("ann", 3, 12))

	anns, err := store.PlayerSessions("ann", 10)
	if err != nil {
		t.Fatalf("PlayerSessions() failed: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("Expected 2 sessions for ann, got %d", len(anns))
	}
	for _, s := range anns {
		if s.Player != "ann" {
			t.Errorf("Unexpected player %q", s.Player)
		}
	}
}

func TestBestSessionsOrdering(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(session("ann", 2, 20))
	store.SaveSession(session("bob", 4, 16))
	store.SaveSession(session("cid", 2, 30))
	store.SaveSession(session("dee", 4, 16))

	best, err := store.BestSessions(10)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}

	want := []string{"bob", "dee", "cid", "ann"}
	if len(best) != len(want) {
		t.Fatalf("Expected %d sessions, got %d", len(want), len(best))
	}
	for i, name := range want {
		if best[i].Player != name {
			t.Errorf("best[%d] = %s, want %s", i, best[i].Player, name)
		}
	}
}

func TestSummary(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Summary("")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if empty.Sessions != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Empty summary = %+v", empty)
	}

	store.SaveSession(session("ann", 2, 8))
	store.SaveSession(session("ann", 5, 20))
	store.SaveSession(session("bob", 7, 28))

	ann, err := store.Summary("ann")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if ann.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", ann.Sessions)
	}
	if ann.LongestChain != 5 {
		t.Errorf("LongestChain = %d, want 5", ann.LongestChain)
	}
	if ann.TotalCleared != 28 {
		t.Errorf("TotalCleared = %d, want 28", ann.TotalCleared)
	}
	if ann.TotalPairs != 20 {
		t.Errorf("TotalPairs = %d, want 20", ann.TotalPairs)
	}
	if ann.TotalPlayed != 3*time.Minute {
		t.Errorf("TotalPlayed = %v, want 3m0s", ann.TotalPlayed)
	}
	if ann.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}

	all, err := store.Summary("")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if all.Sessions != 3 || all.LongestChain != 7 {
		t.Errorf("All summary = %+v", all)
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(session("ann", 1, 4))
	store.SaveSession(session("bob", 1, 4))

	if err := store.ClearSessions("ann"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	if s, _ := store.Summary(""); s.Sessions != 1 {
		t.Errorf("Expected 1 session after clearing ann, got %d", s.Sessions)
	}

	if err := store.ClearSessions(""); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	if s, _ := store.Summary(""); s.Sessions != 0 {
		t.Errorf("Expected 0 sessions, got %d", s.Sessions)
	}
}

func TestScanTime(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	if got := scanTime(want); !got.Equal(want) {
		t.Errorf("scanTime(time) = %v", got)
	}
	if got := scanTime("2025-03-01 12:30:00"); !got.Equal(want) {
		t.Errorf("scanTime(string) = %v", got)
	}
	if got := scanTime(nil); !got.IsZero() {
		t.Errorf("scanTime(nil) = %v, want zero", got)
	}
}
