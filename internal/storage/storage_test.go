package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendCommand_KeepsNewestEntries(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		err := s.AppendCommand("guild-1", CommandRecord{
			Command:  fmt.Sprintf("cmd-%d", i),
			Datetime: time.Now(),
		})
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	history, err := s.FetchCommandHistory("guild-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(history) != commandHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), commandHistoryLimit)
	}
	if history[len(history)-1].Command != fmt.Sprintf("cmd-%d", commandHistoryLimit+4) {
		t.Errorf("newest command = %q, want the last appended", history[len(history)-1].Command)
	}
}

func TestRecordTrackPlay_DeduplicatesByURL(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < 3; i++ {
		if err := s.RecordTrackPlay("guild-1", "Song", "https://yt/watch?v=1"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if err := s.RecordTrackPlay("guild-1", "Other", "https://yt/watch?v=2"); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	history, err := s.FetchTrackHistory("guild-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].PlayCount != 3 {
		t.Errorf("play count = %d, want 3", history[0].PlayCount)
	}
	if history[1].URL != "https://yt/watch?v=2" {
		t.Errorf("newest play should sit at the end, got %q", history[1].URL)
	}
}

func TestHistoriesAreIsolatedPerGuild(t *testing.T) {
	s := newTestStorage(t)

	if err := s.RecordTrackPlay("guild-a", "Song", "https://yt/a"); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	history, err := s.FetchTrackHistory("guild-b")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history for untouched guild, got %d entries", len(history))
	}
}
