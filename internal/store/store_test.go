package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestOpenFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestReopenKeepsEventsAndSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendVisit(ctx, VisitEventData{SessionID: "a", Kind: KindSessionStart}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if err := s.EventRepo().AppendVisit(ctx, VisitEventData{SessionID: "b", Kind: KindSessionStart}); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}

	events, err := s.EventRepo().Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Sequence != 2 || events[1].Sequence != 1 {
		t.Errorf("sequences = %d,%d, want 2,1", events[0].Sequence, events[1].Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", visitEventsTable,
	).Scan(&name)
	if err != nil {
		t.Fatalf("%s table not found: %v", visitEventsTable, err)
	}
}

func TestAppendVisitAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	inputs := []VisitEventData{
		{SessionID: "s1", Kind: KindSessionStart},
		{SessionID: "s1", Kind: KindStageRevealed, Subject: "1"},
		{SessionID: "s1", Kind: KindProjectViewed, Subject: "3"},
		{SessionID: "s2", Kind: KindSessionStart},
	}
	for i, in := range inputs {
		if err := repo.AppendVisit(ctx, in); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != len(inputs) {
		t.Fatalf("events = %d, want %d", len(events), len(inputs))
	}
	for i, ev := range events {
		want := inputs[len(inputs)-1-i]
		if ev.Kind != want.Kind || ev.Subject != want.Subject || ev.SessionID != want.SessionID {
			t.Errorf("event[%d] = %+v, want %+v", i, ev, want)
		}
		if ev.Timestamp.Before(before) {
			t.Errorf("event[%d] timestamp %v before test start", i, ev.Timestamp)
		}
		if i > 0 && ev.Sequence >= events[i-1].Sequence {
			t.Errorf("event[%d] sequence %d not descending", i, ev.Sequence)
		}
	}

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"limit", QueryOpts{Limit: 2}, 2},
		{"session", QueryOpts{SessionID: "s1"}, 3},
		{"kind", QueryOpts{Kind: KindSessionStart}, 2},
		{"session and kind", QueryOpts{SessionID: "s2", Kind: KindSessionStart}, 1},
		{"no match", QueryOpts{Kind: KindEmailCopied}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Recent(ctx, tt.opts)
			if err != nil {
				t.Fatalf("recent: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAppendVisitRequiresSession(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendVisit(context.Background(), VisitEventData{Kind: KindSessionStart})
	if !errors.Is(err, ErrEmptySession) {
		t.Errorf("err = %v, want ErrEmptySession", err)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats (empty): %v", err)
	}
	if stats.Events != 0 || stats.Sessions != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	for _, in := range []VisitEventData{
		{SessionID: "a", Kind: KindSessionStart},
		{SessionID: "a", Kind: KindProjectViewed, Subject: "1"},
		{SessionID: "a", Kind: KindProjectViewed, Subject: "1"},
		{SessionID: "a", Kind: KindProjectViewed, Subject: "2"},
		{SessionID: "a", Kind: KindEmailCopied},
		{SessionID: "b", Kind: KindSessionStart},
		{SessionID: "b", Kind: KindSessionEnd},
	} {
		if err := repo.AppendVisit(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Events != 7 {
		t.Errorf("events = %d, want 7", stats.Events)
	}
	if stats.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", stats.Sessions)
	}
	if got := stats.ByKind[KindProjectViewed]; got != 3 {
		t.Errorf("project views = %d, want 3", got)
	}
	if got := stats.ByKind[KindSessionStart]; got != 2 {
		t.Errorf("session starts = %d, want 2", got)
	}
	if got := stats.ProjectViews["1"]; got != 2 {
		t.Errorf("project 1 views = %d, want 2", got)
	}
	if got := stats.ProjectViews["2"]; got != 1 {
		t.Errorf("project 2 views = %d, want 1", got)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendVisit(ctx, VisitEventData{SessionID: "x", Kind: KindLinkCopied}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := repo.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	events, err := repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events after reset = %d, want 0", len(events))
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("FOLIO_DB", filepath.Join(dir, "env", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("env path: %v", err)
	}
	if p != filepath.Join(dir, "env", "custom.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("FOLIO_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("xdg path: %v", err)
	}
	if p != filepath.Join(dir, "folio", "folio.db") {
		t.Errorf("path = %q", p)
	}
}
