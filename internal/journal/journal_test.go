package journal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostup/folio/internal/store"
)

type fakeRepo struct {
	mu     sync.Mutex
	events []store.VisitEventData
	err    error
}

func (f *fakeRepo) AppendVisit(_ context.Context, data store.VisitEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, data)
	return nil
}

func (f *fakeRepo) Recent(context.Context, store.QueryOpts) ([]store.VisitEvent, error) {
	return nil, nil
}

func (f *fakeRepo) Stats(context.Context) (store.VisitStats, error) {
	return store.VisitStats{}, nil
}

func (f *fakeRepo) Reset(context.Context) (int64, error) {
	return 0, nil
}

func TestRecordStampsSession(t *testing.T) {
	repo := &fakeRepo{}
	r := New(repo, nil)

	_, err := uuid.Parse(r.SessionID())
	require.NoError(t, err)

	require.NoError(t, r.Record(context.Background(), store.KindSessionStart, ""))
	require.Len(t, repo.events, 1)
	assert.Equal(t, r.SessionID(), repo.events[0].SessionID)
	assert.Equal(t, store.KindSessionStart, repo.events[0].Kind)
}

func TestSessionsAreDistinct(t *testing.T) {
	a := New(&fakeRepo{}, nil)
	b := New(&fakeRepo{}, nil)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestCmdHelpers(t *testing.T) {
	repo := &fakeRepo{}
	r := New(repo, nil)

	tests := []struct {
		name    string
		cmd     func() any
		kind    store.VisitKind
		subject string
	}{
		{"stage", func() any { return r.StageRevealed(2)() }, store.KindStageRevealed, "2"},
		{"project", func() any { return r.ProjectViewed(4)() }, store.KindProjectViewed, "4"},
		{"email", func() any { return r.EmailCopied("a@b.c")() }, store.KindEmailCopied, "a@b.c"},
		{"link", func() any { return r.LinkCopied("https://x.y")() }, store.KindLinkCopied, "https://x.y"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.cmd())
			require.Len(t, repo.events, i+1)
			got := repo.events[i]
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.subject, got.Subject)
		})
	}
}

func TestRecordErrorIsReturned(t *testing.T) {
	boom := errors.New("disk full")
	r := New(&fakeRepo{err: boom}, nil)
	assert.ErrorIs(t, r.Record(context.Background(), store.KindSessionEnd, ""), boom)
	assert.Nil(t, r.Cmd(store.KindSessionEnd, "")())
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.Equal(t, "", r.SessionID())
	assert.NoError(t, r.Record(context.Background(), store.KindSessionStart, ""))
	assert.Nil(t, r.StageRevealed(1))
	assert.Nil(t, r.ProjectViewed(1))
}
