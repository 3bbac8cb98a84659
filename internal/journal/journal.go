// Package journal records what a visitor does during one TUI session.
// A nil *Recorder is valid and records nothing.
package journal

import (
	"context"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/store"
)

const writeTimeout = 2 * time.Second

// Recorder appends visit events for a single session.
type Recorder struct {
	repo    store.EventRepo
	session string
	log     *zap.Logger
}

// New creates a Recorder with a fresh session id.
func New(repo store.EventRepo, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Recorder{
		repo:    repo,
		session: id,
		log:     log.With(zap.String("session", id)),
	}
}

// SessionID returns the session id, or "" for a nil Recorder.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.session
}

// Record writes one event synchronously. Failures are logged and returned.
func (r *Recorder) Record(ctx context.Context, kind store.VisitKind, subject string) error {
	if r == nil || r.repo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := r.repo.AppendVisit(ctx, store.VisitEventData{
		SessionID: r.session,
		Kind:      kind,
		Subject:   subject,
	})
	if err != nil {
		r.log.Warn("journal write failed",
			zap.String("kind", string(kind)),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	r.log.Debug("journal", zap.String("kind", string(kind)), zap.String("subject", subject))
	return nil
}

// Cmd returns a command that records the event off the update loop.
// It yields no message.
func (r *Recorder) Cmd(kind store.VisitKind, subject string) tea.Cmd {
	if r == nil || r.repo == nil {
		return nil
	}
	return func() tea.Msg {
		_ = r.Record(context.Background(), kind, subject)
		return nil
	}
}

func (r *Recorder) StageRevealed(stage int) tea.Cmd {
	return r.Cmd(store.KindStageRevealed, strconv.Itoa(stage))
}

func (r *Recorder) ProjectViewed(id int) tea.Cmd {
	return r.Cmd(store.KindProjectViewed, strconv.Itoa(id))
}

func (r *Recorder) EmailCopied(email string) tea.Cmd {
	return r.Cmd(store.KindEmailCopied, email)
}

func (r *Recorder) LinkCopied(link string) tea.Cmd {
	return r.Cmd(store.KindLinkCopied, link)
}
