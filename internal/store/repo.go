package store

import (
	"context"
	"time"
)

// VisitKind names what happened during a visit.
type VisitKind string

const (
	KindSessionStart  VisitKind = "session_start"
	KindSessionEnd    VisitKind = "session_end"
	KindStageRevealed VisitKind = "stage_revealed"
	KindProjectViewed VisitKind = "project_viewed"
	KindEmailCopied   VisitKind = "email_copied"
	KindLinkCopied    VisitKind = "link_copied"
)

// Kinds lists every visit kind in display order.
func Kinds() []VisitKind {
	return []VisitKind{
		KindSessionStart,
		KindSessionEnd,
		KindStageRevealed,
		KindProjectViewed,
		KindEmailCopied,
		KindLinkCopied,
	}
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	SessionID string    // exact match when set
	Kind      VisitKind // exact match when set
}

// VisitEventData is the caller-supplied part of a visit event.
// Subject carries the stage number, project id or copied text.
type VisitEventData struct {
	SessionID string
	Kind      VisitKind
	Subject   string
}

// VisitEvent is a stored visit event.
type VisitEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionID string
	Kind      VisitKind
	Subject   string
}

// VisitStats aggregates the journal.
type VisitStats struct {
	Events       int
	Sessions     int
	ByKind       map[VisitKind]int
	ProjectViews map[string]int
}

// EventRepo provides append access to visit events plus read-side aggregates.
type EventRepo interface {
	// AppendVisit records one visit event.
	AppendVisit(ctx context.Context, data VisitEventData) error

	// Recent returns events newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]VisitEvent, error)

	// Stats aggregates counts per kind and views per project.
	Stats(ctx context.Context) (VisitStats, error)

	// Reset deletes every recorded event.
	Reset(ctx context.Context) (int64, error)
}
