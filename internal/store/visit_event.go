package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ErrEmptySession is returned when a visit event has no session id.
var ErrEmptySession = errors.New("visit event without session id")

type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendVisit(ctx context.Context, data VisitEventData) error {
	if data.SessionID == "" {
		return ErrEmptySession
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(visitEventsTable).
		Columns("sequence", "timestamp", "session_id", "kind", "subject").
		Values(seqNum, time.Now().UTC(), data.SessionID, string(data.Kind), data.Subject).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save visit event: %w", err)
	}
	return nil
}

func (r *eventRepo) Recent(ctx context.Context, opts QueryOpts) ([]VisitEvent, error) {
	b := builder()
	t := b.Table(visitEventsTable)
	sel := b.Select(
		t.C("id"), t.C("sequence"), t.C("timestamp"),
		t.C("session_id"), t.C("kind"), t.C("subject"),
	).From(t).OrderBy(entsql.Desc(t.C("sequence")))

	if opts.SessionID != "" {
		sel = sel.Where(entsql.EQ(t.C("session_id"), opts.SessionID))
	}
	if opts.Kind != "" {
		sel = sel.Where(entsql.EQ(t.C("kind"), string(opts.Kind)))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query visit events: %w", err)
	}
	defer rows.Close()

	var events []VisitEvent
	for rows.Next() {
		var (
			ev   VisitEvent
			kind string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.Timestamp, &ev.SessionID, &kind, &ev.Subject); err != nil {
			return nil, fmt.Errorf("scan visit event: %w", err)
		}
		ev.Kind = VisitKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) Stats(ctx context.Context) (VisitStats, error) {
	stats := VisitStats{
		ByKind:       make(map[VisitKind]int),
		ProjectViews: make(map[string]int),
	}

	b := builder()
	t := b.Table(visitEventsTable)

	// Sessions.
	query, args := b.Select(entsql.Count(entsql.Distinct(t.C("session_id")))).From(t).Query()
	if err := r.scanOne(ctx, query, args, &stats.Sessions); err != nil {
		return stats, fmt.Errorf("count sessions: %w", err)
	}

	// Per kind.
	query, args = b.Select(t.C("kind"), entsql.As(entsql.Count("*"), "n")).
		From(t).
		GroupBy(t.C("kind")).
		Query()
	err := r.scanGroups(ctx, query, args, func(key string, n int) {
		stats.ByKind[VisitKind(key)] = n
		stats.Events += n
	})
	if err != nil {
		return stats, fmt.Errorf("count kinds: %w", err)
	}

	// Per project.
	query, args = b.Select(t.C("subject"), entsql.As(entsql.Count("*"), "n")).
		From(t).
		Where(entsql.EQ(t.C("kind"), string(KindProjectViewed))).
		GroupBy(t.C("subject")).
		Query()
	err = r.scanGroups(ctx, query, args, func(key string, n int) {
		stats.ProjectViews[key] = n
	})
	if err != nil {
		return stats, fmt.Errorf("count project views: %w", err)
	}

	return stats, nil
}

func (r *eventRepo) Reset(ctx context.Context) (int64, error) {
	query, args := builder().Delete(visitEventsTable).Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("reset visit events: %w", err)
	}
	return res.RowsAffected()
}

func (r *eventRepo) scanOne(ctx context.Context, query string, args []any, dst *int) error {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(dst); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *eventRepo) scanGroups(ctx context.Context, query string, args []any, fn func(key string, n int)) error {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		fn(key, n)
	}
	return rows.Err()
}
