package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events
			(sequence, session_id, exam, subject, number, mode, selected, correct, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Exam, data.Subject, data.Number,
		data.Mode, data.Selected, data.Correct, stamp(data.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendReset(ctx context.Context, data ResetEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reset_events (sequence, session_id, mode, attempted, correct, ts)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Mode, data.Attempted, data.Correct, stamp(data.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("save reset event: %w", err)
	}
	return nil
}

func (r *eventRepo) LastReset(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(sequence) FROM reset_events WHERE session_id = ?`, sessionID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last reset: %w", err)
	}
	return seq.Int64, nil
}

func (r *eventRepo) Answers(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error) {
	var (
		where = []string{"session_id = ?"}
		args  = []any{sessionID}
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "ts >= ?")
		args = append(args, stamp(opts.From))
	}
	if !opts.To.IsZero() {
		where = append(where, "ts <= ?")
		args = append(args, stamp(opts.To))
	}
	if opts.WrongOnly {
		where = append(where, "correct = 0")
	}

	order := "sequence"
	if opts.Newest {
		order = "sequence DESC"
	}
	query := `SELECT sequence, session_id, exam, subject, number, mode, selected, correct, ts
		FROM answer_events WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e  AnswerEvent
			ts int64
		)
		err := rows.Scan(&e.Sequence, &e.SessionID, &e.Exam, &e.Subject, &e.Number,
			&e.Mode, &e.Selected, &e.Correct, &ts)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return out, nil
}

func (r *eventRepo) SubjectBreakdown(ctx context.Context, sessionID string) ([]SubjectAccuracy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subject, COUNT(*), SUM(correct)
		FROM answer_events
		WHERE session_id = ?
			AND sequence > COALESCE((SELECT MAX(sequence) FROM reset_events WHERE session_id = ?), 0)
		GROUP BY subject
		ORDER BY MIN(sequence)`,
		sessionID, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subject breakdown: %w", err)
	}
	defer rows.Close()

	var out []SubjectAccuracy
	for rows.Next() {
		var sa SubjectAccuracy
		if err := rows.Scan(&sa.Subject, &sa.Attempted, &sa.Correct); err != nil {
			return nil, fmt.Errorf("scan subject breakdown: %w", err)
		}
		out = append(out, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subject breakdown: %w", err)
	}
	return out, nil
}

// stamp stores times as Unix milliseconds; a zero time means now.
func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}
