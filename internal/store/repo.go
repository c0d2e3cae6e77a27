package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	WrongOnly bool      // only incorrect answers
	Newest    bool      // newest first, so Limit keeps the latest rows
}

// AnswerEventData captures one confirmed answer.
type AnswerEventData struct {
	SessionID string
	Exam      string
	Subject   string
	Number    string
	Mode      string
	Selected  string
	Correct   bool
	Timestamp time.Time
}

// AnswerEvent is a stored answer with its global sequence.
type AnswerEvent struct {
	Sequence int64
	AnswerEventData
}

// ResetEventData captures a quiz reset and the counters it discarded.
type ResetEventData struct {
	SessionID string
	Mode      string
	Attempted int
	Correct   int
	Timestamp time.Time
}

// SubjectAccuracy is the answer tally for one subject.
type SubjectAccuracy struct {
	Subject   string
	Attempted int
	Correct   int
}

// Accuracy returns Correct / Attempted, or 0 when nothing was attempted.
func (s SubjectAccuracy) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

// EventRepo provides append and query access to the answer journal.
type EventRepo interface {
	// AppendAnswer records a confirmed answer.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendReset records a quiz reset.
	AppendReset(ctx context.Context, data ResetEventData) error

	// LastReset returns the sequence of the session's latest reset, or 0.
	LastReset(ctx context.Context, sessionID string) (int64, error)

	// Answers lists a session's answers in sequence order.
	Answers(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error)

	// SubjectBreakdown tallies the answers given since the session's last
	// reset, one entry per subject in order of first answer.
	SubjectBreakdown(ctx context.Context, sessionID string) ([]SubjectAccuracy, error)
}
