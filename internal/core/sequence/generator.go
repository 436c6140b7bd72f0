package sequence

import (
	"context"
	"time"

	"numera/internal/core/id"
)

// Generator issues formatted document numbers.
// This is the domain contract - the transactional implementation lives in
// the infrastructure layer.
type Generator interface {
	// Generate produces the next number for the rule identified by code and
	// persists the counter increment atomically. Two concurrent calls for
	// the same code are strictly serialized; the returned string reflects
	// exactly the persisted state.
	Generate(ctx context.Context, code string) (string, error)

	// PreviewNextNumber returns what Generate would currently produce,
	// without writing anything. The result can go stale if a concurrent
	// Generate interleaves; callers must treat it as advisory.
	PreviewNextNumber(ctx context.Context, code string) (string, error)
}

// Issued is the record of one generated number, written to the issuance
// journal in the same transaction as the counter increment.
type Issued struct {
	RuleID   id.ID
	RuleCode string
	Number   string
	Sequence int64
	Reset    bool
	IssuedAt time.Time
}

// Recorder persists issuance records. A Record failure inside the generate
// transaction rolls the whole generation back.
type Recorder interface {
	Record(ctx context.Context, issue Issued) error
}

// NopRecorder discards issuance records. Used in tests and by deployments
// that disable the journal.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, issue Issued) error { return nil }
