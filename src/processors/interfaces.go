package processors

import (
	"context"
	"time"

	"github.com/username/algotax/backend/src/models"
)

// ClassificationState is the terminal state the engine assigns to one
// transaction. Every transaction lands in exactly one.
type ClassificationState int

const (
	StateUnknown ClassificationState = iota
	StateOptIn
	StateApplicationCall
	StatePaymentBelowThreshold
	StatePaymentWithNote
	StateTaxable
)

func (s ClassificationState) String() string {
	switch s {
	case StateOptIn:
		return "OptIn"
	case StateApplicationCall:
		return "ApplicationCall"
	case StatePaymentBelowThreshold:
		return "PaymentBelowThreshold"
	case StatePaymentWithNote:
		return "PaymentWithNote"
	case StateTaxable:
		return "Taxable"
	}
	return "Unknown"
}

// Outcome is the result of classifying one transaction. Event is set only
// for StateTaxable; SkipReason is set for everything else.
type Outcome struct {
	State      ClassificationState
	SkipReason models.SkipReason
	Event      *models.TaxableEvent
	Narration  string
}

// BlockTimeSource resolves a confirmed round into the block's timestamp.
// The indexer client satisfies this.
type BlockTimeSource interface {
	BlockTime(ctx context.Context, round uint64) (time.Time, error)
}

// TransactionClassifier defines the interface for the classification engine.
type TransactionClassifier interface {
	Classify(ctx context.Context, tx models.RawTransaction) (Outcome, error)
}

// GroupNarrator turns a group of related transactions into a human readable
// summary of what the group did against a known protocol.
type GroupNarrator interface {
	Narrate(ctx context.Context, group []models.RawTransaction, observer string) (string, error)
}
