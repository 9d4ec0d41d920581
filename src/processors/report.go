package processors

import "github.com/username/algotax/backend/src/models"

// Report accumulates per-category counters across one analysis run.
// Created once per run, incremented exactly once per processed transaction,
// read only at the end of the run.
type Report struct {
	// Transactions skipped because they are opt-ins or noted internal transfers.
	SkippedCount int `json:"skippedCount"`
	// Transactions where we received anything substantial.
	BuyCount int `json:"buyCount"`
	// Transactions where we sent anything substantial.
	SalesCount int `json:"salesCount"`
	// Small payments below the fee-top-up threshold.
	PaymentTransactions int `json:"paymentTransactions"`
	// Transaction types we do not recognize.
	UnknownTransactions int `json:"unknownTransactions"`
	// Application calls. These don't swap money themselves.
	AppCalls int `json:"appCalls"`
	// Transactions that could not be classified because resolution failed.
	FailedTransactions int `json:"failedTransactions"`
}

func NewReport() *Report {
	return &Report{}
}

// Add records one terminal classification outcome.
func (r *Report) Add(outcome Outcome) {
	switch outcome.State {
	case StateOptIn, StatePaymentWithNote:
		r.SkippedCount++
	case StateApplicationCall:
		r.AppCalls++
	case StatePaymentBelowThreshold:
		r.PaymentTransactions++
	case StateUnknown:
		r.UnknownTransactions++
	case StateTaxable:
		if outcome.Event != nil && outcome.Event.Action == models.ActionBuy {
			r.BuyCount++
		} else {
			r.SalesCount++
		}
	}
}

// AddFailure records a transaction excluded from the category counters
// because its entities could not be resolved.
func (r *Report) AddFailure() {
	r.FailedTransactions++
}

// Total is the number of transactions that reached a terminal state,
// failures included.
func (r *Report) Total() int {
	return r.SkippedCount + r.BuyCount + r.SalesCount +
		r.PaymentTransactions + r.UnknownTransactions + r.AppCalls +
		r.FailedTransactions
}
