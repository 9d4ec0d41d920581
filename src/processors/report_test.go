package processors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/algotax/backend/src/models"
)

func TestReportCounters(t *testing.T) {
	report := NewReport()

	report.Add(Outcome{State: StateOptIn, SkipReason: models.SkipOptIn})
	report.Add(Outcome{State: StatePaymentWithNote, SkipReason: models.SkipNote})
	report.Add(Outcome{State: StateApplicationCall, SkipReason: models.SkipApplication})
	report.Add(Outcome{State: StatePaymentBelowThreshold, SkipReason: models.SkipPayment})
	report.Add(Outcome{State: StateUnknown, SkipReason: models.SkipUnknown})
	report.Add(Outcome{State: StateTaxable, Event: &models.TaxableEvent{Action: models.ActionBuy}})
	report.Add(Outcome{State: StateTaxable, Event: &models.TaxableEvent{Action: models.ActionSell}})
	report.AddFailure()

	require.Equal(t, 2, report.SkippedCount)
	require.Equal(t, 1, report.AppCalls)
	require.Equal(t, 1, report.PaymentTransactions)
	require.Equal(t, 1, report.UnknownTransactions)
	require.Equal(t, 1, report.BuyCount)
	require.Equal(t, 1, report.SalesCount)
	require.Equal(t, 1, report.FailedTransactions)
	require.Equal(t, 8, report.Total())
}

func TestReportJSONFieldNames(t *testing.T) {
	report := &Report{
		SkippedCount:        3,
		BuyCount:            2,
		SalesCount:          1,
		PaymentTransactions: 4,
		UnknownTransactions: 5,
		AppCalls:            6,
		FailedTransactions:  7,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, map[string]int{
		"skippedCount":        3,
		"buyCount":            2,
		"salesCount":          1,
		"paymentTransactions": 4,
		"unknownTransactions": 5,
		"appCalls":            6,
		"failedTransactions":  7,
	}, decoded)
}
