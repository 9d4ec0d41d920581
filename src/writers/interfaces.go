package writers

import (
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/processors"
)

// EventSink receives the classified output stream: one taxable event per
// taxable transaction in processing order, one skip notification per
// non-taxable transaction, and one final report snapshot.
type EventSink interface {
	WriteEvent(event models.TaxableEvent) error
	WriteSkip(txnID string, reason models.SkipReason) error
	WriteReport(report *processors.Report) error
	Close() error
}
