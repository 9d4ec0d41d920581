package writers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/processors"
	"github.com/username/algotax/backend/src/utils"
)

var resultHeader = []string{"ID", "Currency Name", "Quantity", "Buy/Sale", "Timestamp", "Note"}

// csvEventWriter implements EventSink, writing taxable events to a CSV file
// and the final counters to a JSON report file. An existing results file is
// replaced, a run always starts clean.
type csvEventWriter struct {
	resultsPath string
	reportPath  string
	file        *os.File
	writer      *csv.Writer
}

// NewCSVEventWriter creates the results file and writes the header row.
func NewCSVEventWriter(resultsPath, reportPath string) (EventSink, error) {
	file, err := os.Create(resultsPath)
	if err != nil {
		return nil, fmt.Errorf("creating results file %s: %w", resultsPath, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(resultHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing results header: %w", err)
	}

	return &csvEventWriter{
		resultsPath: resultsPath,
		reportPath:  reportPath,
		file:        file,
		writer:      writer,
	}, nil
}

func (w *csvEventWriter) WriteEvent(event models.TaxableEvent) error {
	row := []string{
		event.ID,
		event.CurrencyName,
		strconv.FormatFloat(event.Quantity, 'f', -1, 64),
		string(event.Action),
		utils.FormatTimestamp(event.Timestamp),
		event.Note,
	}
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("writing taxable event %s: %w", event.ID, err)
	}
	return nil
}

// WriteSkip logs the skipped transaction with its reason tag.
// TODO: write skipped transactions to a separate results file.
func (w *csvEventWriter) WriteSkip(txnID string, reason models.SkipReason) error {
	logger.L.Debug("Skipping transaction", "txnId", txnID, "reason", string(reason))
	return nil
}

func (w *csvEventWriter) WriteReport(report *processors.Report) error {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(w.reportPath, data, 0o644); err != nil {
		return fmt.Errorf("writing report file %s: %w", w.reportPath, err)
	}
	return nil
}

func (w *csvEventWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
