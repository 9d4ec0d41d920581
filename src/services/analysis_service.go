package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/algotax/backend/src/database"
	"github.com/username/algotax/backend/src/indexer"
	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/processors"
	"github.com/username/algotax/backend/src/resolver"
	"github.com/username/algotax/backend/src/writers"
)

const ckLatestRunResult = "latest_run_result"

// ErrUnknownAccount means the indexer has never seen the requested address.
var ErrUnknownAccount = errors.New("unknown account")

// AnalysisOptions carries the per-run knobs from config.
type AnalysisOptions struct {
	PaymentThresholdMicroAlgos uint64
	SkipNotedPayments          bool
	PageSize                   int
	AfterDate                  string
	BeforeDate                 string
}

// SinkFactory opens a fresh output sink for one run.
type SinkFactory func() (writers.EventSink, error)

type analysisServiceImpl struct {
	indexer     indexer.Service
	resolver    *resolver.Resolver
	newSink     SinkFactory
	resultCache *cache.Cache
	opts        AnalysisOptions
}

// NewAnalysisService creates the service that drives a full analysis run:
// page through the account's history, classify every transaction, feed the
// sink and the report, then narrate grouped protocol interactions.
func NewAnalysisService(idx indexer.Service, res *resolver.Resolver, newSink SinkFactory, resultCache *cache.Cache, opts AnalysisOptions) AnalysisService {
	return &analysisServiceImpl{
		indexer:     idx,
		resolver:    res,
		newSink:     newSink,
		resultCache: resultCache,
		opts:        opts,
	}
}

func (s *analysisServiceImpl) RunAnalysis(ctx context.Context, address string) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger.L.Info("RunAnalysis START", "runId", runID, "address", address)

	account, err := s.indexer.AccountInformation(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownAccount, address, err)
	}
	logger.L.Info("Account found", "address", account.Address, "microAlgos", account.Amount)

	sink, err := s.newSink()
	if err != nil {
		return nil, fmt.Errorf("opening output sink: %w", err)
	}
	defer sink.Close()

	classifier := processors.NewClassifier(s.resolver, s.indexer, address,
		s.opts.PaymentThresholdMicroAlgos, s.opts.SkipNotedPayments)
	report := processors.NewReport()

	// Transactions sharing a group id are collected for narration after the
	// main pass; each is still classified on its own.
	groups := make(map[string][]models.RawTransaction)
	var groupOrder []string

	query := indexer.TransactionQuery{
		Address:    address,
		AfterDate:  s.opts.AfterDate,
		BeforeDate: s.opts.BeforeDate,
		Limit:      s.opts.PageSize,
	}

	var txCount, eventCount, pageCount int
	for {
		page, err := s.indexer.SearchTransactions(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetching transaction page %d: %w", pageCount+1, err)
		}
		pageCount++

		for _, tx := range page.Transactions {
			txCount++

			outcome, classifyErr := classifier.Classify(ctx, tx)
			if classifyErr != nil {
				// Scoped to this transaction; the batch continues.
				logger.L.Error("Failed to classify transaction", "txnId", tx.ID, "error", classifyErr)
				report.AddFailure()
				s.appendTransactionLog(tx, runID, 0)
				continue
			}

			var timestampMs int64
			if outcome.Event != nil {
				timestampMs = outcome.Event.TimestampMs
			}
			s.appendTransactionLog(tx, runID, timestampMs)

			if tx.Group != "" {
				if _, seen := groups[tx.Group]; !seen {
					groupOrder = append(groupOrder, tx.Group)
				}
				groups[tx.Group] = append(groups[tx.Group], tx)
			}

			if outcome.Event != nil {
				if err := sink.WriteEvent(*outcome.Event); err != nil {
					return nil, fmt.Errorf("writing taxable event: %w", err)
				}
				s.persistTaxableEvent(*outcome.Event, runID)
				eventCount++
			} else {
				if err := sink.WriteSkip(tx.ID, outcome.SkipReason); err != nil {
					return nil, fmt.Errorf("writing skip notification: %w", err)
				}
			}
			report.Add(outcome)
		}

		if page.NextToken == "" {
			break
		}
		query.NextToken = page.NextToken
	}

	narrations := s.narrateGroups(ctx, groups, groupOrder, address)

	if err := sink.WriteReport(report); err != nil {
		return nil, fmt.Errorf("writing final report: %w", err)
	}

	result := &RunResult{
		RunID:            runID,
		Address:          address,
		Report:           report,
		EventCount:       eventCount,
		TransactionCount: txCount,
		PageCount:        pageCount,
		Narrations:       narrations,
		StartedAt:        start,
		Duration:         time.Since(start).String(),
	}
	s.resultCache.Set(ckLatestRunResult, result, cache.DefaultExpiration)

	logger.L.Info("RunAnalysis END",
		"runId", runID,
		"transactions", txCount,
		"taxableEvents", eventCount,
		"pages", pageCount,
		"duration", result.Duration)
	return result, nil
}

// narrateGroups summarizes multi-transaction protocol interactions.
// Narration failures are logged and skipped; they never fail the run.
func (s *analysisServiceImpl) narrateGroups(ctx context.Context, groups map[string][]models.RawTransaction, order []string, address string) []string {
	narrator := processors.NewNarrator(s.resolver, s.indexer)

	var narrations []string
	for _, groupID := range order {
		group := groups[groupID]
		if len(group) < 2 {
			continue
		}
		narration, err := narrator.Narrate(ctx, group, address)
		if err != nil {
			logger.L.Warn("Failed to narrate transaction group", "groupId", groupID, "error", err)
			continue
		}
		logger.L.Info(narration, "groupId", groupID)
		narrations = append(narrations, narration)
	}
	return narrations
}

func (s *analysisServiceImpl) LatestResult() (*RunResult, bool) {
	if cached, found := s.resultCache.Get(ckLatestRunResult); found {
		return cached.(*RunResult), true
	}
	return nil, false
}

// appendTransactionLog records every fetched transaction, taxable or not.
// Log failures are not fatal to the run.
func (s *analysisServiceImpl) appendTransactionLog(tx models.RawTransaction, runID string, timestampMs int64) {
	var receiver string
	assetID := models.AssetIDNone
	var amount uint64
	var applicationID int64

	switch {
	case tx.Payment != nil:
		receiver = tx.Payment.Receiver
		assetID = models.AssetIDAlgo
		amount = tx.Payment.Amount
	case tx.AssetTransfer != nil:
		receiver = tx.AssetTransfer.Receiver
		assetID = tx.AssetTransfer.AssetID
		amount = tx.AssetTransfer.Amount
	case tx.AppCall != nil:
		applicationID = tx.AppCall.ApplicationID
	}

	_, err := database.DB.Exec(`
		INSERT OR IGNORE INTO transactions
		(txn_id, group_id, type, sender, receiver, asset_id, amount, fee, round, note, application_id, timestamp_ms, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Group, string(tx.TxType), tx.Sender, receiver, assetID, amount,
		tx.Fee, tx.ConfirmedRound, tx.Note, applicationID, timestampMs, runID)
	if err != nil {
		logger.L.Error("Failed to append transaction to log", "txnId", tx.ID, "error", err)
	}
}

func (s *analysisServiceImpl) persistTaxableEvent(event models.TaxableEvent, runID string) {
	_, err := database.DB.Exec(`
		INSERT OR IGNORE INTO taxable_events
		(txn_id, timestamp_ms, currency_name, quantity, action, note, group_id, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.TimestampMs, event.CurrencyName, event.Quantity,
		string(event.Action), event.Note, event.GroupID, runID)
	if err != nil {
		logger.L.Error("Failed to persist taxable event", "txnId", event.ID, "error", err)
	}
}

func (s *analysisServiceImpl) GetTaxableEvents() ([]models.TaxableEvent, error) {
	rows, err := database.DB.Query(`
		SELECT txn_id, timestamp_ms, currency_name, quantity, action, note, group_id
		FROM taxable_events
		ORDER BY timestamp_ms ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying taxable events: %w", err)
	}
	defer rows.Close()

	var events []models.TaxableEvent
	for rows.Next() {
		var event models.TaxableEvent
		var action string
		if err := rows.Scan(&event.ID, &event.TimestampMs, &event.CurrencyName,
			&event.Quantity, &action, &event.Note, &event.GroupID); err != nil {
			return nil, fmt.Errorf("scanning taxable event: %w", err)
		}
		event.Action = models.EventAction(action)
		event.Timestamp = time.UnixMilli(event.TimestampMs).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *analysisServiceImpl) GetLoggedTransactions() ([]models.LoggedTransaction, error) {
	rows, err := database.DB.Query(`
		SELECT id, txn_id, group_id, type, sender, receiver, asset_id, amount, fee, round, note, application_id, timestamp_ms, run_id
		FROM transactions
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying transaction log: %w", err)
	}
	defer rows.Close()

	var txs []models.LoggedTransaction
	for rows.Next() {
		var tx models.LoggedTransaction
		if err := rows.Scan(&tx.DBID, &tx.TxnID, &tx.GroupID, &tx.Type, &tx.Sender,
			&tx.Receiver, &tx.AssetID, &tx.Amount, &tx.Fee, &tx.Round, &tx.Note,
			&tx.ApplicationID, &tx.TimestampMs, &tx.RunID); err != nil {
			return nil, fmt.Errorf("scanning logged transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
