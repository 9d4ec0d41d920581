package services

import (
	"context"
	"time"

	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/processors"
)

// RunResult summarizes one completed analysis run.
type RunResult struct {
	RunID            string             `json:"run_id"`
	Address          string             `json:"address"`
	Report           *processors.Report `json:"report"`
	EventCount       int                `json:"event_count"`
	TransactionCount int                `json:"transaction_count"`
	PageCount        int                `json:"page_count"`
	Narrations       []string           `json:"narrations,omitempty"`
	StartedAt        time.Time          `json:"started_at"`
	Duration         string             `json:"duration"`
}

// AnalysisService defines the interface for the core analysis run logic.
type AnalysisService interface {
	RunAnalysis(ctx context.Context, address string) (*RunResult, error)
	LatestResult() (*RunResult, bool)
	GetTaxableEvents() ([]models.TaxableEvent, error)
	GetLoggedTransactions() ([]models.LoggedTransaction, error)
}
