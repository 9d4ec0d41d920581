package indexer

import (
	"context"
	"time"

	"github.com/username/algotax/backend/src/models"
)

// TransactionQuery holds the options for a transaction search. NextToken is
// the opaque continuation cursor returned by the previous page.
type TransactionQuery struct {
	Address    string
	AfterDate  string // RFC3339, optional
	BeforeDate string // RFC3339, optional
	Limit      int
	NextToken  string
}

// TransactionPage is one page of a bounded transaction search result.
type TransactionPage struct {
	Transactions []models.RawTransaction `json:"transactions"`
	NextToken    string                  `json:"next-token"`
}

// AccountInfo is the subset of account information the analyzer needs.
type AccountInfo struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// Service defines the indexer operations consumed by the analysis pipeline.
type Service interface {
	AccountInformation(ctx context.Context, address string) (*AccountInfo, error)
	SearchTransactions(ctx context.Context, query TransactionQuery) (*TransactionPage, error)
	BlockTime(ctx context.Context, round uint64) (time.Time, error)
	AssetByID(ctx context.Context, id int64) (*models.Asset, error)
	ApplicationByID(ctx context.Context, id int64) (*models.Application, error)
}
