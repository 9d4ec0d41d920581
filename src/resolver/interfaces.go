package resolver

import (
	"context"

	"github.com/username/algotax/backend/src/models"
)

// Lookup is the external entity lookup consulted on a cache miss.
// The indexer client satisfies this.
type Lookup interface {
	AssetByID(ctx context.Context, id int64) (*models.Asset, error)
	ApplicationByID(ctx context.Context, id int64) (*models.Application, error)
}

// Store loads the bulk snapshot of previously known entities and persists
// entities discovered during a run, so the next run starts warm.
type Store interface {
	LoadAssets() ([]models.Asset, error)
	LoadAccounts() ([]models.Account, error)
	LoadApplications() ([]models.Application, error)
	SaveAsset(asset models.Asset) error
	SaveAccount(account models.Account) error
	SaveApplication(app models.Application) error
}
