package resolver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
)

// ErrAssetUnresolved means an asset id has no cached entry and the external
// lookup failed. Decimals cannot be fabricated safely, so the transaction
// that referenced the asset cannot be classified.
var ErrAssetUnresolved = errors.New("asset could not be resolved")

// Resolver memoizes asset, account and application metadata for the lifetime
// of one analysis run. Accounts and applications never fail to resolve: an
// unknown one gets a synthesized placeholder that is cached and persisted.
// Assets are the exception, see ErrAssetUnresolved.
type Resolver struct {
	assets       map[int64]models.Asset
	accounts     map[string]models.Account
	applications map[int64]models.Application

	lookup Lookup
	store  Store
}

// NewResolver creates a resolver with the built-in seed entities already
// in place. Call Preload before the first resolution to warm it from the
// store snapshot.
func NewResolver(lookup Lookup, store Store) *Resolver {
	r := &Resolver{
		assets:       make(map[int64]models.Asset),
		accounts:     make(map[string]models.Account),
		applications: make(map[int64]models.Application),
		lookup:       lookup,
		store:        store,
	}
	for _, asset := range seedAssets {
		r.assets[asset.ID] = asset
	}
	for _, app := range seedApplications {
		r.applications[app.ID] = app
	}
	for _, account := range seedAccounts {
		r.accounts[account.Address] = account
	}
	return r
}

// Preload populates all three caches from the store snapshot. Entities
// already known from a previous run never trigger an external lookup.
func (r *Resolver) Preload() error {
	if r.store == nil {
		return nil
	}

	assets, err := r.store.LoadAssets()
	if err != nil {
		return fmt.Errorf("loading asset snapshot: %w", err)
	}
	for _, asset := range assets {
		r.assets[asset.ID] = asset
	}

	accounts, err := r.store.LoadAccounts()
	if err != nil {
		return fmt.Errorf("loading account snapshot: %w", err)
	}
	for _, account := range accounts {
		r.accounts[account.Address] = account
	}

	apps, err := r.store.LoadApplications()
	if err != nil {
		return fmt.Errorf("loading application snapshot: %w", err)
	}
	for _, app := range apps {
		r.applications[app.ID] = app
	}

	logger.L.Info("Resolver caches preloaded",
		"assets", len(r.assets),
		"accounts", len(r.accounts),
		"applications", len(r.applications))
	return nil
}

// ResolveAsset returns the asset metadata for id, fetching it from the
// external lookup on a cache miss.
func (r *Resolver) ResolveAsset(ctx context.Context, id int64) (models.Asset, error) {
	if asset, ok := r.assets[id]; ok {
		return asset, nil
	}
	if id < 0 || r.lookup == nil {
		return models.Asset{}, fmt.Errorf("%w: id %d", ErrAssetUnresolved, id)
	}

	logger.L.Info("Unknown asset, fetching from indexer", "assetId", id)
	fetched, err := r.lookup.AssetByID(ctx, id)
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w: id %d: %v", ErrAssetUnresolved, id, err)
	}

	asset := *fetched
	asset.ID = id
	r.assets[id] = asset
	r.persistAsset(asset)
	return asset, nil
}

// ResolveAccount returns the account for the address. Never fails: addresses
// we have not seen get a placeholder name and are cached so they are never
// synthesized twice.
func (r *Resolver) ResolveAccount(address string) models.Account {
	if account, ok := r.accounts[address]; ok {
		return account
	}

	account := models.Account{
		Address: address,
		Name:    "Unknown Account " + address,
		Intent:  models.IntentUnknown,
	}
	r.accounts[address] = account
	r.persistAccount(account)
	return account
}

// ResolveApplication returns the application for id. The indexer knows
// whether an application exists but not what to call it, so anything outside
// the known tables gets a placeholder name. Never fails.
func (r *Resolver) ResolveApplication(ctx context.Context, id int64) models.Application {
	if app, ok := r.applications[id]; ok {
		return app
	}

	app := models.Application{
		ID:     id,
		Name:   fmt.Sprintf("Unknown Application %d", id),
		Intent: models.IntentUnknown,
	}
	if r.lookup != nil {
		if fetched, err := r.lookup.ApplicationByID(ctx, id); err == nil && fetched.Name != "" {
			app.Name = fetched.Name
			app.Intent = fetched.Intent
			app.Tag = fetched.Tag
		}
	}
	r.applications[id] = app
	r.persistApplication(app)
	return app
}

// DisplayAmount converts raw base units into the asset's display quantity.
// This is the single scaling rule used everywhere amounts are shown.
func (r *Resolver) DisplayAmount(ctx context.Context, assetID int64, rawAmount uint64) (float64, error) {
	asset, err := r.ResolveAsset(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return float64(rawAmount) / math.Pow10(int(asset.Decimals)), nil
}

func (r *Resolver) persistAsset(asset models.Asset) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveAsset(asset); err != nil {
		logger.L.Warn("Failed to persist resolved asset", "assetId", asset.ID, "error", err)
	}
}

func (r *Resolver) persistAccount(account models.Account) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveAccount(account); err != nil {
		logger.L.Warn("Failed to persist resolved account", "address", account.Address, "error", err)
	}
}

func (r *Resolver) persistApplication(app models.Application) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveApplication(app); err != nil {
		logger.L.Warn("Failed to persist resolved application", "applicationId", app.ID, "error", err)
	}
}
