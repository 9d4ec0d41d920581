package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/algotax/backend/src/models"
)

type stubLookup struct {
	assets     map[int64]models.Asset
	assetCalls int
	appCalls   int
	appName    string
}

func (s *stubLookup) AssetByID(ctx context.Context, id int64) (*models.Asset, error) {
	s.assetCalls++
	if asset, ok := s.assets[id]; ok {
		return &asset, nil
	}
	return nil, fmt.Errorf("asset %d not found", id)
}

func (s *stubLookup) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	s.appCalls++
	return &models.Application{ID: id, Name: s.appName}, nil
}

type memStore struct {
	assets       []models.Asset
	accounts     []models.Account
	applications []models.Application

	savedAssets       []models.Asset
	savedAccounts     []models.Account
	savedApplications []models.Application
	loadErr           error
}

func (m *memStore) LoadAssets() ([]models.Asset, error)             { return m.assets, m.loadErr }
func (m *memStore) LoadAccounts() ([]models.Account, error)         { return m.accounts, m.loadErr }
func (m *memStore) LoadApplications() ([]models.Application, error) { return m.applications, m.loadErr }

func (m *memStore) SaveAsset(asset models.Asset) error {
	m.savedAssets = append(m.savedAssets, asset)
	return nil
}

func (m *memStore) SaveAccount(account models.Account) error {
	m.savedAccounts = append(m.savedAccounts, account)
	return nil
}

func (m *memStore) SaveApplication(app models.Application) error {
	m.savedApplications = append(m.savedApplications, app)
	return nil
}

func TestResolveAssetSeeded(t *testing.T) {
	lookup := &stubLookup{}
	res := NewResolver(lookup, nil)

	algo, err := res.ResolveAsset(context.Background(), models.AssetIDAlgo)
	require.NoError(t, err)
	require.Equal(t, "Algorand", algo.Name)
	require.Equal(t, uint32(6), algo.Decimals)

	usdc, err := res.ResolveAsset(context.Background(), 31566704)
	require.NoError(t, err)
	require.Equal(t, "USDC", usdc.Name)

	require.Zero(t, lookup.assetCalls, "seeded assets must never hit the lookup")
}

func TestResolveAssetFetchedOnce(t *testing.T) {
	lookup := &stubLookup{assets: map[int64]models.Asset{
		123456789: {Name: "NewCoin", Decimals: 3},
	}}
	store := &memStore{}
	res := NewResolver(lookup, store)

	for i := 0; i < 3; i++ {
		asset, err := res.ResolveAsset(context.Background(), 123456789)
		require.NoError(t, err)
		require.Equal(t, "NewCoin", asset.Name)
		require.Equal(t, int64(123456789), asset.ID)
	}

	require.Equal(t, 1, lookup.assetCalls, "resolution must be memoized")
	require.Len(t, store.savedAssets, 1)
	require.Equal(t, "NewCoin", store.savedAssets[0].Name)
}

func TestResolveAssetUnresolvable(t *testing.T) {
	res := NewResolver(&stubLookup{}, nil)

	_, err := res.ResolveAsset(context.Background(), 987654321)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAssetUnresolved)
	require.Contains(t, err.Error(), "987654321")
}

func TestResolveAccountSynthesizedOnce(t *testing.T) {
	store := &memStore{}
	res := NewResolver(&stubLookup{}, store)

	const addr = "SOMEUNKNOWNADDRESSAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	first := res.ResolveAccount(addr)
	require.Equal(t, "Unknown Account "+addr, first.Name)
	require.Equal(t, models.IntentUnknown, first.Intent)

	second := res.ResolveAccount(addr)
	require.Equal(t, first, second)
	require.Len(t, store.savedAccounts, 1, "the placeholder is persisted exactly once")
}

func TestResolveAccountSeeded(t *testing.T) {
	res := NewResolver(&stubLookup{}, nil)

	account := res.ResolveAccount("FMBXOFAQCSAD4UWU4Q7IX5AV4FRV6AKURJQYGXLW3CTPTQ7XBX6MALMSPY")
	require.Equal(t, "Yieldly Escrow Account", account.Name)
	require.Equal(t, models.IntentEscrow, account.Intent)
}

func TestResolveApplicationPlaceholder(t *testing.T) {
	lookup := &stubLookup{} // lookup returns an application with no name
	store := &memStore{}
	res := NewResolver(lookup, store)

	app := res.ResolveApplication(context.Background(), 111111111)
	require.Equal(t, "Unknown Application 111111111", app.Name)

	res.ResolveApplication(context.Background(), 111111111)
	require.Equal(t, 1, lookup.appCalls, "placeholders are cached, never re-fetched")
	require.Len(t, store.savedApplications, 1)
}

func TestResolveApplicationNamedByLookup(t *testing.T) {
	res := NewResolver(&stubLookup{appName: "Some Protocol"}, nil)

	app := res.ResolveApplication(context.Background(), 222222222)
	require.Equal(t, "Some Protocol", app.Name)
}

func TestResolveApplicationSeeded(t *testing.T) {
	lookup := &stubLookup{}
	res := NewResolver(lookup, nil)

	app := res.ResolveApplication(context.Background(), 552635992)
	require.Equal(t, "Tinyman AMM Validator", app.Name)
	require.Equal(t, "Tinyman", app.Tag)
	require.Zero(t, lookup.appCalls)
}

func TestDisplayAmount(t *testing.T) {
	res := NewResolver(&stubLookup{}, nil)

	cases := []struct {
		assetID int64
		raw     uint64
		want    float64
	}{
		{models.AssetIDAlgo, 5_000_000, 5},
		{models.AssetIDAlgo, 1, 0.000001},
		{297995609, 250, 2.5}, // Choice Coin, 2 decimals
		{444108880, 42, 42},   // CryptoTrees, 0 decimals
	}
	for _, tc := range cases {
		got, err := res.DisplayAmount(context.Background(), tc.assetID, tc.raw)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "asset %d raw %d", tc.assetID, tc.raw)
	}
}

func TestPreload(t *testing.T) {
	lookup := &stubLookup{}
	store := &memStore{
		assets:   []models.Asset{{ID: 555, Name: "StoredCoin", Decimals: 1}},
		accounts: []models.Account{{Address: "STOREDADDR", Name: "Stored Account"}},
		applications: []models.Application{
			{ID: 556, Name: "Stored App", Tag: "Stored"},
		},
	}
	res := NewResolver(lookup, store)
	require.NoError(t, res.Preload())

	asset, err := res.ResolveAsset(context.Background(), 555)
	require.NoError(t, err)
	require.Equal(t, "StoredCoin", asset.Name)
	require.Zero(t, lookup.assetCalls)

	require.Equal(t, "Stored Account", res.ResolveAccount("STOREDADDR").Name)
	require.Equal(t, "Stored App", res.ResolveApplication(context.Background(), 556).Name)
	require.Zero(t, lookup.appCalls)
}

func TestPreloadError(t *testing.T) {
	store := &memStore{loadErr: errors.New("db closed")}
	res := NewResolver(&stubLookup{}, store)
	require.Error(t, res.Preload())
}
