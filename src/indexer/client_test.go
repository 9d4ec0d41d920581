package indexer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	// A high rate keeps the limiter out of the way in tests.
	return NewClient(server.URL, 5*time.Second, 1000)
}

func TestAccountInformation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/accounts/SOMEADDRESS", r.URL.Path)
		w.Write([]byte(`{"account": {"address": "SOMEADDRESS", "amount": 123456}}`))
	})

	info, err := client.AccountInformation(context.Background(), "SOMEADDRESS")
	require.NoError(t, err)
	require.Equal(t, "SOMEADDRESS", info.Address)
	require.Equal(t, uint64(123456), info.Amount)
}

func TestSearchTransactionsQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/transactions", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "SOMEADDRESS", q.Get("address"))
		require.Equal(t, "2021-01-01T00:00:00Z", q.Get("after-time"))
		require.Equal(t, "2021-12-31T23:59:59Z", q.Get("before-time"))
		require.Equal(t, "50", q.Get("limit"))
		require.Equal(t, "token123", q.Get("next"))
		w.Write([]byte(`{
			"transactions": [
				{"id": "TXN1", "tx-type": "pay", "sender": "A", "confirmed-round": 100,
				 "payment-transaction": {"receiver": "B", "amount": 7000000}}
			],
			"next-token": "token456"
		}`))
	})

	page, err := client.SearchTransactions(context.Background(), TransactionQuery{
		Address:    "SOMEADDRESS",
		AfterDate:  "2021-01-01T00:00:00Z",
		BeforeDate: "2021-12-31T23:59:59Z",
		Limit:      50,
		NextToken:  "token123",
	})
	require.NoError(t, err)
	require.Equal(t, "token456", page.NextToken)
	require.Len(t, page.Transactions, 1)

	tx := page.Transactions[0]
	require.Equal(t, "TXN1", tx.ID)
	require.NotNil(t, tx.Payment)
	require.Equal(t, uint64(7000000), tx.Payment.Amount)
}

func TestSearchTransactionsOmitsEmptyParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.False(t, q.Has("after-time"))
		require.False(t, q.Has("before-time"))
		require.False(t, q.Has("next"))
		w.Write([]byte(`{"transactions": []}`))
	})

	page, err := client.SearchTransactions(context.Background(), TransactionQuery{Address: "SOMEADDRESS", Limit: 50})
	require.NoError(t, err)
	require.Empty(t, page.Transactions)
	require.Empty(t, page.NextToken)
}

func TestBlockTimeCached(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/v2/blocks/15000000", r.URL.Path)
		w.Write([]byte(`{"timestamp": 1623758400}`))
	})

	want := time.Unix(1623758400, 0).UTC()
	for i := 0; i < 3; i++ {
		got, err := client.BlockTime(context.Background(), 15000000)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.Equal(t, 1, hits, "repeated rounds must be served from the cache")
}

func TestAssetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/assets/31566704", r.URL.Path)
		w.Write([]byte(`{"asset": {"index": 31566704, "params": {"name": "USDC", "decimals": 6}}}`))
	})

	asset, err := client.AssetByID(context.Background(), 31566704)
	require.NoError(t, err)
	require.Equal(t, int64(31566704), asset.ID)
	require.Equal(t, "USDC", asset.Name)
	require.Equal(t, uint32(6), asset.Decimals)
}

func TestNonOKStatusIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "no accounts found for address"}`, http.StatusNotFound)
	})

	_, err := client.AccountInformation(context.Background(), "MISSINGADDRESS")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.Contains(t, err.Error(), "no accounts found")
}
