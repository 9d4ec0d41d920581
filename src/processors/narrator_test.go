package processors

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/resolver"
)

const (
	yieldlyStakingApp = 233725850
	tinymanApp        = 552635992
	yieldlyEscrow     = "FMBXOFAQCSAD4UWU4Q7IX5AV4FRV6AKURJQYGXLW3CTPTQ7XBX6MALMSPY"
)

func newTestNarrator(t *testing.T) (GroupNarrator, *fakeBlockTimes) {
	t.Helper()
	blockTimes := &fakeBlockTimes{blockTime: testBlockTime()}
	res := resolver.NewResolver(&fakeLookup{}, nil)
	return NewNarrator(res, blockTimes), blockTimes
}

func appCallTx(id string, appID int64, args ...string) models.RawTransaction {
	encoded := make([]string, len(args))
	for i, arg := range args {
		encoded[i] = base64.StdEncoding.EncodeToString([]byte(arg))
	}
	return models.RawTransaction{
		ID:             id,
		TxType:         models.TxTypeApplicationCall,
		Sender:         observerAddress,
		ConfirmedRound: 15000000,
		AppCall:        &models.AppCallPayload{ApplicationID: appID, ApplicationArgs: encoded},
	}
}

func assetTransferTx(id, sender, receiver string, assetID int64, amount uint64) models.RawTransaction {
	return models.RawTransaction{
		ID:             id,
		TxType:         models.TxTypeAssetTransfer,
		Sender:         sender,
		ConfirmedRound: 15000000,
		AssetTransfer:  &models.AssetTransferPayload{AssetID: assetID, Receiver: receiver, Amount: amount},
	}
}

func TestNarrateYieldlyStake(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	group := []models.RawTransaction{
		appCallTx("GAPPL", yieldlyStakingApp),
		assetTransferTx("GAXFER", observerAddress, yieldlyEscrow, 226701642, 10_000_000),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Equal(t, "[15-06-2021 12:00:00] - Staked 10 Yieldly into Yieldly Staking Contract", narration)
}

func TestNarrateYieldlyClaim(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	group := []models.RawTransaction{
		appCallTx("GAPPL", yieldlyStakingApp),
		assetTransferTx("GAXFER", yieldlyEscrow, observerAddress, 226701642, 2_500_000),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Contains(t, narration, "Claimed 2.5 Yieldly from Yieldly Staking Contract")
}

func TestNarrateTinymanSwap(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	group := []models.RawTransaction{
		appCallTx("GAPPL", tinymanApp, "swap"),
		{
			ID:             "GPAY",
			TxType:         models.TxTypePayment,
			Sender:         observerAddress,
			ConfirmedRound: 15000000,
			Payment:        &models.PaymentPayload{Receiver: "POOLADDRESS", Amount: 5_000_000},
		},
		assetTransferTx("GAXFER", "POOLADDRESS", observerAddress, 31566704, 4_750_000),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Contains(t, narration, "Swapped 5 Algorand for 4.75 USDC")
}

func TestNarrateTinymanRedeem(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	group := []models.RawTransaction{
		appCallTx("GAPPL", tinymanApp, "redeem"),
		assetTransferTx("GOUT", observerAddress, "POOLADDRESS", 226701642, 1_000_000),
		assetTransferTx("GIN", "POOLADDRESS", observerAddress, 31566704, 900_000),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Contains(t, narration, "Redeemed 1 Yieldly for 0.9 USDC")
}

func TestNarrateUnknownProtocol(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	group := []models.RawTransaction{
		appCallTx("GAPPL", 999999999),
		assetTransferTx("GAXFER", observerAddress, "SOMEWHERE", 31566704, 100),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Contains(t, narration, "Group of 2 transactions against an unknown protocol")
}

func TestNarrateIgnoresOptIns(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	// An opt-in inside the group is registration noise, not a transfer leg.
	group := []models.RawTransaction{
		appCallTx("GAPPL", yieldlyStakingApp),
		assetTransferTx("GOPTIN", observerAddress, observerAddress, 226701642, 0),
		assetTransferTx("GAXFER", observerAddress, yieldlyEscrow, 226701642, 3_000_000),
	}
	narration, err := narrator.Narrate(context.Background(), group, observerAddress)
	require.NoError(t, err)
	require.Contains(t, narration, "Staked 3 Yieldly into Yieldly Staking Contract")
}

func TestNarrateEmptyGroup(t *testing.T) {
	narrator, _ := newTestNarrator(t)

	_, err := narrator.Narrate(context.Background(), nil, observerAddress)
	require.Error(t, err)
}
