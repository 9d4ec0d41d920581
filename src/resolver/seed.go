package resolver

import "github.com/username/algotax/backend/src/models"

// Built-in entities that never need a lookup. Algorand (asset 0) must be
// present before any payment can be displayed; -1 marks "no asset".
var seedAssets = []models.Asset{
	{ID: models.AssetIDNone, Name: "N/A", Decimals: 0},
	{ID: models.AssetIDAlgo, Name: "Algorand", Decimals: 6},
	{ID: 31566704, Name: "USDC", Decimals: 6},
	{ID: 226701642, Name: "Yieldly", Decimals: 6},
	{ID: 287867876, Name: "Opulous", Decimals: 10},
	{ID: 297995609, Name: "Choice Coin", Decimals: 2},
	{ID: 444108880, Name: "CryptoTrees", Decimals: 0},
	{ID: 384303832, Name: "Akita Inu", Decimals: 0},
}

var seedApplications = []models.Application{
	{ID: 233725850, Name: "Yieldly Staking Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 233725844, Name: "Yieldly NLL Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 233725843, Name: "Yieldly Opting Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 233725848, Name: "Yieldly Proxy Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 348079765, Name: "YLDY x OPUL Staking Pools Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 447336112, Name: "YLDY x CHOICE Staking Pools Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 511597182, Name: "YLDY x AKITA Staking Pools Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 593289960, Name: "YLDY x TREES Staking Pools Contract", Intent: models.IntentStakingPool, Tag: "Yieldly"},
	{ID: 552635992, Name: "Tinyman AMM Validator", Intent: models.IntentDefiSwap, Tag: "Tinyman"},
}

var seedAccounts = []models.Account{
	{
		Address: "FMBXOFAQCSAD4UWU4Q7IX5AV4FRV6AKURJQYGXLW3CTPTQ7XBX6MALMSPY",
		Name:    "Yieldly Escrow Account",
		Intent:  models.IntentEscrow,
	},
}
