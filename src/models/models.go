package models

import "time"

// Reserved asset ids. Algorand itself is asset 0 and is always pre-seeded;
// -1 marks transaction types that carry no asset at all.
const (
	AssetIDAlgo int64 = 0
	AssetIDNone int64 = -1
)

// Asset is an ASA (or Algorand itself) with the decimal scaling needed to
// turn raw base units into a display quantity.
type Asset struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
}

// AccountIntent describes what we know a counter-party address is for.
type AccountIntent string

const (
	IntentUnknown       AccountIntent = "Unknown"
	IntentStakingPool   AccountIntent = "StakingPool"
	IntentLiquidityPool AccountIntent = "LiquidityPool"
	IntentDefiSwap      AccountIntent = "DefiSwap"
	IntentWallet        AccountIntent = "Wallet"
	IntentEscrow        AccountIntent = "Escrow"
)

// Account is a counter-party address with a human readable name.
type Account struct {
	Address string        `json:"address"`
	Name    string        `json:"name"`
	Intent  AccountIntent `json:"intent"`
}

// Application is an on-chain application (smart contract).
type Application struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Intent AccountIntent `json:"intent"`
	Tag    string        `json:"tag,omitempty"` // protocol family, e.g. "Yieldly", "Tinyman"
}

// EventAction is the direction of a taxable transfer relative to the
// observed account.
type EventAction string

const (
	ActionBuy  EventAction = "Buy"
	ActionSell EventAction = "Sell"
)

// TaxableEvent is one bookkeeping-worthy transfer of value.
type TaxableEvent struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"-"`
	TimestampMs  int64       `json:"timestamp_ms"`
	CurrencyName string      `json:"currency_name"`
	Quantity     float64     `json:"quantity"`
	Action       EventAction `json:"action"`
	Note         string      `json:"note,omitempty"`
	GroupID      string      `json:"group_id,omitempty"`
}

// SkipReason tags a non-taxable transaction for the output sink.
type SkipReason string

const (
	SkipOptIn       SkipReason = "OptIn"
	SkipApplication SkipReason = "Application"
	SkipPayment     SkipReason = "Payment"
	SkipNote        SkipReason = "Note"
	SkipUnknown     SkipReason = "Unknown"
)
