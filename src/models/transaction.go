package models

// TxType is the transaction type tag as reported by the indexer.
type TxType string

const (
	TxTypePayment         TxType = "pay"
	TxTypeAssetTransfer   TxType = "axfer"
	TxTypeApplicationCall TxType = "appl"
)

// RawTransaction is a single transaction envelope as returned by the
// indexer's /v2/transactions endpoint. Exactly one of the inner payloads
// is populated, matching the TxType tag.
type RawTransaction struct {
	ID             string `json:"id"`
	TxType         TxType `json:"tx-type"`
	Sender         string `json:"sender"`
	Fee            uint64 `json:"fee"`
	ConfirmedRound uint64 `json:"confirmed-round"`
	Group          string `json:"group,omitempty"`
	Note           string `json:"note,omitempty"` // base64, presence is what matters

	Payment       *PaymentPayload       `json:"payment-transaction,omitempty"`
	AssetTransfer *AssetTransferPayload `json:"asset-transfer-transaction,omitempty"`
	AppCall       *AppCallPayload       `json:"application-transaction,omitempty"`
}

// PaymentPayload moves micro-Algos. The asset is implicitly Algorand (id 0).
type PaymentPayload struct {
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
}

// AssetTransferPayload moves an ASA and names its own asset id.
type AssetTransferPayload struct {
	AssetID  int64  `json:"asset-id"`
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
}

// AppCallPayload is a smart-contract call. It carries no amount or asset;
// only the fee on the envelope matters for bookkeeping. The first
// application arg encodes the action for some known protocols.
type AppCallPayload struct {
	ApplicationID   int64    `json:"application-id"`
	ApplicationArgs []string `json:"application-args,omitempty"` // base64
}

// TxKind is the normalized transaction kind after dispatching on TxType.
type TxKind int

const (
	KindUnknown TxKind = iota
	KindPayment
	KindAssetTransfer
	KindApplicationCall
)

func (k TxKind) String() string {
	switch k {
	case KindPayment:
		return "PaymentTransaction"
	case KindAssetTransfer:
		return "AssetTransfer"
	case KindApplicationCall:
		return "ApplicationCall"
	}
	return "Unknown"
}

// NormalizedTransaction is the discriminated form of a RawTransaction.
// Only the payload matching Kind is set; unknown kinds carry none.
type NormalizedTransaction struct {
	Kind          TxKind
	Payment       *PaymentPayload
	AssetTransfer *AssetTransferPayload
	AppCall       *AppCallPayload
}

// LoggedTransaction is a row of the raw transaction append log, one per
// fetched transaction regardless of how it was classified.
type LoggedTransaction struct {
	DBID          int64  `json:"db_id,omitempty"`
	TxnID         string `json:"txn_id"`
	GroupID       string `json:"group_id,omitempty"`
	Type          string `json:"type"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver,omitempty"`
	AssetID       int64  `json:"asset_id"`
	Amount        uint64 `json:"amount"`
	Fee           uint64 `json:"fee"`
	Round         uint64 `json:"round"`
	Note          string `json:"note,omitempty"`
	ApplicationID int64  `json:"application_id,omitempty"`
	TimestampMs   int64  `json:"timestamp_ms"`
	RunID         string `json:"run_id"`
}
