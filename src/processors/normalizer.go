package processors

import (
	"errors"
	"fmt"

	"github.com/username/algotax/backend/src/models"
)

// ErrMalformedTransaction means a recognized transaction type arrived
// without its inner payload. Scoped to the single transaction.
var ErrMalformedTransaction = errors.New("malformed transaction payload")

// Normalize dispatches on the declared type tag and extracts the
// type-specific inner payload. Unrecognized tags are not an error; they
// normalize to KindUnknown and are routed to the unknown report bucket.
func Normalize(tx models.RawTransaction) (models.NormalizedTransaction, error) {
	switch tx.TxType {
	case models.TxTypePayment:
		if tx.Payment == nil {
			return models.NormalizedTransaction{}, fmt.Errorf("%w: payment transaction %s carries no payment payload", ErrMalformedTransaction, tx.ID)
		}
		return models.NormalizedTransaction{Kind: models.KindPayment, Payment: tx.Payment}, nil
	case models.TxTypeAssetTransfer:
		if tx.AssetTransfer == nil {
			return models.NormalizedTransaction{}, fmt.Errorf("%w: asset transfer %s carries no transfer payload", ErrMalformedTransaction, tx.ID)
		}
		return models.NormalizedTransaction{Kind: models.KindAssetTransfer, AssetTransfer: tx.AssetTransfer}, nil
	case models.TxTypeApplicationCall:
		if tx.AppCall == nil {
			return models.NormalizedTransaction{}, fmt.Errorf("%w: application call %s carries no application payload", ErrMalformedTransaction, tx.ID)
		}
		return models.NormalizedTransaction{Kind: models.KindApplicationCall, AppCall: tx.AppCall}, nil
	default:
		return models.NormalizedTransaction{Kind: models.KindUnknown}, nil
	}
}
