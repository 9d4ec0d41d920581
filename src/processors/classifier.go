package processors

import (
	"context"
	"fmt"

	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/resolver"
)

// classifierImpl implements the TransactionClassifier interface. It decides
// what kind of economic event a transaction represents for the observed
// account, resolving referenced entities through the resolver.
type classifierImpl struct {
	resolver   *resolver.Resolver
	blockTimes BlockTimeSource
	observer   string

	// Empirical heuristics, see config. Payments below the threshold are
	// smart-contract fee top-ups, not taxable events; a note on a payment
	// marks a transfer between the observer's own accounts.
	paymentThreshold uint64
	skipNotedPayment bool
}

// NewClassifier creates a new classification engine for one observed account.
func NewClassifier(res *resolver.Resolver, blockTimes BlockTimeSource, observer string, paymentThreshold uint64, skipNotedPayment bool) TransactionClassifier {
	return &classifierImpl{
		resolver:         res,
		blockTimes:       blockTimes,
		observer:         observer,
		paymentThreshold: paymentThreshold,
		skipNotedPayment: skipNotedPayment,
	}
}

// Classify runs one transaction through the fixed-priority rules. The
// opt-in check must come first: a zero-amount self-transfer would otherwise
// slip through the threshold or note checks and look like a real transfer.
func (c *classifierImpl) Classify(ctx context.Context, tx models.RawTransaction) (Outcome, error) {
	norm, err := Normalize(tx)
	if err != nil {
		return Outcome{}, err
	}

	switch norm.Kind {
	case models.KindPayment:
		return c.classifyPayment(ctx, tx, norm.Payment)
	case models.KindAssetTransfer:
		return c.classifyAssetTransfer(ctx, tx, norm.AssetTransfer)
	case models.KindApplicationCall:
		return c.classifyAppCall(ctx, tx, norm.AppCall)
	default:
		logger.L.Warn("Unknown transaction type", "txnId", tx.ID, "txType", string(tx.TxType))
		return Outcome{State: StateUnknown, SkipReason: models.SkipUnknown}, nil
	}
}

func (c *classifierImpl) classifyPayment(ctx context.Context, tx models.RawTransaction, payment *models.PaymentPayload) (Outcome, error) {
	if isOptIn(tx.Sender, payment.Receiver, payment.Amount) {
		return c.optInOutcome(ctx, tx, models.AssetIDAlgo)
	}

	if payment.Amount < c.paymentThreshold {
		return Outcome{
			State:      StatePaymentBelowThreshold,
			SkipReason: models.SkipPayment,
			Narration:  fmt.Sprintf("Skipping %d microAlgo fee payment", payment.Amount),
		}, nil
	}

	if c.skipNotedPayment && tx.Note != "" {
		return Outcome{
			State:      StatePaymentWithNote,
			SkipReason: models.SkipNote,
			Narration:  "Skipping noted payment, internal transfer between own accounts",
		}, nil
	}

	return c.taxable(ctx, tx, models.AssetIDAlgo, payment.Receiver, payment.Amount)
}

func (c *classifierImpl) classifyAssetTransfer(ctx context.Context, tx models.RawTransaction, transfer *models.AssetTransferPayload) (Outcome, error) {
	if isOptIn(tx.Sender, transfer.Receiver, transfer.Amount) {
		return c.optInOutcome(ctx, tx, transfer.AssetID)
	}
	return c.taxable(ctx, tx, transfer.AssetID, transfer.Receiver, transfer.Amount)
}

// classifyAppCall is always terminal. Application calls never swap money
// themselves; any grouped transfer shows up as its own transaction and gets
// classified independently. The fee is resolved for narration only.
func (c *classifierImpl) classifyAppCall(ctx context.Context, tx models.RawTransaction, appCall *models.AppCallPayload) (Outcome, error) {
	app := c.resolver.ResolveApplication(ctx, appCall.ApplicationID)

	feeDisplay, err := c.resolver.DisplayAmount(ctx, models.AssetIDAlgo, tx.Fee)
	if err != nil {
		// Asset 0 is pre-seeded; this cannot happen outside of a broken resolver.
		return Outcome{}, err
	}

	return Outcome{
		State:      StateApplicationCall,
		SkipReason: models.SkipApplication,
		Narration:  fmt.Sprintf("Application call to '%s' paying a %g Algo fee", app.Name, feeDisplay),
	}, nil
}

func (c *classifierImpl) optInOutcome(ctx context.Context, tx models.RawTransaction, assetID int64) (Outcome, error) {
	asset, err := c.resolver.ResolveAsset(ctx, assetID)
	if err != nil {
		return Outcome{}, err
	}
	logger.L.Info("User opted into an ASA", "asset", asset.Name, "txnId", tx.ID)
	return Outcome{
		State:      StateOptIn,
		SkipReason: models.SkipOptIn,
		Narration:  fmt.Sprintf("Opted into the '%s' ASA", asset.Name),
	}, nil
}

// taxable resolves the asset and stamps the event with the confirming
// block's time. Direction is Buy when value flows to the observer.
func (c *classifierImpl) taxable(ctx context.Context, tx models.RawTransaction, assetID int64, receiver string, amount uint64) (Outcome, error) {
	asset, err := c.resolver.ResolveAsset(ctx, assetID)
	if err != nil {
		return Outcome{}, err
	}

	quantity, err := c.resolver.DisplayAmount(ctx, assetID, amount)
	if err != nil {
		return Outcome{}, err
	}

	blockTime, err := c.blockTimes.BlockTime(ctx, tx.ConfirmedRound)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolving block time for round %d: %w", tx.ConfirmedRound, err)
	}

	action := models.ActionSell
	narration := ""
	if receiver == c.observer {
		action = models.ActionBuy
		sender := c.resolver.ResolveAccount(tx.Sender)
		narration = fmt.Sprintf("You received %g %s from the '%s' account", quantity, asset.Name, sender.Name)
	} else {
		counterparty := c.resolver.ResolveAccount(receiver)
		narration = fmt.Sprintf("You transferred %g %s to the '%s' account", quantity, asset.Name, counterparty.Name)
	}

	event := &models.TaxableEvent{
		ID:           tx.ID,
		Timestamp:    blockTime,
		TimestampMs:  blockTime.UnixMilli(),
		CurrencyName: asset.Name,
		Quantity:     quantity,
		Action:       action,
		Note:         tx.Note,
		GroupID:      tx.Group,
	}

	return Outcome{State: StateTaxable, Event: event, Narration: narration}, nil
}

// isOptIn reports whether this is a zero-value self-directed transfer, the
// registration that lets an account hold an asset. Not an economic event.
func isOptIn(sender, receiver string, amount uint64) bool {
	return sender == receiver && amount == 0
}
