package processors

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/resolver"
	"github.com/username/algotax/backend/src/utils"
)

// transferSummary is one side of a grouped exchange.
type transferSummary struct {
	assetName string
	amount    float64
}

// narratorImpl implements GroupNarrator for the protocols we know how to
// read. Yieldly groups are single-sided stakes or claims; Tinyman groups
// with transfers in both directions are swaps, with the action spelled out
// in the first application arg.
type narratorImpl struct {
	resolver   *resolver.Resolver
	blockTimes BlockTimeSource
}

// NewNarrator creates a new group narrator.
func NewNarrator(res *resolver.Resolver, blockTimes BlockTimeSource) GroupNarrator {
	return &narratorImpl{resolver: res, blockTimes: blockTimes}
}

func (n *narratorImpl) Narrate(ctx context.Context, group []models.RawTransaction, observer string) (string, error) {
	if len(group) == 0 {
		return "", fmt.Errorf("cannot narrate an empty group")
	}

	var appTag, appName, action string
	var incoming, outgoing *transferSummary

	for _, tx := range group {
		switch tx.TxType {
		case models.TxTypeApplicationCall:
			if tx.AppCall == nil {
				continue
			}
			app := n.resolver.ResolveApplication(ctx, tx.AppCall.ApplicationID)
			if app.Tag != "" {
				appTag = app.Tag
				appName = app.Name
			}
			if app.Tag == "Tinyman" && len(tx.AppCall.ApplicationArgs) > 0 {
				if decoded, err := base64.StdEncoding.DecodeString(tx.AppCall.ApplicationArgs[0]); err == nil {
					action = string(decoded)
				}
			}
		case models.TxTypePayment:
			if tx.Payment == nil || isOptIn(tx.Sender, tx.Payment.Receiver, tx.Payment.Amount) {
				continue
			}
			summary, toObserver, err := n.summarize(ctx, models.AssetIDAlgo, tx.Payment.Amount, tx.Sender, tx.Payment.Receiver, observer)
			if err != nil {
				return "", err
			}
			if toObserver {
				incoming = summary
			} else {
				outgoing = summary
			}
		case models.TxTypeAssetTransfer:
			if tx.AssetTransfer == nil || isOptIn(tx.Sender, tx.AssetTransfer.Receiver, tx.AssetTransfer.Amount) {
				continue
			}
			summary, toObserver, err := n.summarize(ctx, tx.AssetTransfer.AssetID, tx.AssetTransfer.Amount, tx.Sender, tx.AssetTransfer.Receiver, observer)
			if err != nil {
				return "", err
			}
			if toObserver {
				incoming = summary
			} else {
				outgoing = summary
			}
		}
	}

	var message string
	switch appTag {
	case "Yieldly":
		// You can't swap in a Yieldly pool, only stake or claim, so a group
		// holds at most one direction.
		switch {
		case incoming != nil && outgoing != nil:
			message = fmt.Sprintf("Unexpected two-sided Yieldly group: sent %g %s, got %g %s", outgoing.amount, outgoing.assetName, incoming.amount, incoming.assetName)
		case incoming != nil:
			message = fmt.Sprintf("Claimed %g %s from %s", incoming.amount, incoming.assetName, appName)
		case outgoing != nil:
			message = fmt.Sprintf("Staked %g %s into %s", outgoing.amount, outgoing.assetName, appName)
		default:
			message = fmt.Sprintf("Called %s without moving funds", appName)
		}
	case "Tinyman":
		switch {
		case incoming != nil && outgoing != nil:
			message = fmt.Sprintf("Swapped %g %s for %g %s", outgoing.amount, outgoing.assetName, incoming.amount, incoming.assetName)
			if action == "redeem" {
				message = fmt.Sprintf("Redeemed %g %s for %g %s", outgoing.amount, outgoing.assetName, incoming.amount, incoming.assetName)
			}
		case incoming != nil:
			message = fmt.Sprintf("Claimed %g %s from %s", incoming.amount, incoming.assetName, appName)
		default:
			message = fmt.Sprintf("Unexpected one-sided Tinyman group (action %q)", action)
		}
	default:
		message = fmt.Sprintf("Group of %d transactions against an unknown protocol", len(group))
	}

	blockTime, err := n.blockTimes.BlockTime(ctx, group[0].ConfirmedRound)
	if err != nil {
		return "", fmt.Errorf("resolving block time for group narration: %w", err)
	}

	return fmt.Sprintf("[%s] - %s", utils.FormatTimestamp(blockTime), message), nil
}

func (n *narratorImpl) summarize(ctx context.Context, assetID int64, amount uint64, sender, receiver, observer string) (*transferSummary, bool, error) {
	asset, err := n.resolver.ResolveAsset(ctx, assetID)
	if err != nil {
		return nil, false, err
	}
	display, err := n.resolver.DisplayAmount(ctx, assetID, amount)
	if err != nil {
		return nil, false, err
	}
	return &transferSummary{assetName: asset.Name, amount: display}, receiver == observer, nil
}
