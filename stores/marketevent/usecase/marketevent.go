package usecase

import (
	"errors"

	bCtx "github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/metrics"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/auction"
	"github.com/domaindao/goapi/domain/listing"
	"github.com/domaindao/goapi/domain/marketevent"
	"github.com/domaindao/goapi/domain/offchain"
	"github.com/domaindao/goapi/domain/offer"
)

type MarketEventUseCaseCfg struct {
	ListingUC  listing.UseCase
	AuctionUC  auction.UseCase
	OfferUC    offer.UseCase
	OffchainUC offchain.UseCase
	Metrics    metrics.Service
}

type impl struct {
	listingUC  listing.UseCase
	auctionUC  auction.UseCase
	offerUC    offer.UseCase
	offchainUC offchain.UseCase
	met        metrics.Service
}

func New(cfg *MarketEventUseCaseCfg) marketevent.UseCase {
	return &impl{
		listingUC:  cfg.ListingUC,
		auctionUC:  cfg.AuctionUC,
		offerUC:    cfg.OfferUC,
		offchainUC: cfg.OffchainUC,
		met:        cfg.Metrics,
	}
}

func (im *impl) Run(ctx bCtx.Ctx, events <-chan marketevent.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := im.HandleEvent(ctx, ev); err != nil {
				ctx.WithFields(log.Fields{
					"err": err,
				}).Error("im.HandleEvent failed")
				im.met.BumpSum("marketevent.handle.err", 1)
			}
		}
	}
}

func (im *impl) HandleEvent(ctx bCtx.Ctx, ev marketevent.Event) error {
	switch {
	case ev.ItemSold != nil:
		return im.handleItemSold(ctx, ev.ItemSold)
	case ev.ListingCanceled != nil:
		return im.handleListingCanceled(ctx, ev.ListingCanceled)
	case ev.AuctionResulted != nil:
		return im.handleAuctionResulted(ctx, ev.AuctionResulted)
	case ev.AuctionCanceled != nil:
		return im.handleAuctionCanceled(ctx, ev.AuctionCanceled)
	case ev.OfferAccepted != nil:
		return im.handleOfferAccepted(ctx, ev.OfferAccepted)
	case ev.ConfirmationInvalidated != nil:
		return im.handleConfirmationInvalidated(ctx, ev.ConfirmationInvalidated)
	default:
		im.met.BumpSum("marketevent.empty", 1)
		return nil
	}
}

func (im *impl) handleItemSold(ctx bCtx.Ctx, ev *marketevent.ItemSoldEvent) error {
	_, err := im.listingUC.RecordSale(ctx, ev.ListingId, ev.Buyer, ev.Meta.TxHash, ev.Meta.BlockNumber)
	return im.absorb(ctx, "itemSold", ev.Meta.TxHash, err)
}

func (im *impl) handleListingCanceled(ctx bCtx.Ctx, ev *marketevent.ListingCanceledEvent) error {
	_, err := im.listingUC.CancelListing(ctx, ev.ListingId, ev.Meta.MsgSender)
	return im.absorb(ctx, "listingCanceled", ev.Meta.TxHash, err)
}

func (im *impl) handleAuctionResulted(ctx bCtx.Ctx, ev *marketevent.AuctionResultedEvent) error {
	// the chain has already resulted the auction; never second-guess it
	// with the local clock
	_, err := im.auctionUC.ResultAuction(ctx, ev.AuctionId, ev.Meta.MsgSender)
	if err := im.absorb(ctx, "auctionResulted", ev.Meta.TxHash, err); err != nil {
		return err
	}

	_, err = im.auctionUC.RecordSettlement(ctx, ev.AuctionId, ev.Meta.TxHash, ev.Meta.BlockNumber)
	return im.absorb(ctx, "auctionResulted", ev.Meta.TxHash, err)
}

func (im *impl) handleAuctionCanceled(ctx bCtx.Ctx, ev *marketevent.AuctionCanceledEvent) error {
	_, err := im.auctionUC.CancelAuction(ctx, ev.AuctionId, ev.Meta.MsgSender)
	return im.absorb(ctx, "auctionCanceled", ev.Meta.TxHash, err)
}

func (im *impl) handleOfferAccepted(ctx bCtx.Ctx, ev *marketevent.OfferAcceptedEvent) error {
	_, err := im.offerUC.AcceptOffer(ctx, ev.OfferId, ev.Meta.MsgSender)
	if err := im.absorb(ctx, "offerAccepted", ev.Meta.TxHash, err); err != nil {
		return err
	}

	_, err = im.offerUC.RecordSettlement(ctx, ev.OfferId, ev.Meta.TxHash, ev.Meta.BlockNumber)
	return im.absorb(ctx, "offerAccepted", ev.Meta.TxHash, err)
}

// handleConfirmationInvalidated fans the rollback out to every manager; the
// hash only ever confirms one entity, so the misses report not found.
func (im *impl) handleConfirmationInvalidated(ctx bCtx.Ctx, ev *marketevent.ConfirmationInvalidatedEvent) error {
	found := false
	for name, invalidate := range map[string]func(bCtx.Ctx, domain.TxHash) error{
		"listing":  im.listingUC.InvalidateSale,
		"auction":  im.auctionUC.InvalidateSettlement,
		"offer":    im.offerUC.InvalidateSettlement,
		"offchain": im.offchainUC.InvalidateConfirmation,
	} {
		err := invalidate(ctx, ev.TxHash)
		if err == nil {
			found = true
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			ctx.WithFields(log.Fields{
				"err":    err,
				"entity": name,
				"txHash": ev.TxHash,
			}).Error("invalidate failed")
			return err
		}
	}

	if !found {
		ctx.WithFields(log.Fields{
			"txHash": ev.TxHash,
		}).Warn("reorged hash matches no confirmed entity")
		im.met.BumpSum("marketevent.invalidate.unknown", 1)
	}
	return nil
}

// absorb swallows deterministic rejections; redelivering the event cannot
// change their outcome. Infrastructure errors propagate so the feed can
// retry.
func (im *impl) absorb(ctx bCtx.Ctx, event string, txHash domain.TxHash, err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrHashMismatch,
		domain.ErrNotOwner,
		domain.ErrAlreadyInactive,
		domain.ErrListingInactive,
		domain.ErrListingExpired,
		domain.ErrSaleInFlight,
		domain.ErrAuctionInactive,
		domain.ErrAuctionStillActive,
		domain.ErrAuctionHasBids,
		domain.ErrAlreadyEnded,
		domain.ErrAuctionNotEnded,
		domain.ErrOfferExpired,
		domain.ErrOfferTerminal,
		domain.ErrOfferNotAccepted,
	} {
		if errors.Is(err, known) {
			ctx.WithFields(log.Fields{
				"err":    err,
				"event":  event,
				"txHash": txHash,
			}).Warn("event rejected by manager, absorbed")
			im.met.BumpSum("marketevent.absorbed", 1, "event", event)
			return nil
		}
	}

	return err
}
