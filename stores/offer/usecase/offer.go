package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/keymutex"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/offer"
)

var timeNow = time.Now

type OfferUseCaseCfg struct {
	OfferRepo offer.Repo
}

type impl struct {
	offerRepo offer.Repo
	locks     *keymutex.KeyMutex
}

func New(cfg *OfferUseCaseCfg) offer.UseCase {
	return &impl{
		offerRepo: cfg.OfferRepo,
		locks:     keymutex.New(256),
	}
}

func (im *impl) MakeOffer(ctx ctx.Ctx, req offer.MakeOfferReq) (*offer.Offer, error) {
	if !req.DomainOwner.IsValid() || !req.OfferMaker.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	price, err := domain.ParsePositiveAmount(req.Price)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	if !req.OfferUntil.After(now) {
		return nil, domain.ErrInvalidExpiration
	}

	o := &offer.Offer{
		OfferId:     uuid.NewString(),
		DomainOwner: req.DomainOwner.ToLower(),
		OfferMaker:  req.OfferMaker.ToLower(),
		TokenId:     req.TokenId,
		Price:       price.String(),
		OfferedAt:   now,
		OfferUntil:  req.OfferUntil,
	}

	if err := im.offerRepo.Insert(ctx, o); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": o.OfferId,
		}).Error("offerRepo.Insert failed")
		return nil, err
	}

	return o, nil
}

func (im *impl) AcceptOffer(ctx ctx.Ctx, offerId string, acceptor domain.Address) (*offer.Offer, error) {
	im.locks.Lock(offerId)
	defer im.locks.Unlock(offerId)

	o, err := im.offerRepo.FindOne(ctx, offer.Id{OfferId: offerId})
	if err != nil {
		return nil, err
	}

	if !acceptor.Equals(o.DomainOwner) {
		return nil, domain.ErrNotOwner
	}

	switch o.StatusAt(timeNow()) {
	case offer.StatusOpen:
	case offer.StatusExpired:
		return nil, domain.ErrOfferExpired
	default:
		return nil, domain.ErrOfferTerminal
	}

	now := timeNow()
	if err := im.offerRepo.Update(ctx, o.ToId(), offer.Patchable{
		SelectedAt: &now,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": offerId,
		}).Error("offerRepo.Update failed")
		return nil, err
	}

	o.SelectedAt = &now
	return o, nil
}

func (im *impl) RejectOffers(ctx ctx.Ctx, offerIds []string, reason string) ([]offer.RejectResult, error) {
	now := timeNow()
	results := make([]offer.RejectResult, 0, len(offerIds))

	for _, offerId := range offerIds {
		im.locks.Lock(offerId)
		res := im.rejectOne(ctx, offerId, reason, now)
		im.locks.Unlock(offerId)
		results = append(results, res)
	}

	return results, nil
}

func (im *impl) rejectOne(ctx ctx.Ctx, offerId, reason string, now time.Time) offer.RejectResult {
	o, err := im.offerRepo.FindOne(ctx, offer.Id{OfferId: offerId})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": offerId,
		}).Warn("offerRepo.FindOne failed")
		return offer.RejectResult{OfferId: offerId, Skipped: "not found"}
	}

	// terminal offers are skipped, not errored
	if o.IsAccepted() || o.Cancelled {
		return offer.RejectResult{OfferId: offerId, Skipped: string(o.StatusAt(now))}
	}

	if err := im.offerRepo.Update(ctx, o.ToId(), offer.Patchable{
		Cancelled:    ptr.Bool(true),
		CancelReason: &reason,
		CancelledAt:  &now,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": offerId,
		}).Error("offerRepo.Update failed")
		return offer.RejectResult{OfferId: offerId, Skipped: "update failed"}
	}

	return offer.RejectResult{OfferId: offerId, Rejected: true}
}

func (im *impl) RecordSettlement(ctx ctx.Ctx, offerId string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*offer.Offer, error) {
	im.locks.Lock(offerId)
	defer im.locks.Unlock(offerId)

	o, err := im.offerRepo.FindOne(ctx, offer.Id{OfferId: offerId})
	if err != nil {
		return nil, err
	}

	if !o.TxHash.IsEmpty() {
		if o.TxHash == txHash.ToLower() {
			// duplicate confirmation, repeatable by design
			return o, nil
		}
		ctx.WithFields(log.Fields{
			"offerId":  offerId,
			"recorded": o.TxHash,
			"txHash":   txHash,
			"security": true,
		}).Warn("conflicting settlement confirmation")
		return nil, xerrors.Errorf("settlement already recorded with %s: %w", o.TxHash, domain.ErrHashMismatch)
	}

	if !o.IsAccepted() {
		return nil, domain.ErrOfferNotAccepted
	}

	hash := txHash.ToLower()
	if err := im.offerRepo.Update(ctx, o.ToId(), offer.Patchable{
		TxHash:      &hash,
		BlockNumber: &blockNumber,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": offerId,
		}).Error("offerRepo.Update failed")
		return nil, err
	}

	o.TxHash = hash
	o.BlockNumber = blockNumber
	return o, nil
}

func (im *impl) InvalidateSettlement(ctx ctx.Ctx, txHash domain.TxHash) error {
	os, err := im.offerRepo.FindAll(ctx, offer.WithTxHash(txHash))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": txHash,
		}).Error("offerRepo.FindAll failed")
		return err
	}
	if len(os) == 0 {
		return domain.ErrNotFound
	}

	for _, o := range os {
		im.locks.Lock(o.OfferId)
		err := im.offerRepo.ClearSettlement(ctx, o.ToId())
		im.locks.Unlock(o.OfferId)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":     err,
				"offerId": o.OfferId,
			}).Error("offerRepo.ClearSettlement failed")
			return err
		}
		ctx.WithFields(log.Fields{
			"offerId": o.OfferId,
			"txHash":  txHash,
		}).Info("settlement confirmation rolled back")
	}

	return nil
}

func (im *impl) Get(ctx ctx.Ctx, offerId string) (*offer.Offer, error) {
	return im.offerRepo.FindOne(ctx, offer.Id{OfferId: offerId})
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	res, err := im.offerRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("offerRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}
