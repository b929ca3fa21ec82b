package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	bCtx "github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/keymutex"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/auction"
	"github.com/domaindao/goapi/service/query"
)

var timeNow = time.Now

type AuctionUseCaseCfg struct {
	AuctionRepo auction.Repo
	BidRepo     auction.BidRepo
	Query       query.Mongo
}

type impl struct {
	auctionRepo auction.Repo
	bidRepo     auction.BidRepo
	q           query.Mongo
	locks       *keymutex.KeyMutex
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	return &impl{
		auctionRepo: cfg.AuctionRepo,
		bidRepo:     cfg.BidRepo,
		q:           cfg.Query,
		locks:       keymutex.New(256),
	}
}

func (im *impl) CreateAuction(ctx bCtx.Ctx, req auction.CreateAuctionReq) (*auction.Auction, error) {
	if !req.Seller.IsValid() || !req.TokenContract.IsValid() || !req.PaymentToken.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	startingPrice, err := domain.ParsePositiveAmount(req.StartingPrice)
	if err != nil {
		return nil, err
	}

	reservePrice, err := domain.ParseAmount(req.ReservePrice)
	if err != nil {
		return nil, err
	}
	if reservePrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	if req.Duration <= 0 {
		return nil, domain.ErrInvalidExpiration
	}

	now := timeNow()
	a := &auction.Auction{
		AuctionId:     uuid.NewString(),
		Seller:        req.Seller.ToLower(),
		TokenContract: req.TokenContract.ToLower(),
		TokenId:       req.TokenId,
		StartingPrice: startingPrice.String(),
		ReservePrice:  reservePrice.String(),
		PaymentToken:  req.PaymentToken.ToLower(),
		StartTime:     now,
		EndTime:       now.Add(req.Duration),
		IsActive:      true,
		HighestBid:    "0",
	}

	if err := im.auctionRepo.Insert(ctx, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
		}).Error("auctionRepo.Insert failed")
		return nil, err
	}

	return a, nil
}

func (im *impl) PlaceBid(ctx bCtx.Ctx, auctionId string, bidder domain.Address, amount string, txHash domain.TxHash) (*auction.Bid, error) {
	if !bidder.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	bidAmount, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return nil, err
	}

	im.locks.Lock(auctionId)
	defer im.locks.Unlock(auctionId)

	a, err := im.auctionRepo.FindOne(ctx, auction.Id{AuctionId: auctionId})
	if err != nil {
		return nil, err
	}

	if a.StatusAt(timeNow()) != auction.StatusActive {
		return nil, domain.ErrAuctionInactive
	}

	if a.BidCount == 0 {
		startingPrice, err := domain.ParseAmount(a.StartingPrice)
		if err != nil {
			return nil, err
		}
		if bidAmount.LessThan(startingPrice) {
			return nil, xerrors.Errorf("first bid must be at least the starting price %s: %w", a.StartingPrice, domain.ErrBidTooLow)
		}
	} else {
		highestBid, err := domain.ParseAmount(a.HighestBid)
		if err != nil {
			return nil, err
		}
		if !bidAmount.GreaterThan(highestBid) {
			return nil, xerrors.Errorf("bid must exceed current highest bid %s: %w", a.HighestBid, domain.ErrBidTooLow)
		}
	}

	now := timeNow()
	b := &auction.Bid{
		BidId:     uuid.NewString(),
		AuctionId: auctionId,
		Bidder:    bidder.ToLower(),
		Amount:    bidAmount.String(),
		Timestamp: now,
		IsActive:  true,
		TxHash:    txHash.ToLower(),
	}
	bidCount := a.BidCount + 1

	// the ledger insert, the supersede of the previous active bid and the
	// cached highestBid all land together or not at all
	err = im.q.RunWithTransaction(ctx, func(sessCtx bCtx.Ctx) error {
		actives, err := im.bidRepo.FindAll(sessCtx,
			auction.BidWithAuctionId(auctionId),
			auction.BidWithIsActive(true),
		)
		if err != nil {
			return err
		}
		for _, prev := range actives {
			if err := im.bidRepo.Update(sessCtx, prev.ToId(), auction.BidPatchable{
				IsActive: ptr.Bool(false),
			}); err != nil {
				return err
			}
		}

		if err := im.bidRepo.Insert(sessCtx, b); err != nil {
			return err
		}

		return im.auctionRepo.Update(sessCtx, a.ToId(), auction.Patchable{
			HighestBidder: bidder.ToLowerPtr(),
			HighestBid:    ptr.String(bidAmount.String()),
			BidCount:      ptr.Int(bidCount),
		})
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
			"bidId":     b.BidId,
		}).Error("q.RunWithTransaction failed")
		return nil, err
	}

	return b, nil
}

func (im *impl) EndAuction(ctx bCtx.Ctx, auctionId string, finalizer domain.Address) (*auction.Auction, error) {
	return im.endAuction(ctx, auctionId, finalizer, true)
}

// ResultAuction applies a chain-confirmed auction end. The chain already
// decided the auction is over, so the local deadline is not consulted; a
// confirmation landing before the local clock reaches endTime still ends
// the auction.
func (im *impl) ResultAuction(ctx bCtx.Ctx, auctionId string, finalizer domain.Address) (*auction.Auction, error) {
	return im.endAuction(ctx, auctionId, finalizer, false)
}

func (im *impl) endAuction(ctx bCtx.Ctx, auctionId string, finalizer domain.Address, enforceDeadline bool) (*auction.Auction, error) {
	im.locks.Lock(auctionId)
	defer im.locks.Unlock(auctionId)

	a, err := im.auctionRepo.FindOne(ctx, auction.Id{AuctionId: auctionId})
	if err != nil {
		return nil, err
	}

	if a.Cancelled {
		return nil, domain.ErrAuctionInactive
	}
	if a.HasEnded() {
		return nil, domain.ErrAlreadyEnded
	}

	now := timeNow()
	if enforceDeadline && !a.PastDeadline(now) {
		return nil, domain.ErrAuctionStillActive
	}

	withSale := false
	if a.BidCount > 0 {
		highestBid, err := domain.ParseAmount(a.HighestBid)
		if err != nil {
			return nil, err
		}
		reservePrice, err := domain.ParseAmount(a.ReservePrice)
		if err != nil {
			return nil, err
		}
		withSale = highestBid.GreaterThanOrEqual(reservePrice)
	}

	patch := auction.Patchable{
		IsActive:      ptr.Bool(false),
		EndedWithSale: ptr.Bool(withSale),
		SelectedAt:    &now,
	}
	if err := im.auctionRepo.Update(ctx, a.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
		}).Error("auctionRepo.Update failed")
		return nil, err
	}

	ctx.WithFields(log.Fields{
		"auctionId": auctionId,
		"finalizer": finalizer.ToLower(),
		"withSale":  withSale,
	}).Info("auction ended")

	a.IsActive = false
	a.EndedWithSale = ptr.Bool(withSale)
	a.SelectedAt = &now
	return a, nil
}

func (im *impl) CancelAuction(ctx bCtx.Ctx, auctionId string, requester domain.Address) (*auction.Auction, error) {
	im.locks.Lock(auctionId)
	defer im.locks.Unlock(auctionId)

	a, err := im.auctionRepo.FindOne(ctx, auction.Id{AuctionId: auctionId})
	if err != nil {
		return nil, err
	}

	if !requester.Equals(a.Seller) {
		return nil, domain.ErrNotOwner
	}

	switch a.StatusAt(timeNow()) {
	case auction.StatusActive:
	case auction.StatusCancelled:
		return nil, domain.ErrAlreadyInactive
	default:
		return nil, domain.ErrAlreadyEnded
	}

	if a.BidCount > 0 {
		return nil, domain.ErrAuctionHasBids
	}

	patch := auction.Patchable{
		IsActive:  ptr.Bool(false),
		Cancelled: ptr.Bool(true),
	}
	if err := im.auctionRepo.Update(ctx, a.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
		}).Error("auctionRepo.Update failed")
		return nil, err
	}

	a.IsActive = false
	a.Cancelled = true
	return a, nil
}

func (im *impl) RecordSettlement(ctx bCtx.Ctx, auctionId string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*auction.Auction, error) {
	im.locks.Lock(auctionId)
	defer im.locks.Unlock(auctionId)

	a, err := im.auctionRepo.FindOne(ctx, auction.Id{AuctionId: auctionId})
	if err != nil {
		return nil, err
	}

	if !a.TxHash.IsEmpty() {
		if a.TxHash == txHash.ToLower() {
			// duplicate confirmation, repeatable by design
			return a, nil
		}
		ctx.WithFields(log.Fields{
			"auctionId": auctionId,
			"recorded":  a.TxHash,
			"txHash":    txHash,
			"security":  true,
		}).Warn("conflicting settlement confirmation")
		return nil, xerrors.Errorf("settlement already recorded with %s: %w", a.TxHash, domain.ErrHashMismatch)
	}

	if !a.HasEnded() {
		return nil, domain.ErrAuctionNotEnded
	}

	hash := txHash.ToLower()
	patch := auction.Patchable{
		TxHash:      &hash,
		BlockNumber: &blockNumber,
	}
	if err := im.auctionRepo.Update(ctx, a.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
		}).Error("auctionRepo.Update failed")
		return nil, err
	}

	a.TxHash = hash
	a.BlockNumber = blockNumber
	return a, nil
}

func (im *impl) InvalidateSettlement(ctx bCtx.Ctx, txHash domain.TxHash) error {
	as, err := im.auctionRepo.FindAll(ctx, auction.WithTxHash(txHash))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": txHash,
		}).Error("auctionRepo.FindAll failed")
		return err
	}
	if len(as) == 0 {
		return domain.ErrNotFound
	}

	for _, a := range as {
		im.locks.Lock(a.AuctionId)
		err := im.auctionRepo.ClearSettlement(ctx, a.ToId())
		im.locks.Unlock(a.AuctionId)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"auctionId": a.AuctionId,
			}).Error("auctionRepo.ClearSettlement failed")
			return err
		}
		ctx.WithFields(log.Fields{
			"auctionId": a.AuctionId,
			"txHash":    txHash,
		}).Info("settlement confirmation rolled back")
	}

	return nil
}

func (im *impl) Get(ctx bCtx.Ctx, auctionId string) (*auction.Auction, error) {
	return im.auctionRepo.FindOne(ctx, auction.Id{AuctionId: auctionId})
}

func (im *impl) GetBids(ctx bCtx.Ctx, auctionId string) ([]*auction.Bid, error) {
	res, err := im.bidRepo.FindAll(ctx, auction.BidWithAuctionId(auctionId))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
		}).Error("bidRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAll(ctx bCtx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	res, err := im.auctionRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("auctionRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}
