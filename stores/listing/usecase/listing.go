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
	"github.com/domaindao/goapi/domain/listing"
)

var timeNow = time.Now

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
}

type impl struct {
	listingRepo listing.Repo
	locks       *keymutex.KeyMutex
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		locks:       keymutex.New(256),
	}
}

func (im *impl) CreateListing(ctx ctx.Ctx, req listing.CreateListingReq) (*listing.Listing, error) {
	if !req.Seller.IsValid() || !req.TokenContract.IsValid() || !req.PaymentToken.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	price, err := domain.ParsePositiveAmount(req.Price)
	if err != nil {
		return nil, err
	}

	if req.Duration <= 0 {
		return nil, domain.ErrInvalidExpiration
	}

	// serialize by token so two concurrent creates cannot both pass the
	// duplicate check
	tokenKey := string(req.TokenContract.ToLower()) + ":" + req.TokenId.String()
	im.locks.Lock(tokenKey)
	defer im.locks.Unlock(tokenKey)

	now := timeNow()

	existing, err := im.listingRepo.FindAll(ctx,
		listing.WithToken(req.TokenContract, req.TokenId),
		listing.WithIsActive(true),
	)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("listingRepo.FindAll failed")
		return nil, err
	}
	for _, l := range existing {
		if !l.IsExpired(now) {
			return nil, domain.ErrDuplicateListing
		}
	}

	l := &listing.Listing{
		ListingId:     uuid.NewString(),
		Seller:        req.Seller.ToLower(),
		TokenContract: req.TokenContract.ToLower(),
		TokenId:       req.TokenId,
		Price:         price.String(),
		PaymentToken:  req.PaymentToken.ToLower(),
		IsActive:      true,
		CreatedAt:     now,
		ExpiresAt:     now.Add(req.Duration),
	}

	if err := im.listingRepo.Insert(ctx, l); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": l.ListingId,
		}).Error("listingRepo.Insert failed")
		return nil, err
	}

	return l, nil
}

func (im *impl) CancelListing(ctx ctx.Ctx, listingId string, requester domain.Address) (*listing.Listing, error) {
	im.locks.Lock(listingId)
	defer im.locks.Unlock(listingId)

	l, err := im.listingRepo.FindOne(ctx, listing.Id{ListingId: listingId})
	if err != nil {
		return nil, err
	}

	if !requester.Equals(l.Seller) {
		return nil, domain.ErrNotOwner
	}

	switch l.StatusAt(timeNow()) {
	case listing.StatusActive:
	case listing.StatusPendingSale:
		return nil, domain.ErrSaleInFlight
	default:
		return nil, domain.ErrAlreadyInactive
	}

	patch := listing.Patchable{
		IsActive:  ptr.Bool(false),
		Cancelled: ptr.Bool(true),
	}
	if err := im.listingRepo.Update(ctx, l.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.Update failed")
		return nil, err
	}

	l.IsActive = false
	l.Cancelled = true
	return l, nil
}

func (im *impl) Buy(ctx ctx.Ctx, listingId string, buyer domain.Address) (*listing.Listing, error) {
	if !buyer.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	im.locks.Lock(listingId)
	defer im.locks.Unlock(listingId)

	l, err := im.listingRepo.FindOne(ctx, listing.Id{ListingId: listingId})
	if err != nil {
		return nil, err
	}

	switch l.StatusAt(timeNow()) {
	case listing.StatusActive:
	case listing.StatusPendingSale:
		return nil, domain.ErrSaleInFlight
	case listing.StatusExpired:
		return nil, domain.ErrListingExpired
	default:
		return nil, domain.ErrListingInactive
	}

	now := timeNow()
	patch := listing.Patchable{
		PendingBuyer: buyer.ToLowerPtr(),
		PendingAt:    &now,
	}
	if err := im.listingRepo.Update(ctx, l.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.Update failed")
		return nil, err
	}

	l.PendingBuyer = buyer.ToLowerPtr()
	l.PendingAt = &now
	return l, nil
}

func (im *impl) RecordSale(ctx ctx.Ctx, listingId string, buyer domain.Address, txHash domain.TxHash, blockNumber domain.BlockNumber) (*listing.Listing, error) {
	im.locks.Lock(listingId)
	defer im.locks.Unlock(listingId)

	l, err := im.listingRepo.FindOne(ctx, listing.Id{ListingId: listingId})
	if err != nil {
		return nil, err
	}

	if l.IsSold() {
		if l.TxHash == txHash.ToLower() {
			// duplicate confirmation, repeatable by design
			return l, nil
		}
		ctx.WithFields(log.Fields{
			"listingId": listingId,
			"recorded":  l.TxHash,
			"txHash":    txHash,
			"security":  true,
		}).Warn("conflicting sale confirmation")
		return nil, xerrors.Errorf("sale already recorded with %s: %w", l.TxHash, domain.ErrHashMismatch)
	}

	if !l.IsActive || l.Cancelled {
		return nil, domain.ErrListingInactive
	}

	now := timeNow()
	hash := txHash.ToLower()
	patch := listing.Patchable{
		IsActive:    ptr.Bool(false),
		Buyer:       buyer.ToLowerPtr(),
		SelectedAt:  &now,
		TxHash:      &hash,
		BlockNumber: &blockNumber,
	}
	if err := im.listingRepo.RecordSale(ctx, l.ToId(), patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.RecordSale failed")
		return nil, err
	}

	l.IsActive = false
	l.Buyer = buyer.ToLowerPtr()
	l.SelectedAt = &now
	l.TxHash = hash
	l.BlockNumber = blockNumber
	l.PendingBuyer = nil
	l.PendingAt = nil
	return l, nil
}

func (im *impl) InvalidateSale(ctx ctx.Ctx, txHash domain.TxHash) error {
	ls, err := im.listingRepo.FindAll(ctx, listing.WithTxHash(txHash))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": txHash,
		}).Error("listingRepo.FindAll failed")
		return err
	}
	if len(ls) == 0 {
		return domain.ErrNotFound
	}

	for _, l := range ls {
		im.locks.Lock(l.ListingId)
		err := im.listingRepo.ClearSale(ctx, l.ToId())
		im.locks.Unlock(l.ListingId)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"listingId": l.ListingId,
			}).Error("listingRepo.ClearSale failed")
			return err
		}
		ctx.WithFields(log.Fields{
			"listingId": l.ListingId,
			"txHash":    txHash,
		}).Info("sale confirmation rolled back")
	}

	return nil
}

func (im *impl) Get(ctx ctx.Ctx, listingId string) (*listing.Listing, error) {
	return im.listingRepo.FindOne(ctx, listing.Id{ListingId: listingId})
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("listingRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}
