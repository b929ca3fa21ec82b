package usecase

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/ethereum"
	"github.com/domaindao/goapi/base/keymutex"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
	"github.com/domaindao/goapi/domain/offchain"
	"github.com/domaindao/goapi/domain/offer"
)

var timeNow = time.Now

type OffchainUseCaseCfg struct {
	OffchainRepo offchain.Repo
	ListingRepo  listing.Repo
	OfferRepo    offer.Repo
}

type impl struct {
	offchainRepo offchain.Repo
	listingRepo  listing.Repo
	offerRepo    offer.Repo
	locks        *keymutex.KeyMutex
}

func New(cfg *OffchainUseCaseCfg) offchain.UseCase {
	return &impl{
		offchainRepo: cfg.OffchainRepo,
		listingRepo:  cfg.ListingRepo,
		offerRepo:    cfg.OfferRepo,
		locks:        keymutex.New(256),
	}
}

// SettleMessage is the canonical text a seller signs to authorize an
// offchain sale. Addresses are lowercased and the amount is the canonical
// decimal rendering, so both sides derive the identical byte sequence.
func SettleMessage(seller, buyer domain.Address, tokenId domain.TokenId, amount string) string {
	return fmt.Sprintf("%s|%s|%s|%s", seller.ToLowerStr(), buyer.ToLowerStr(), tokenId, amount)
}

func (im *impl) VerifyAndSettle(ctx ctx.Ctx, req offchain.SettleReq) (*offchain.Transaction, error) {
	if !req.Seller.IsValid() || !req.Buyer.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	amount, err := domain.ParsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	if (req.ListingId == "") == (req.OfferId == "") {
		return nil, xerrors.Errorf("exactly one of listingId and offerId is required: %w", domain.ErrBadParamInput)
	}

	// decode rejects malformed hex before the recover path can panic on it
	sig, err := hexutil.Decode(req.Signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return nil, domain.ErrInvalidSignature
	}

	msg := SettleMessage(req.Seller, req.Buyer, req.TokenId, amount.String())
	ok, err := ethereum.ValidateMsgSignature([]byte(msg), req.Signature, req.Seller.ToLowerStr())
	if err != nil || !ok {
		ctx.WithFields(log.Fields{
			"err":      err,
			"tokenId":  req.TokenId,
			"seller":   req.Seller,
			"security": true,
		}).Warn("settlement signature rejected")
		return nil, domain.ErrInvalidSignature
	}

	if req.ListingId != "" {
		return im.settleListing(ctx, req, amount)
	}
	return im.settleOffer(ctx, req, amount)
}

func (im *impl) settleListing(ctx ctx.Ctx, req offchain.SettleReq, amount decimal.Decimal) (*offchain.Transaction, error) {
	im.locks.Lock(req.ListingId)
	defer im.locks.Unlock(req.ListingId)

	l, err := im.listingRepo.FindOne(ctx, listing.Id{ListingId: req.ListingId})
	if err != nil {
		return nil, err
	}

	if !req.Seller.Equals(l.Seller) {
		return nil, domain.ErrNotOwner
	}

	price, err := domain.ParseAmount(l.Price)
	if err != nil {
		return nil, err
	}
	if !amount.Equal(price) {
		ctx.WithFields(log.Fields{
			"listingId": req.ListingId,
			"price":     l.Price,
			"amount":    amount.String(),
			"security":  true,
		}).Warn("settlement amount disagrees with listing price")
		return nil, xerrors.Errorf("amount %s does not match listing price %s: %w", amount.String(), l.Price, domain.ErrAmountMismatch)
	}

	now := timeNow()
	switch l.StatusAt(now) {
	case listing.StatusActive:
	case listing.StatusPendingSale:
		return nil, domain.ErrSaleInFlight
	case listing.StatusExpired:
		return nil, domain.ErrListingExpired
	default:
		return nil, domain.ErrListingInactive
	}

	tx, err := im.insertTransaction(ctx, req, amount.String())
	if err != nil {
		return nil, err
	}

	if err := im.listingRepo.Update(ctx, l.ToId(), listing.Patchable{
		IsActive:   ptr.Bool(false),
		Buyer:      req.Buyer.ToLowerPtr(),
		SelectedAt: &now,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": req.ListingId,
		}).Error("listingRepo.Update failed")
		return nil, err
	}

	return tx, nil
}

func (im *impl) settleOffer(ctx ctx.Ctx, req offchain.SettleReq, amount decimal.Decimal) (*offchain.Transaction, error) {
	im.locks.Lock(req.OfferId)
	defer im.locks.Unlock(req.OfferId)

	o, err := im.offerRepo.FindOne(ctx, offer.Id{OfferId: req.OfferId})
	if err != nil {
		return nil, err
	}

	if !req.Seller.Equals(o.DomainOwner) {
		return nil, domain.ErrNotOwner
	}

	price, err := domain.ParseAmount(o.Price)
	if err != nil {
		return nil, err
	}
	if !amount.Equal(price) {
		ctx.WithFields(log.Fields{
			"offerId":  req.OfferId,
			"price":    o.Price,
			"amount":   amount.String(),
			"security": true,
		}).Warn("settlement amount disagrees with offer price")
		return nil, xerrors.Errorf("amount %s does not match offer price %s: %w", amount.String(), o.Price, domain.ErrAmountMismatch)
	}

	now := timeNow()
	switch o.StatusAt(now) {
	case offer.StatusOpen:
	case offer.StatusExpired:
		return nil, domain.ErrOfferExpired
	default:
		return nil, domain.ErrOfferTerminal
	}

	tx, err := im.insertTransaction(ctx, req, amount.String())
	if err != nil {
		return nil, err
	}

	if err := im.offerRepo.Update(ctx, o.ToId(), offer.Patchable{
		SelectedAt: &now,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"offerId": req.OfferId,
		}).Error("offerRepo.Update failed")
		return nil, err
	}

	return tx, nil
}

func (im *impl) insertTransaction(ctx ctx.Ctx, req offchain.SettleReq, amount string) (*offchain.Transaction, error) {
	tx := &offchain.Transaction{
		Id:        uuid.NewString(),
		TokenId:   req.TokenId,
		Seller:    req.Seller.ToLower(),
		Buyer:     req.Buyer.ToLower(),
		Amount:    amount,
		SoldAt:    timeNow(),
		Signature: req.Signature,
	}
	if err := im.offchainRepo.Insert(ctx, tx); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  tx.Id,
		}).Error("offchainRepo.Insert failed")
		return nil, err
	}
	return tx, nil
}

func (im *impl) AttachTxHash(ctx ctx.Ctx, id string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*offchain.Transaction, error) {
	im.locks.Lock(id)
	defer im.locks.Unlock(id)

	tx, err := im.offchainRepo.FindOne(ctx, offchain.Id{Id: id})
	if err != nil {
		return nil, err
	}

	if tx.Confirmed() {
		if tx.TxHash == txHash.ToLower() {
			// duplicate confirmation, repeatable by design
			return tx, nil
		}
		ctx.WithFields(log.Fields{
			"id":       id,
			"recorded": tx.TxHash,
			"txHash":   txHash,
			"security": true,
		}).Warn("conflicting settlement confirmation")
		return nil, xerrors.Errorf("confirmation already recorded with %s: %w", tx.TxHash, domain.ErrHashMismatch)
	}

	hash := txHash.ToLower()
	if err := im.offchainRepo.Update(ctx, tx.ToId(), offchain.Patchable{
		TxHash:      &hash,
		BlockNumber: &blockNumber,
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("offchainRepo.Update failed")
		return nil, err
	}

	tx.TxHash = hash
	tx.BlockNumber = blockNumber
	return tx, nil
}

func (im *impl) InvalidateConfirmation(ctx ctx.Ctx, txHash domain.TxHash) error {
	txs, err := im.offchainRepo.FindAll(ctx, offchain.WithTxHash(txHash))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": txHash,
		}).Error("offchainRepo.FindAll failed")
		return err
	}
	if len(txs) == 0 {
		return domain.ErrNotFound
	}

	for _, tx := range txs {
		im.locks.Lock(tx.Id)
		err := im.offchainRepo.ClearConfirmation(ctx, tx.ToId())
		im.locks.Unlock(tx.Id)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err": err,
				"id":  tx.Id,
			}).Error("offchainRepo.ClearConfirmation failed")
			return err
		}
		ctx.WithFields(log.Fields{
			"id":     tx.Id,
			"txHash": txHash,
		}).Info("settlement confirmation rolled back")
	}

	return nil
}

func (im *impl) Get(ctx ctx.Ctx, id string) (*offchain.Transaction, error) {
	return im.offchainRepo.FindOne(ctx, offchain.Id{Id: id})
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...offchain.FindAllOptionsFunc) ([]*offchain.Transaction, error) {
	res, err := im.offchainRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("offchainRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}
