package usecase

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/keymutex"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
	mockListing "github.com/domaindao/goapi/domain/listing/mocks"
	"github.com/domaindao/goapi/domain/offchain"
	mockOffchain "github.com/domaindao/goapi/domain/offchain/mocks"
	"github.com/domaindao/goapi/domain/offer"
	mockOffer "github.com/domaindao/goapi/domain/offer/mocks"
)

var (
	mockCtx = ctx.Background()

	sellerKeyHex = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	buyer        = domain.Address("0x2222222222222222222222222222222222222222")
	tokenId      = domain.TokenId("42")
)

type testsuite struct {
	suite.Suite
	mockRepo        *mockOffchain.Repo
	mockListingRepo *mockListing.Repo
	mockOfferRepo   *mockOffer.Repo
	subject         *impl
	now             time.Time
	seller          domain.Address
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockOffchain.Repo{}
	t.mockListingRepo = &mockListing.Repo{}
	t.mockOfferRepo = &mockOffer.Repo{}
	t.subject = &impl{
		offchainRepo: t.mockRepo,
		listingRepo:  t.mockListingRepo,
		offerRepo:    t.mockOfferRepo,
		locks:        keymutex.New(8),
	}
	t.now = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return t.now }

	key, err := crypto.HexToECDSA(sellerKeyHex)
	t.Require().NoError(err)
	t.seller = domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func (t *testsuite) sign(msg string) string {
	key, err := crypto.HexToECDSA(sellerKeyHex)
	t.Require().NoError(err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	t.Require().NoError(err)
	sig[64] += 27
	return hexutil.Encode(sig)
}

func (t *testsuite) activeListing() *listing.Listing {
	return &listing.Listing{
		ListingId:     "listing-1",
		Seller:        t.seller.ToLower(),
		TokenId:       tokenId,
		Price:         "1",
		IsActive:      true,
		CreatedAt:     t.now.Add(-time.Hour),
		ExpiresAt:     t.now.Add(time.Hour),
	}
}

func (t *testsuite) TestVerifyAndSettleListing() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "1"))

	t.mockListingRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(t.activeListing(), nil)
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)
	t.mockListingRepo.
		On("Update", mockCtx, listing.Id{ListingId: "listing-1"}, listing.Patchable{
			IsActive:   ptr.Bool(false),
			Buyer:      buyer.ToLowerPtr(),
			SelectedAt: &t.now,
		}).
		Return(nil)

	res, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1.0",
		Signature: signature,
		ListingId: "listing-1",
	})
	t.NoError(err)
	t.Equal("1", res.Amount)
	t.Equal(t.seller.ToLower(), res.Seller)
	t.False(res.Confirmed())
}

func (t *testsuite) TestVerifyAndSettleWrongSigner() {
	otherKey, err := crypto.GenerateKey()
	t.Require().NoError(err)
	msg := SettleMessage(t.seller, buyer, tokenId, "1")
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), otherKey)
	t.Require().NoError(err)
	sig[64] += 27

	_, err = t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1",
		Signature: hexutil.Encode(sig),
		ListingId: "listing-1",
	})
	t.ErrorIs(err, domain.ErrInvalidSignature)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
	t.mockListingRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestVerifyAndSettleTamperedAmount() {
	// signed for 1, submitted for 2
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "1"))

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "2",
		Signature: signature,
		ListingId: "listing-1",
	})
	t.ErrorIs(err, domain.ErrInvalidSignature)
}

func (t *testsuite) TestVerifyAndSettleMalformedSignature() {
	for _, signature := range []string{"", "junk", "0x1234", "0xzz"} {
		_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
			TokenId:   tokenId,
			Seller:    t.seller,
			Buyer:     buyer,
			Amount:    "1",
			Signature: signature,
			ListingId: "listing-1",
		})
		t.ErrorIs(err, domain.ErrInvalidSignature)
	}
}

func (t *testsuite) TestVerifyAndSettleAmbiguousTarget() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "1"))

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1",
		Signature: signature,
	})
	t.ErrorIs(err, domain.ErrBadParamInput)

	_, err = t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1",
		Signature: signature,
		ListingId: "listing-1",
		OfferId:   "offer-1",
	})
	t.ErrorIs(err, domain.ErrBadParamInput)
}

func (t *testsuite) TestVerifyAndSettlePendingSaleListing() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "1"))

	l := t.activeListing()
	l.PendingBuyer = buyer.ToLowerPtr()
	pendingAt := t.now.Add(-time.Minute)
	l.PendingAt = &pendingAt

	t.mockListingRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1",
		Signature: signature,
		ListingId: "listing-1",
	})
	t.ErrorIs(err, domain.ErrSaleInFlight)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
	t.mockListingRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestVerifyAndSettleExpiredListing() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "1"))

	l := t.activeListing()
	l.ExpiresAt = t.now.Add(-time.Minute)

	t.mockListingRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "1",
		Signature: signature,
		ListingId: "listing-1",
	})
	t.ErrorIs(err, domain.ErrListingExpired)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
	t.mockListingRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestVerifyAndSettleAmountMismatch() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "2"))

	t.mockListingRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(t.activeListing(), nil)

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "2",
		Signature: signature,
		ListingId: "listing-1",
	})
	t.ErrorIs(err, domain.ErrAmountMismatch)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
}

func (t *testsuite) TestVerifyAndSettleOffer() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "2"))

	o := &offer.Offer{
		OfferId:     "offer-1",
		DomainOwner: t.seller.ToLower(),
		OfferMaker:  buyer,
		TokenId:     tokenId,
		Price:       "2",
		OfferedAt:   t.now.Add(-time.Hour),
		OfferUntil:  t.now.Add(time.Hour),
	}

	t.mockOfferRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)
	t.mockOfferRepo.
		On("Update", mockCtx, offer.Id{OfferId: "offer-1"}, offer.Patchable{
			SelectedAt: &t.now,
		}).
		Return(nil)

	res, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "2",
		Signature: signature,
		OfferId:   "offer-1",
	})
	t.NoError(err)
	t.Equal("2", res.Amount)
}

func (t *testsuite) TestVerifyAndSettleExpiredOffer() {
	signature := t.sign(SettleMessage(t.seller, buyer, tokenId, "2"))

	o := &offer.Offer{
		OfferId:     "offer-1",
		DomainOwner: t.seller.ToLower(),
		OfferMaker:  buyer,
		TokenId:     tokenId,
		Price:       "2",
		OfferedAt:   t.now.Add(-time.Hour),
		OfferUntil:  t.now.Add(-time.Minute),
	}

	t.mockOfferRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)

	_, err := t.subject.VerifyAndSettle(mockCtx, offchain.SettleReq{
		TokenId:   tokenId,
		Seller:    t.seller,
		Buyer:     buyer,
		Amount:    "2",
		Signature: signature,
		OfferId:   "offer-1",
	})
	t.ErrorIs(err, domain.ErrOfferExpired)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
}

func (t *testsuite) TestAttachTxHash() {
	tx := &offchain.Transaction{
		Id:      "tx-1",
		TokenId: tokenId,
		Seller:  t.seller.ToLower(),
		Buyer:   buyer,
		Amount:  "1",
		SoldAt:  t.now,
	}

	hash := domain.TxHash("0xaa")
	t.mockRepo.
		On("FindOne", mockCtx, offchain.Id{Id: "tx-1"}).
		Return(tx, nil)
	t.mockRepo.
		On("Update", mockCtx, offchain.Id{Id: "tx-1"}, offchain.Patchable{
			TxHash:      &hash,
			BlockNumber: ptrBlockNumber(100),
		}).
		Return(nil)

	res, err := t.subject.AttachTxHash(mockCtx, "tx-1", "0xAA", 100)
	t.NoError(err)
	t.True(res.Confirmed())
}

func (t *testsuite) TestAttachTxHashIdempotent() {
	tx := &offchain.Transaction{
		Id:          "tx-1",
		TxHash:      "0xaa",
		BlockNumber: 100,
	}

	t.mockRepo.
		On("FindOne", mockCtx, offchain.Id{Id: "tx-1"}).
		Return(tx, nil)

	res, err := t.subject.AttachTxHash(mockCtx, "tx-1", "0xAA", 100)
	t.NoError(err)
	t.Equal(tx, res)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestAttachTxHashMismatch() {
	tx := &offchain.Transaction{
		Id:          "tx-1",
		TxHash:      "0xaa",
		BlockNumber: 100,
	}

	t.mockRepo.
		On("FindOne", mockCtx, offchain.Id{Id: "tx-1"}).
		Return(tx, nil)

	_, err := t.subject.AttachTxHash(mockCtx, "tx-1", "0xbb", 101)
	t.ErrorIs(err, domain.ErrHashMismatch)
}

func (t *testsuite) TestInvalidateConfirmation() {
	tx := &offchain.Transaction{
		Id:          "tx-1",
		TxHash:      "0xaa",
		BlockNumber: 100,
	}

	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*offchain.Transaction{tx}, nil)
	t.mockRepo.
		On("ClearConfirmation", mockCtx, offchain.Id{Id: "tx-1"}).
		Return(nil)

	err := t.subject.InvalidateConfirmation(mockCtx, "0xAA")
	t.NoError(err)
	t.mockRepo.AssertCalled(t.T(), "ClearConfirmation", mockCtx, offchain.Id{Id: "tx-1"})
}

func ptrBlockNumber(n domain.BlockNumber) *domain.BlockNumber {
	return &n
}
