package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/keymutex"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
	mockListing "github.com/domaindao/goapi/domain/listing/mocks"
)

var (
	mockCtx = ctx.Background()

	seller       = domain.Address("0x1111111111111111111111111111111111111111")
	buyer        = domain.Address("0x2222222222222222222222222222222222222222")
	otherBuyer   = domain.Address("0x3333333333333333333333333333333333333333")
	contract     = domain.Address("0x4444444444444444444444444444444444444444")
	paymentToken = domain.Address("0x5555555555555555555555555555555555555555")
	tokenId      = domain.TokenId("42")
)

type testsuite struct {
	suite.Suite
	mockRepo *mockListing.Repo
	subject  *impl
	now      time.Time
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockListing.Repo{}
	t.subject = &impl{
		listingRepo: t.mockRepo,
		locks:       keymutex.New(8),
	}
	t.now = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return t.now }
}

func (t *testsuite) activeListing() *listing.Listing {
	return &listing.Listing{
		ListingId:     "listing-1",
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1",
		PaymentToken:  paymentToken,
		IsActive:      true,
		CreatedAt:     t.now.Add(-time.Hour),
		ExpiresAt:     t.now.Add(time.Hour),
	}
}

func (t *testsuite) TestCreateListing() {
	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything, mock.Anything).
		Return([]*listing.Listing{}, nil)
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)

	res, err := t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        domain.Address("0x1111111111111111111111111111111111111111"),
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1.50",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.NoError(err)
	t.Equal(seller, res.Seller)
	t.Equal("1.5", res.Price)
	t.True(res.IsActive)
	t.Equal(t.now.Add(time.Hour), res.ExpiresAt)
	t.NotEmpty(res.ListingId)
}

func (t *testsuite) TestCreateListingValidation() {
	_, err := t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        "not-an-address",
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrInvalidAddress)

	_, err = t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "0",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrInvalidPrice)

	_, err = t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1",
		PaymentToken:  paymentToken,
		Duration:      -time.Minute,
	})
	t.ErrorIs(err, domain.ErrInvalidExpiration)
}

func (t *testsuite) TestCreateListingDuplicate() {
	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything, mock.Anything).
		Return([]*listing.Listing{t.activeListing()}, nil)

	_, err := t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrDuplicateListing)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
}

func (t *testsuite) TestCreateListingIgnoresExpiredDuplicate() {
	expired := t.activeListing()
	expired.ExpiresAt = t.now.Add(-time.Minute)

	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything, mock.Anything).
		Return([]*listing.Listing{expired}, nil)
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)

	_, err := t.subject.CreateListing(mockCtx, listing.CreateListingReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		Price:         "1",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.NoError(err)
}

func (t *testsuite) TestCancelListingNotOwner() {
	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(t.activeListing(), nil)

	_, err := t.subject.CancelListing(mockCtx, "listing-1", buyer)
	t.ErrorIs(err, domain.ErrNotOwner)
}

func (t *testsuite) TestCancelListingAlreadyInactive() {
	l := t.activeListing()
	l.IsActive = false
	l.Cancelled = true

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.CancelListing(mockCtx, "listing-1", seller)
	t.ErrorIs(err, domain.ErrAlreadyInactive)
}

func (t *testsuite) TestCancelListingPendingSale() {
	l := t.activeListing()
	l.PendingBuyer = buyer.ToLowerPtr()
	l.PendingAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.CancelListing(mockCtx, "listing-1", seller)
	t.ErrorIs(err, domain.ErrSaleInFlight)
}

func (t *testsuite) TestCancelListing() {
	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(t.activeListing(), nil)
	t.mockRepo.
		On("Update", mockCtx, listing.Id{ListingId: "listing-1"}, listing.Patchable{
			IsActive:  ptr.Bool(false),
			Cancelled: ptr.Bool(true),
		}).
		Return(nil)

	res, err := t.subject.CancelListing(mockCtx, "listing-1", seller)
	t.NoError(err)
	t.False(res.IsActive)
	t.True(res.Cancelled)
}

func (t *testsuite) TestBuy() {
	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(t.activeListing(), nil)
	t.mockRepo.
		On("Update", mockCtx, listing.Id{ListingId: "listing-1"}, listing.Patchable{
			PendingBuyer: buyer.ToLowerPtr(),
			PendingAt:    &t.now,
		}).
		Return(nil)

	res, err := t.subject.Buy(mockCtx, "listing-1", buyer)
	t.NoError(err)
	t.Equal(listing.StatusPendingSale, res.StatusAt(t.now))
}

func (t *testsuite) TestBuyWhileSalePending() {
	l := t.activeListing()
	l.PendingBuyer = buyer.ToLowerPtr()
	l.PendingAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.Buy(mockCtx, "listing-1", otherBuyer)
	t.ErrorIs(err, domain.ErrSaleInFlight)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestBuyExpired() {
	l := t.activeListing()
	l.ExpiresAt = t.now.Add(-time.Minute)

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.Buy(mockCtx, "listing-1", buyer)
	t.ErrorIs(err, domain.ErrListingExpired)
}

func (t *testsuite) TestRecordSale() {
	l := t.activeListing()
	l.PendingBuyer = buyer.ToLowerPtr()
	l.PendingAt = &t.now

	hash := domain.TxHash("0xaa")
	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)
	t.mockRepo.
		On("RecordSale", mockCtx, listing.Id{ListingId: "listing-1"}, listing.Patchable{
			IsActive:    ptr.Bool(false),
			Buyer:       buyer.ToLowerPtr(),
			SelectedAt:  &t.now,
			TxHash:      &hash,
			BlockNumber: ptrBlockNumber(100),
		}).
		Return(nil)

	res, err := t.subject.RecordSale(mockCtx, "listing-1", buyer, "0xAA", 100)
	t.NoError(err)
	t.False(res.IsActive)
	t.Equal(listing.StatusSold, res.StatusAt(t.now))
	t.Equal(domain.TxHash("0xaa"), res.TxHash)
	t.Nil(res.PendingBuyer)
	t.Nil(res.PendingAt)
	t.False(res.IsPendingSale())
}

func (t *testsuite) TestRecordSaleIdempotent() {
	l := t.activeListing()
	l.IsActive = false
	l.Buyer = buyer.ToLowerPtr()
	l.SelectedAt = &t.now
	l.TxHash = "0xaa"
	l.BlockNumber = 100

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	res, err := t.subject.RecordSale(mockCtx, "listing-1", buyer, "0xAA", 100)
	t.NoError(err)
	t.Equal(l, res)
	t.mockRepo.AssertNotCalled(t.T(), "RecordSale", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestRecordSaleHashMismatch() {
	l := t.activeListing()
	l.IsActive = false
	l.Buyer = buyer.ToLowerPtr()
	l.SelectedAt = &t.now
	l.TxHash = "0xaa"
	l.BlockNumber = 100

	t.mockRepo.
		On("FindOne", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(l, nil)

	_, err := t.subject.RecordSale(mockCtx, "listing-1", buyer, "0xbb", 101)
	t.ErrorIs(err, domain.ErrHashMismatch)
	t.mockRepo.AssertNotCalled(t.T(), "RecordSale", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestInvalidateSale() {
	sold := t.activeListing()
	sold.IsActive = false
	sold.Buyer = buyer.ToLowerPtr()
	sold.TxHash = "0xaa"

	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*listing.Listing{sold}, nil)
	t.mockRepo.
		On("ClearSale", mockCtx, listing.Id{ListingId: "listing-1"}).
		Return(nil)

	err := t.subject.InvalidateSale(mockCtx, "0xAA")
	t.NoError(err)
	t.mockRepo.AssertCalled(t.T(), "ClearSale", mockCtx, listing.Id{ListingId: "listing-1"})
}

func (t *testsuite) TestInvalidateSaleUnknownHash() {
	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*listing.Listing{}, nil)

	err := t.subject.InvalidateSale(mockCtx, "0xdead")
	t.ErrorIs(err, domain.ErrNotFound)
}

func ptrBlockNumber(n domain.BlockNumber) *domain.BlockNumber {
	return &n
}
