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
	"github.com/domaindao/goapi/domain/auction"
	mockAuction "github.com/domaindao/goapi/domain/auction/mocks"
	mockQuery "github.com/domaindao/goapi/service/query/mocks"
)

var (
	mockCtx = ctx.Background()

	seller       = domain.Address("0x1111111111111111111111111111111111111111")
	bidder1      = domain.Address("0x2222222222222222222222222222222222222222")
	bidder2      = domain.Address("0x3333333333333333333333333333333333333333")
	contract     = domain.Address("0x4444444444444444444444444444444444444444")
	paymentToken = domain.Address("0x5555555555555555555555555555555555555555")
	tokenId      = domain.TokenId("42")
)

type testsuite struct {
	suite.Suite
	mockRepo    *mockAuction.Repo
	mockBidRepo *mockAuction.BidRepo
	mockQuery   *mockQuery.Mongo
	subject     *impl
	now         time.Time
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockAuction.Repo{}
	t.mockBidRepo = &mockAuction.BidRepo{}
	t.mockQuery = &mockQuery.Mongo{}
	t.subject = &impl{
		auctionRepo: t.mockRepo,
		bidRepo:     t.mockBidRepo,
		q:           t.mockQuery,
		locks:       keymutex.New(8),
	}
	t.now = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return t.now }

	t.mockQuery.
		On("RunWithTransaction", mockCtx, mock.Anything).
		Return(func(c ctx.Ctx, run func(ctx.Ctx) error) error {
			return run(c)
		})
}

func (t *testsuite) activeAuction() *auction.Auction {
	return &auction.Auction{
		AuctionId:     "auction-1",
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		StartingPrice: "2",
		ReservePrice:  "5",
		PaymentToken:  paymentToken,
		StartTime:     t.now.Add(-time.Hour),
		EndTime:       t.now.Add(time.Hour),
		IsActive:      true,
		HighestBid:    "0",
	}
}

func (t *testsuite) TestCreateAuction() {
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)

	res, err := t.subject.CreateAuction(mockCtx, auction.CreateAuctionReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		StartingPrice: "2.0",
		ReservePrice:  "5.0",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.NoError(err)
	t.Equal("2", res.StartingPrice)
	t.Equal("5", res.ReservePrice)
	t.Equal("0", res.HighestBid)
	t.Equal(t.now.Add(time.Hour), res.EndTime)
	t.True(res.IsActive)
}

func (t *testsuite) TestCreateAuctionValidation() {
	_, err := t.subject.CreateAuction(mockCtx, auction.CreateAuctionReq{
		Seller:        "bogus",
		TokenContract: contract,
		TokenId:       tokenId,
		StartingPrice: "2",
		ReservePrice:  "5",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrInvalidAddress)

	_, err = t.subject.CreateAuction(mockCtx, auction.CreateAuctionReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		StartingPrice: "0",
		ReservePrice:  "5",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrInvalidPrice)

	_, err = t.subject.CreateAuction(mockCtx, auction.CreateAuctionReq{
		Seller:        seller,
		TokenContract: contract,
		TokenId:       tokenId,
		StartingPrice: "2",
		ReservePrice:  "-1",
		PaymentToken:  paymentToken,
		Duration:      time.Hour,
	})
	t.ErrorIs(err, domain.ErrInvalidPrice)
}

func (t *testsuite) TestPlaceFirstBid() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)
	t.mockBidRepo.
		On("FindAll", mockCtx, mock.Anything, mock.Anything).
		Return([]*auction.Bid{}, nil)
	t.mockBidRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			HighestBidder: bidder1.ToLowerPtr(),
			HighestBid:    ptr.String("3"),
			BidCount:      ptr.Int(1),
		}).
		Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, "auction-1", bidder1, "3.0", "0x01")
	t.NoError(err)
	t.True(res.IsActive)
	t.Equal("3", res.Amount)
	t.Equal(bidder1, res.Bidder)
}

func (t *testsuite) TestPlaceFirstBidBelowStartingPrice() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)

	_, err := t.subject.PlaceBid(mockCtx, "auction-1", bidder1, "1.5", "0x01")
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.mockBidRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
}

func (t *testsuite) TestPlaceBidEqualToHighestRejected() {
	a := t.activeAuction()
	a.HighestBidder = bidder1
	a.HighestBid = "3"
	a.BidCount = 1

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, "auction-1", bidder2, "3", "0x02")
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.mockBidRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidSupersedesPrevious() {
	a := t.activeAuction()
	a.HighestBidder = bidder1
	a.HighestBid = "3"
	a.BidCount = 1

	prev := &auction.Bid{
		BidId:     "bid-1",
		AuctionId: "auction-1",
		Bidder:    bidder1,
		Amount:    "3",
		IsActive:  true,
	}

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)
	t.mockBidRepo.
		On("FindAll", mockCtx, mock.Anything, mock.Anything).
		Return([]*auction.Bid{prev}, nil)
	t.mockBidRepo.
		On("Update", mockCtx, auction.BidId{BidId: "bid-1"}, auction.BidPatchable{
			IsActive: ptr.Bool(false),
		}).
		Return(nil)
	t.mockBidRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			HighestBidder: bidder2.ToLowerPtr(),
			HighestBid:    ptr.String("4"),
			BidCount:      ptr.Int(2),
		}).
		Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, "auction-1", bidder2, "4", "0x02")
	t.NoError(err)
	t.True(res.IsActive)
	t.mockBidRepo.AssertCalled(t.T(), "Update", mockCtx, auction.BidId{BidId: "bid-1"}, auction.BidPatchable{
		IsActive: ptr.Bool(false),
	})
}

func (t *testsuite) TestPlaceBidPastDeadline() {
	a := t.activeAuction()
	a.EndTime = t.now.Add(-time.Minute)

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, "auction-1", bidder1, "3", "0x01")
	t.ErrorIs(err, domain.ErrAuctionInactive)
}

func (t *testsuite) TestEndAuctionBeforeDeadline() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)

	_, err := t.subject.EndAuction(mockCtx, "auction-1", seller)
	t.ErrorIs(err, domain.ErrAuctionStillActive)
}

func (t *testsuite) TestEndAuctionReserveNotMet() {
	a := t.activeAuction()
	a.EndTime = t.now.Add(-time.Minute)
	a.HighestBidder = bidder2
	a.HighestBid = "4"
	a.BidCount = 2

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			IsActive:      ptr.Bool(false),
			EndedWithSale: ptr.Bool(false),
			SelectedAt:    &t.now,
		}).
		Return(nil)

	res, err := t.subject.EndAuction(mockCtx, "auction-1", seller)
	t.NoError(err)
	t.Equal(auction.StatusEndedNoSale, res.StatusAt(t.now))
}

func (t *testsuite) TestEndAuctionWithSale() {
	a := t.activeAuction()
	a.EndTime = t.now.Add(-time.Minute)
	a.HighestBidder = bidder2
	a.HighestBid = "6"
	a.BidCount = 3

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			IsActive:      ptr.Bool(false),
			EndedWithSale: ptr.Bool(true),
			SelectedAt:    &t.now,
		}).
		Return(nil)

	res, err := t.subject.EndAuction(mockCtx, "auction-1", seller)
	t.NoError(err)
	t.Equal(auction.StatusEndedWithSale, res.StatusAt(t.now))
}

func (t *testsuite) TestEndAuctionRepeated() {
	a := t.activeAuction()
	a.EndTime = t.now.Add(-time.Minute)
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(false)
	a.SelectedAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.EndAuction(mockCtx, "auction-1", seller)
	t.ErrorIs(err, domain.ErrAlreadyEnded)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestResultAuctionBeforeDeadline() {
	// the confirmed chain event outranks a local clock that has not
	// reached endTime yet
	a := t.activeAuction()
	a.EndTime = t.now.Add(time.Minute)
	a.HighestBidder = bidder2
	a.HighestBid = "6"
	a.BidCount = 3

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			IsActive:      ptr.Bool(false),
			EndedWithSale: ptr.Bool(true),
			SelectedAt:    &t.now,
		}).
		Return(nil)

	res, err := t.subject.ResultAuction(mockCtx, "auction-1", seller)
	t.NoError(err)
	t.False(res.IsActive)
	t.True(*res.EndedWithSale)
}

func (t *testsuite) TestResultAuctionRepeated() {
	a := t.activeAuction()
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(true)
	a.SelectedAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.ResultAuction(mockCtx, "auction-1", seller)
	t.ErrorIs(err, domain.ErrAlreadyEnded)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestCancelAuctionWithBids() {
	a := t.activeAuction()
	a.HighestBidder = bidder1
	a.HighestBid = "3"
	a.BidCount = 1

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.CancelAuction(mockCtx, "auction-1", seller)
	t.ErrorIs(err, domain.ErrAuctionHasBids)
}

func (t *testsuite) TestCancelAuctionNotOwner() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)

	_, err := t.subject.CancelAuction(mockCtx, "auction-1", bidder1)
	t.ErrorIs(err, domain.ErrNotOwner)
}

func (t *testsuite) TestCancelAuction() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			IsActive:  ptr.Bool(false),
			Cancelled: ptr.Bool(true),
		}).
		Return(nil)

	res, err := t.subject.CancelAuction(mockCtx, "auction-1", seller)
	t.NoError(err)
	t.True(res.Cancelled)
}

func (t *testsuite) TestRecordSettlement() {
	a := t.activeAuction()
	a.EndTime = t.now.Add(-time.Minute)
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(true)
	a.SelectedAt = &t.now

	hash := domain.TxHash("0xaa")
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)
	t.mockRepo.
		On("Update", mockCtx, auction.Id{AuctionId: "auction-1"}, auction.Patchable{
			TxHash:      &hash,
			BlockNumber: ptrBlockNumber(100),
		}).
		Return(nil)

	res, err := t.subject.RecordSettlement(mockCtx, "auction-1", "0xAA", 100)
	t.NoError(err)
	t.Equal(domain.TxHash("0xaa"), res.TxHash)
}

func (t *testsuite) TestRecordSettlementIdempotent() {
	a := t.activeAuction()
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(true)
	a.SelectedAt = &t.now
	a.TxHash = "0xaa"
	a.BlockNumber = 100

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	res, err := t.subject.RecordSettlement(mockCtx, "auction-1", "0xAA", 100)
	t.NoError(err)
	t.Equal(a, res)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestRecordSettlementHashMismatch() {
	a := t.activeAuction()
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(true)
	a.SelectedAt = &t.now
	a.TxHash = "0xaa"
	a.BlockNumber = 100

	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(a, nil)

	_, err := t.subject.RecordSettlement(mockCtx, "auction-1", "0xbb", 101)
	t.ErrorIs(err, domain.ErrHashMismatch)
}

func (t *testsuite) TestRecordSettlementBeforeEnd() {
	t.mockRepo.
		On("FindOne", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(t.activeAuction(), nil)

	_, err := t.subject.RecordSettlement(mockCtx, "auction-1", "0xaa", 100)
	t.ErrorIs(err, domain.ErrAuctionNotEnded)
}

func (t *testsuite) TestInvalidateSettlement() {
	a := t.activeAuction()
	a.IsActive = false
	a.EndedWithSale = ptr.Bool(true)
	a.TxHash = "0xaa"

	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*auction.Auction{a}, nil)
	t.mockRepo.
		On("ClearSettlement", mockCtx, auction.Id{AuctionId: "auction-1"}).
		Return(nil)

	err := t.subject.InvalidateSettlement(mockCtx, "0xAA")
	t.NoError(err)
	t.mockRepo.AssertCalled(t.T(), "ClearSettlement", mockCtx, auction.Id{AuctionId: "auction-1"})
}

func (t *testsuite) TestInvalidateSettlementUnknownHash() {
	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*auction.Auction{}, nil)

	err := t.subject.InvalidateSettlement(mockCtx, "0xdead")
	t.ErrorIs(err, domain.ErrNotFound)
}

func ptrBlockNumber(n domain.BlockNumber) *domain.BlockNumber {
	return &n
}
