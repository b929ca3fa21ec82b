package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/domaindao/goapi/base/ctx"
	mockMetrics "github.com/domaindao/goapi/base/metrics/mocks"
	"github.com/domaindao/goapi/domain"
	mockAuction "github.com/domaindao/goapi/domain/auction/mocks"
	"github.com/domaindao/goapi/domain/listing"
	mockListing "github.com/domaindao/goapi/domain/listing/mocks"
	"github.com/domaindao/goapi/domain/marketevent"
	mockOffchain "github.com/domaindao/goapi/domain/offchain/mocks"
	mockOffer "github.com/domaindao/goapi/domain/offer/mocks"
)

var (
	mockCtx = ctx.Background()

	buyer  = domain.Address("0x2222222222222222222222222222222222222222")
	txHash = domain.TxHash("0xaa")
)

type testsuite struct {
	suite.Suite
	mockListingUC  *mockListing.UseCase
	mockAuctionUC  *mockAuction.UseCase
	mockOfferUC    *mockOffer.UseCase
	mockOffchainUC *mockOffchain.UseCase
	mockMetrics    *mockMetrics.Service
	subject        *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockListingUC = &mockListing.UseCase{}
	t.mockAuctionUC = &mockAuction.UseCase{}
	t.mockOfferUC = &mockOffer.UseCase{}
	t.mockOffchainUC = &mockOffchain.UseCase{}
	t.mockMetrics = &mockMetrics.Service{}
	t.mockMetrics.On("BumpSum", mock.Anything, mock.Anything).Maybe()
	t.mockMetrics.On("BumpSum", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	t.subject = &impl{
		listingUC:  t.mockListingUC,
		auctionUC:  t.mockAuctionUC,
		offerUC:    t.mockOfferUC,
		offchainUC: t.mockOffchainUC,
		met:        t.mockMetrics,
	}
}

func (t *testsuite) meta() domain.LogMeta {
	return domain.LogMeta{
		BlockNumber: 100,
		TxHash:      txHash,
		MsgSender:   buyer,
	}
}

func (t *testsuite) TestItemSold() {
	t.mockListingUC.
		On("RecordSale", mockCtx, "listing-1", buyer, txHash, domain.BlockNumber(100)).
		Return(&listing.Listing{ListingId: "listing-1"}, nil)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		ItemSold: &marketevent.ItemSoldEvent{
			ListingId: "listing-1",
			Buyer:     buyer,
			Meta:      t.meta(),
		},
	})
	t.NoError(err)
}

func (t *testsuite) TestItemSoldUnknownListingAbsorbed() {
	t.mockListingUC.
		On("RecordSale", mockCtx, "listing-1", buyer, txHash, domain.BlockNumber(100)).
		Return(nil, domain.ErrNotFound)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		ItemSold: &marketevent.ItemSoldEvent{
			ListingId: "listing-1",
			Buyer:     buyer,
			Meta:      t.meta(),
		},
	})
	t.NoError(err)
}

func (t *testsuite) TestItemSoldHashMismatchAbsorbed() {
	t.mockListingUC.
		On("RecordSale", mockCtx, "listing-1", buyer, txHash, domain.BlockNumber(100)).
		Return(nil, domain.ErrHashMismatch)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		ItemSold: &marketevent.ItemSoldEvent{
			ListingId: "listing-1",
			Buyer:     buyer,
			Meta:      t.meta(),
		},
	})
	t.NoError(err)
}

func (t *testsuite) TestAuctionResultedEndsThenConfirms() {
	t.mockAuctionUC.
		On("ResultAuction", mockCtx, "auction-1", buyer).
		Return(nil, domain.ErrAlreadyEnded)
	t.mockAuctionUC.
		On("RecordSettlement", mockCtx, "auction-1", txHash, domain.BlockNumber(100)).
		Return(nil, nil)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		AuctionResulted: &marketevent.AuctionResultedEvent{
			AuctionId: "auction-1",
			Winner:    buyer,
			Meta:      t.meta(),
		},
	})
	t.NoError(err)
	t.mockAuctionUC.AssertCalled(t.T(), "RecordSettlement", mockCtx, "auction-1", txHash, domain.BlockNumber(100))
}

func (t *testsuite) TestOfferAccepted() {
	t.mockOfferUC.
		On("AcceptOffer", mockCtx, "offer-1", buyer).
		Return(nil, nil)
	t.mockOfferUC.
		On("RecordSettlement", mockCtx, "offer-1", txHash, domain.BlockNumber(100)).
		Return(nil, nil)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		OfferAccepted: &marketevent.OfferAcceptedEvent{
			OfferId: "offer-1",
			Meta:    t.meta(),
		},
	})
	t.NoError(err)
}

func (t *testsuite) TestConfirmationInvalidatedFansOut() {
	t.mockListingUC.
		On("InvalidateSale", mockCtx, txHash).
		Return(domain.ErrNotFound)
	t.mockAuctionUC.
		On("InvalidateSettlement", mockCtx, txHash).
		Return(nil)
	t.mockOfferUC.
		On("InvalidateSettlement", mockCtx, txHash).
		Return(domain.ErrNotFound)
	t.mockOffchainUC.
		On("InvalidateConfirmation", mockCtx, txHash).
		Return(domain.ErrNotFound)

	err := t.subject.HandleEvent(mockCtx, marketevent.Event{
		ConfirmationInvalidated: &marketevent.ConfirmationInvalidatedEvent{TxHash: txHash},
	})
	t.NoError(err)
	t.mockAuctionUC.AssertCalled(t.T(), "InvalidateSettlement", mockCtx, txHash)
}

func (t *testsuite) TestRunDrainsChannel() {
	t.mockListingUC.
		On("RecordSale", mockCtx, "listing-1", buyer, txHash, domain.BlockNumber(100)).
		Return(&listing.Listing{ListingId: "listing-1"}, nil)

	events := make(chan marketevent.Event, 1)
	events <- marketevent.Event{
		ItemSold: &marketevent.ItemSoldEvent{
			ListingId: "listing-1",
			Buyer:     buyer,
			Meta:      t.meta(),
		},
	}
	close(events)

	err := t.subject.Run(mockCtx, events)
	t.NoError(err)
	t.mockListingUC.AssertCalled(t.T(), "RecordSale", mockCtx, "listing-1", buyer, txHash, domain.BlockNumber(100))
}

func (t *testsuite) TestDecodeLogItemSold() {
	l := types.Log{
		Address:     common.HexToAddress("0x9999999999999999999999999999999999999999"),
		BlockNumber: 100,
		TxHash:      common.HexToHash("0xaa"),
		Topics: []common.Hash{
			itemSoldTopic,
			common.BigToHash(big.NewInt(42)),
			common.HexToHash("0x2222222222222222222222222222222222222222"),
		},
	}

	ev, ok := DecodeLog(l, time.Unix(1646136000, 0))
	t.True(ok)
	t.Require().NotNil(ev.ItemSold)
	t.Equal("42", ev.ItemSold.ListingId)
	t.Equal(buyer, ev.ItemSold.Buyer)
	t.Equal(domain.BlockNumber(100), ev.ItemSold.Meta.BlockNumber)
}

func (t *testsuite) TestDecodeLogRemovedBecomesInvalidation() {
	l := types.Log{
		TxHash:  common.HexToHash("0xaa"),
		Removed: true,
	}

	ev, ok := DecodeLog(l, time.Time{})
	t.True(ok)
	t.Require().NotNil(ev.ConfirmationInvalidated)
	t.Equal(domain.TxHash(common.HexToHash("0xaa").Hex()).ToLower(), ev.ConfirmationInvalidated.TxHash)
}

func (t *testsuite) TestDecodeLogUnknownTopic() {
	l := types.Log{
		Topics: []common.Hash{
			common.HexToHash("0x01"),
			common.HexToHash("0x02"),
			common.HexToHash("0x03"),
		},
	}

	_, ok := DecodeLog(l, time.Time{})
	t.False(ok)
}
