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
	"github.com/domaindao/goapi/domain/offer"
	mockOffer "github.com/domaindao/goapi/domain/offer/mocks"
)

var (
	mockCtx = ctx.Background()

	owner   = domain.Address("0x1111111111111111111111111111111111111111")
	maker   = domain.Address("0x2222222222222222222222222222222222222222")
	tokenId = domain.TokenId("42")
)

type testsuite struct {
	suite.Suite
	mockRepo *mockOffer.Repo
	subject  *impl
	now      time.Time
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockOffer.Repo{}
	t.subject = &impl{
		offerRepo: t.mockRepo,
		locks:     keymutex.New(8),
	}
	t.now = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return t.now }
}

func (t *testsuite) openOffer() *offer.Offer {
	return &offer.Offer{
		OfferId:     "offer-1",
		DomainOwner: owner,
		OfferMaker:  maker,
		TokenId:     tokenId,
		Price:       "2",
		OfferedAt:   t.now.Add(-time.Hour),
		OfferUntil:  t.now.Add(10 * time.Minute),
	}
}

func (t *testsuite) TestMakeOffer() {
	t.mockRepo.
		On("Insert", mockCtx, mock.Anything).
		Return(nil)

	res, err := t.subject.MakeOffer(mockCtx, offer.MakeOfferReq{
		DomainOwner: owner,
		OfferMaker:  maker,
		TokenId:     tokenId,
		Price:       "2.0",
		OfferUntil:  t.now.Add(10 * time.Minute),
	})
	t.NoError(err)
	t.Equal("2", res.Price)
	t.Equal(offer.StatusOpen, res.StatusAt(t.now))
}

func (t *testsuite) TestMakeOfferExpirationInPast() {
	_, err := t.subject.MakeOffer(mockCtx, offer.MakeOfferReq{
		DomainOwner: owner,
		OfferMaker:  maker,
		TokenId:     tokenId,
		Price:       "2",
		OfferUntil:  t.now.Add(-time.Minute),
	})
	t.ErrorIs(err, domain.ErrInvalidExpiration)
	t.mockRepo.AssertNotCalled(t.T(), "Insert", mockCtx, mock.Anything)
}

func (t *testsuite) TestAcceptOffer() {
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(t.openOffer(), nil)
	t.mockRepo.
		On("Update", mockCtx, offer.Id{OfferId: "offer-1"}, offer.Patchable{
			SelectedAt: &t.now,
		}).
		Return(nil)

	res, err := t.subject.AcceptOffer(mockCtx, "offer-1", owner)
	t.NoError(err)
	t.True(res.IsAccepted())
}

func (t *testsuite) TestAcceptOfferNotOwner() {
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(t.openOffer(), nil)

	_, err := t.subject.AcceptOffer(mockCtx, "offer-1", maker)
	t.ErrorIs(err, domain.ErrNotOwner)
}

func (t *testsuite) TestAcceptExpiredOffer() {
	o := t.openOffer()
	o.OfferUntil = t.now.Add(-time.Minute)

	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)

	_, err := t.subject.AcceptOffer(mockCtx, "offer-1", owner)
	t.ErrorIs(err, domain.ErrOfferExpired)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestAcceptRejectedOffer() {
	o := t.openOffer()
	o.Cancelled = true
	o.CancelReason = "rejected"
	o.CancelledAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)

	_, err := t.subject.AcceptOffer(mockCtx, "offer-1", owner)
	t.ErrorIs(err, domain.ErrOfferTerminal)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mockCtx, mock.Anything, mock.Anything)
}

func (t *testsuite) TestRejectOffers() {
	reason := "listing sold"
	accepted := t.openOffer()
	accepted.OfferId = "offer-2"
	accepted.SelectedAt = &t.now

	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(t.openOffer(), nil)
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-2"}).
		Return(accepted, nil)
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-3"}).
		Return(nil, domain.ErrNotFound)
	t.mockRepo.
		On("Update", mockCtx, offer.Id{OfferId: "offer-1"}, offer.Patchable{
			Cancelled:    ptr.Bool(true),
			CancelReason: &reason,
			CancelledAt:  &t.now,
		}).
		Return(nil)

	res, err := t.subject.RejectOffers(mockCtx, []string{"offer-1", "offer-2", "offer-3"}, reason)
	t.NoError(err)
	t.Len(res, 3)
	t.True(res[0].Rejected)
	t.False(res[1].Rejected)
	t.Equal("accepted", res[1].Skipped)
	t.False(res[2].Rejected)
	t.Equal("not found", res[2].Skipped)
}

func (t *testsuite) TestRecordSettlement() {
	o := t.openOffer()
	o.SelectedAt = &t.now

	hash := domain.TxHash("0xaa")
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)
	t.mockRepo.
		On("Update", mockCtx, offer.Id{OfferId: "offer-1"}, offer.Patchable{
			TxHash:      &hash,
			BlockNumber: ptrBlockNumber(100),
		}).
		Return(nil)

	res, err := t.subject.RecordSettlement(mockCtx, "offer-1", "0xAA", 100)
	t.NoError(err)
	t.Equal(domain.TxHash("0xaa"), res.TxHash)
}

func (t *testsuite) TestRecordSettlementNotAccepted() {
	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(t.openOffer(), nil)

	_, err := t.subject.RecordSettlement(mockCtx, "offer-1", "0xaa", 100)
	t.ErrorIs(err, domain.ErrOfferNotAccepted)
}

func (t *testsuite) TestRecordSettlementHashMismatch() {
	o := t.openOffer()
	o.SelectedAt = &t.now
	o.TxHash = "0xaa"
	o.BlockNumber = 100

	t.mockRepo.
		On("FindOne", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(o, nil)

	_, err := t.subject.RecordSettlement(mockCtx, "offer-1", "0xbb", 101)
	t.ErrorIs(err, domain.ErrHashMismatch)
}

func (t *testsuite) TestInvalidateSettlement() {
	o := t.openOffer()
	o.SelectedAt = &t.now
	o.TxHash = "0xaa"

	t.mockRepo.
		On("FindAll", mockCtx, mock.Anything).
		Return([]*offer.Offer{o}, nil)
	t.mockRepo.
		On("ClearSettlement", mockCtx, offer.Id{OfferId: "offer-1"}).
		Return(nil)

	err := t.subject.InvalidateSettlement(mockCtx, "0xAA")
	t.NoError(err)
	t.mockRepo.AssertCalled(t.T(), "ClearSettlement", mockCtx, offer.Id{OfferId: "offer-1"})
}

func ptrBlockNumber(n domain.BlockNumber) *domain.BlockNumber {
	return &n
}
