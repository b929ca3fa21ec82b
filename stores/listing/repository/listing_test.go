package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/ptr"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/listing"
	"github.com/domaindao/goapi/service/query"
	mockQuery "github.com/domaindao/goapi/service/query/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockQuery *mockQuery.Mongo
	subject   listing.Repo
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockQuery = &mockQuery.Mongo{}
	t.subject = NewListingRepo(t.mockQuery)
}

func (t *testsuite) salePatch(now time.Time, buyer domain.Address, hash domain.TxHash, blockNumber domain.BlockNumber) listing.Patchable {
	return listing.Patchable{
		IsActive:    ptr.Bool(false),
		Buyer:       &buyer,
		SelectedAt:  &now,
		TxHash:      &hash,
		BlockNumber: &blockNumber,
	}
}

func (t *testsuite) TestRecordSaleUnsetsPendingMarkers() {
	now := time.Now()
	buyer := domain.Address("0xbuyer")
	hash := domain.TxHash("0xaa")
	blockNumber := domain.BlockNumber(100)

	t.mockQuery.
		On("CustomPatch", mockCtx, domain.TableListings,
			bson.M{"listingId": "listing-1"},
			bson.M{
				"$set": bson.M{
					"isActive":    false,
					"buyer":       buyer,
					"selectedAt":  now,
					"txHash":      hash,
					"blockNumber": blockNumber,
				},
				"$unset": bson.M{"pendingBuyer": "", "pendingAt": ""},
			}, false).
		Return(nil)

	err := t.subject.RecordSale(mockCtx, listing.Id{ListingId: "listing-1"}, t.salePatch(now, buyer, hash, blockNumber))
	t.NoError(err)
	t.mockQuery.AssertExpectations(t.T())
}

func (t *testsuite) TestRecordSaleUnknownListing() {
	now := time.Now()

	t.mockQuery.
		On("CustomPatch", mockCtx, domain.TableListings,
			bson.M{"listingId": "listing-x"},
			bson.M{
				"$set": bson.M{
					"isActive":    false,
					"buyer":       domain.Address("0xbuyer"),
					"selectedAt":  now,
					"txHash":      domain.TxHash("0xaa"),
					"blockNumber": domain.BlockNumber(100),
				},
				"$unset": bson.M{"pendingBuyer": "", "pendingAt": ""},
			}, false).
		Return(query.ErrNotFound)

	err := t.subject.RecordSale(mockCtx, listing.Id{ListingId: "listing-x"}, t.salePatch(now, "0xbuyer", "0xaa", 100))
	t.ErrorIs(err, domain.ErrNotFound)
}
