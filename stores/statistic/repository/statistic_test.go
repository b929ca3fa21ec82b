package repository

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/statistic"
	"github.com/domaindao/goapi/service/query"
	mockQuery "github.com/domaindao/goapi/service/query/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockQuery *mockQuery.Mongo
	subject   statistic.Repo
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockQuery = &mockQuery.Mongo{}
	t.subject = New(t.mockQuery, nil)
}

func (t *testsuite) volumeIter(table domain.Table, volume string) *query.Iter {
	dec, err := primitive.ParseDecimal128(volume)
	t.Require().NoError(err)
	cursor, err := mongo.NewCursorFromDocuments([]interface{}{
		bson.D{{Key: "volume", Value: dec}},
	}, nil, nil)
	t.Require().NoError(err)
	return query.NewIter(cursor, table)
}

func (t *testsuite) expectCounts() {
	t.mockQuery.On("Count", mockCtx, domain.TableListings, bson.M{}).Return(7, nil)
	t.mockQuery.On("Count", mockCtx, domain.TableListings, bson.M{"isActive": true}).Return(3, nil)
	t.mockQuery.On("Count", mockCtx, domain.TableAuctions, bson.M{}).Return(2, nil)
	t.mockQuery.On("Count", mockCtx, domain.TableOffers, bson.M{}).Return(4, nil)
	t.mockQuery.On("Count", mockCtx, domain.TableListings, bson.M{"buyer": bson.M{"$exists": true}}).Return(2, nil)
	t.mockQuery.On("Count", mockCtx, domain.TableOffchainTransactions, bson.M{}).Return(1, nil)
}

func (t *testsuite) TestGetMarketStats() {
	t.expectCounts()

	fnClose := func() {}
	t.mockQuery.
		On("Pipe", mockCtx, domain.TableListings, []bson.M{
			{"$match": bson.M{"buyer": bson.M{"$exists": true}}},
			{"$group": bson.M{"_id": nil, "volume": bson.M{"$sum": bson.M{"$toDecimal": "$price"}}}},
		}).
		Return(t.volumeIter(domain.TableListings, "10"), fnClose, nil)
	t.mockQuery.
		On("Pipe", mockCtx, domain.TableAuctions, []bson.M{
			{"$match": bson.M{"endedWithSale": true, "txHash": bson.M{"$exists": true}}},
			{"$group": bson.M{"_id": nil, "volume": bson.M{"$sum": bson.M{"$toDecimal": "$highestBid"}}}},
		}).
		Return(t.volumeIter(domain.TableAuctions, "5"), fnClose, nil)
	t.mockQuery.
		On("Pipe", mockCtx, domain.TableOffchainTransactions, []bson.M{
			{"$match": bson.M{}},
			{"$group": bson.M{"_id": nil, "volume": bson.M{"$sum": bson.M{"$toDecimal": "$amount"}}}},
		}).
		Return(t.volumeIter(domain.TableOffchainTransactions, "2.5"), fnClose, nil)

	res, err := t.subject.GetMarketStats(mockCtx)
	t.NoError(err)
	t.Equal(&statistic.MarketStats{
		ListingCount:       7,
		ActiveListingCount: 3,
		AuctionCount:       2,
		OfferCount:         4,
		SaleCount:          2,
		OffchainSaleCount:  1,
		Volume:             "17.5",
	}, res)
}

func (t *testsuite) TestGetMarketStatsCachesResult() {
	t.expectCounts()

	fnClose := func() {}
	for _, table := range []domain.Table{
		domain.TableListings,
		domain.TableAuctions,
		domain.TableOffchainTransactions,
	} {
		table := table
		t.mockQuery.
			On("Pipe", mockCtx, table, mock.Anything).
			Return(t.volumeIter(table, "1"), fnClose, nil).
			Once()
	}

	first, err := t.subject.GetMarketStats(mockCtx)
	t.NoError(err)

	second, err := t.subject.GetMarketStats(mockCtx)
	t.NoError(err)
	t.Equal(first, second)
	t.mockQuery.AssertNumberOfCalls(t.T(), "Count", 6)
}
