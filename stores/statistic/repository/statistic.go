package repository

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/base/log"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/keys"
	"github.com/domaindao/goapi/domain/statistic"
	"github.com/domaindao/goapi/service/cache"
	"github.com/domaindao/goapi/service/cache/provider"
	"github.com/domaindao/goapi/service/cache/provider/compound"
	primitiveCache "github.com/domaindao/goapi/service/cache/provider/primitive"
	redisCache "github.com/domaindao/goapi/service/cache/provider/redis"
	"github.com/domaindao/goapi/service/query"
	"github.com/domaindao/goapi/service/redis"
)

type impl struct {
	q          query.Mongo
	statsCache cache.Service
}

func New(q query.Mongo, redis redis.Service) statistic.Repo {
	cacheProviders := []provider.Provider{
		primitiveCache.NewPrimitive(keys.PfxMarketStats, 16),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		q: q,
		statsCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   keys.PfxMarketStats,
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) GetMarketStats(ctx ctx.Ctx, opts ...statistic.FindOptionsFunc) (*statistic.MarketStats, error) {
	options, err := statistic.GetFindOptions(opts...)
	if err != nil {
		return nil, err
	}

	res := &statistic.MarketStats{}
	key := cacheKey(options)
	if err := im.statsCache.GetByFunc(ctx, key, res, func() (interface{}, error) {
		return im.getMarketStats(ctx, options)
	}); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"key": key,
		}).Error("statsCache.GetByFunc failed")
		return nil, err
	}

	return res, nil
}

func cacheKey(options statistic.FindOptions) string {
	after, before := "-", "-"
	if options.After != nil {
		after = strconv.FormatInt(options.After.Unix(), 10)
	}
	if options.Before != nil {
		before = strconv.FormatInt(options.Before.Unix(), 10)
	}
	return keys.RedisKey(after, before)
}

func (im *impl) getMarketStats(ctx ctx.Ctx, options statistic.FindOptions) (*statistic.MarketStats, error) {
	res := &statistic.MarketStats{}

	listingRange := timeRange("createdAt", options)
	listingCount, err := im.q.Count(ctx, domain.TableListings, listingRange)
	if err != nil {
		return nil, err
	}
	res.ListingCount = listingCount

	activeFilter := bson.M{"isActive": true}
	for k, v := range listingRange {
		activeFilter[k] = v
	}
	activeCount, err := im.q.Count(ctx, domain.TableListings, activeFilter)
	if err != nil {
		return nil, err
	}
	res.ActiveListingCount = activeCount

	auctionCount, err := im.q.Count(ctx, domain.TableAuctions, timeRange("startTime", options))
	if err != nil {
		return nil, err
	}
	res.AuctionCount = auctionCount

	offerCount, err := im.q.Count(ctx, domain.TableOffers, timeRange("offeredAt", options))
	if err != nil {
		return nil, err
	}
	res.OfferCount = offerCount

	saleFilter := timeRange("selectedAt", options)
	saleFilter["buyer"] = bson.M{"$exists": true}
	saleCount, err := im.q.Count(ctx, domain.TableListings, saleFilter)
	if err != nil {
		return nil, err
	}
	res.SaleCount = saleCount

	offchainFilter := timeRange("soldAt", options)
	offchainCount, err := im.q.Count(ctx, domain.TableOffchainTransactions, offchainFilter)
	if err != nil {
		return nil, err
	}
	res.OffchainSaleCount = offchainCount

	saleVolume, err := im.sumVolume(ctx, domain.TableListings, saleFilter, "$price")
	if err != nil {
		return nil, err
	}

	auctionSaleFilter := timeRange("selectedAt", options)
	auctionSaleFilter["endedWithSale"] = true
	auctionSaleFilter["txHash"] = bson.M{"$exists": true}
	auctionVolume, err := im.sumVolume(ctx, domain.TableAuctions, auctionSaleFilter, "$highestBid")
	if err != nil {
		return nil, err
	}

	offchainVolume, err := im.sumVolume(ctx, domain.TableOffchainTransactions, offchainFilter, "$amount")
	if err != nil {
		return nil, err
	}
	res.Volume = saleVolume.Add(auctionVolume).Add(offchainVolume).String()

	return res, nil
}

func (im *impl) sumVolume(ctx ctx.Ctx, table domain.Table, match bson.M, field string) (decimal.Decimal, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":    nil,
			"volume": bson.M{"$sum": bson.M{"$toDecimal": field}},
		}},
	}

	iter, fnClose, err := im.q.Pipe(ctx, table, pipeline)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"table": table,
		}).Error("failed to q.Pipe")
		return decimal.Zero, err
	}
	defer fnClose()

	row := struct {
		Volume primitive.Decimal128 `bson:"volume"`
	}{}
	ok, err := iter.Next(ctx, &row)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		// no matching documents in range
		return decimal.Zero, nil
	}

	volume, err := decimal.NewFromString(row.Volume.String())
	if err != nil {
		return decimal.Zero, domain.ErrInvalidNumberFormat
	}
	return volume, nil
}

func timeRange(field string, options statistic.FindOptions) bson.M {
	rangeQuery := bson.M{}
	if options.After != nil {
		rangeQuery["$gt"] = *options.After
	}
	if options.Before != nil {
		rangeQuery["$lt"] = *options.Before
	}
	if len(rangeQuery) == 0 {
		return bson.M{}
	}
	return bson.M{field: rangeQuery}
}
