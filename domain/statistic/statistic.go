package statistic

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
)

// MarketStats is a read-only rollup over the trading engine's tables; the
// aggregator never writes back.
type MarketStats struct {
	ListingCount       int    `json:"listingCount" bson:"listingCount"`
	ActiveListingCount int    `json:"activeListingCount" bson:"activeListingCount"`
	AuctionCount       int    `json:"auctionCount" bson:"auctionCount"`
	OfferCount         int    `json:"offerCount" bson:"offerCount"`
	SaleCount          int    `json:"saleCount" bson:"saleCount"`
	OffchainSaleCount  int    `json:"offchainSaleCount" bson:"offchainSaleCount"`
	Volume             string `json:"volume" bson:"volume"`
}

type FindOptions struct {
	After  *time.Time
	Before *time.Time
}

type FindOptionsFunc func(*FindOptions) error

func GetFindOptions(opts ...FindOptionsFunc) (FindOptions, error) {
	res := FindOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithAfter(t time.Time) FindOptionsFunc {
	return func(options *FindOptions) error {
		options.After = &t
		return nil
	}
}

func WithBefore(t time.Time) FindOptionsFunc {
	return func(options *FindOptions) error {
		options.Before = &t
		return nil
	}
}

type Repo interface {
	GetMarketStats(ctx ctx.Ctx, opts ...FindOptionsFunc) (*MarketStats, error)
}

type UseCase interface {
	GetMarketStats(ctx ctx.Ctx, opts ...FindOptionsFunc) (*MarketStats, error)
}
