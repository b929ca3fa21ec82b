package auction

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

// Bid is one entry of the append-only bid ledger. A bid is never deleted;
// it is superseded by flipping IsActive off when a higher bid lands. For a
// given auction at most one bid is active and its amount equals the
// auction's highestBid.
type Bid struct {
	BidId       string             `json:"bidId" bson:"bidId"`
	AuctionId   string             `json:"auctionId" bson:"auctionId"`
	Bidder      domain.Address     `json:"bidder" bson:"bidder"`
	Amount      string             `json:"amount" bson:"amount"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`
}

func (b *Bid) ToId() BidId {
	return BidId{BidId: b.BidId}
}

type BidId struct {
	BidId string `json:"bidId" bson:"bidId"`
}

type BidPatchable struct {
	IsActive *bool `json:"isActive" bson:"isActive,omitempty"`
}

type BidFindAllOptions struct {
	AuctionId *string
	Bidder    *domain.Address
	IsActive  *bool
	Offset    *int32
	Limit     *int32
}

type BidFindAllOptionsFunc func(*BidFindAllOptions) error

func GetBidFindAllOptions(opts ...BidFindAllOptionsFunc) (BidFindAllOptions, error) {
	res := BidFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func BidWithAuctionId(auctionId string) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.AuctionId = &auctionId
		return nil
	}
}

func BidWithBidder(bidder domain.Address) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.Bidder = bidder.ToLowerPtr()
		return nil
	}
}

func BidWithIsActive(isActive bool) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.IsActive = &isActive
		return nil
	}
}

func BidWithPagination(offset, limit int32) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type BidRepo interface {
	FindAll(ctx ctx.Ctx, opts ...BidFindAllOptionsFunc) ([]*Bid, error)
	Count(ctx ctx.Ctx, opts ...BidFindAllOptionsFunc) (int, error)
	Insert(ctx ctx.Ctx, bid *Bid) error
	Update(ctx ctx.Ctx, id BidId, patchable BidPatchable) error
}
