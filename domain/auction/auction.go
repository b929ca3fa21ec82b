package auction

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

type Status string

const (
	StatusActive        Status = "active"
	StatusCancelled     Status = "cancelled"
	StatusEndedWithSale Status = "endedWithSale"
	StatusEndedNoSale   Status = "endedNoSale"
	StatusPendingEnd    Status = "pendingEnd" // past endTime, endAuction not yet called
)

type Auction struct {
	AuctionId     string         `json:"auctionId" bson:"auctionId"`
	Seller        domain.Address `json:"seller" bson:"seller"`
	TokenContract domain.Address `json:"tokenContract" bson:"tokenContract"`
	TokenId       domain.TokenId `json:"tokenId" bson:"tokenId"`
	StartingPrice string         `json:"startingPrice" bson:"startingPrice"`
	ReservePrice  string         `json:"reservePrice" bson:"reservePrice"`
	PaymentToken  domain.Address `json:"paymentToken" bson:"paymentToken"`
	StartTime     time.Time      `json:"startTime" bson:"startTime"`
	EndTime       time.Time      `json:"endTime" bson:"endTime"`
	IsActive      bool           `json:"isActive" bson:"isActive"`
	Cancelled     bool           `json:"cancelled" bson:"cancelled"`

	// highestBid is monotonically non-decreasing for the life of the
	// auction and always equals the amount of the single active bid.
	HighestBidder domain.Address `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	HighestBid    string         `json:"highestBid" bson:"highestBid"`
	BidCount      int            `json:"bidCount" bson:"bidCount"`

	// set once the auction has ended
	EndedWithSale *bool      `json:"endedWithSale,omitempty" bson:"endedWithSale,omitempty"`
	SelectedAt    *time.Time `json:"selectedAt,omitempty" bson:"selectedAt,omitempty"`

	// on-chain settlement confirmation
	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`

	Metadata        string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	MetadataVersion int    `json:"metadataVersion,omitempty" bson:"metadataVersion,omitempty"`
}

func (a *Auction) ToId() Id {
	return Id{AuctionId: a.AuctionId}
}

func (a *Auction) HasEnded() bool {
	return a.EndedWithSale != nil
}

// PastDeadline reports whether the auction deadline has passed. Readers
// must treat a past-deadline auction as ended even before endAuction is
// called; the deadline is passive, not a timer.
func (a *Auction) PastDeadline(now time.Time) bool {
	return !a.EndTime.After(now)
}

func (a *Auction) StatusAt(now time.Time) Status {
	switch {
	case a.Cancelled:
		return StatusCancelled
	case a.HasEnded() && *a.EndedWithSale:
		return StatusEndedWithSale
	case a.HasEnded():
		return StatusEndedNoSale
	case a.PastDeadline(now):
		return StatusPendingEnd
	default:
		return StatusActive
	}
}

type Id struct {
	AuctionId string `json:"auctionId" bson:"auctionId"`
}

type Patchable struct {
	IsActive      *bool               `json:"isActive" bson:"isActive,omitempty"`
	Cancelled     *bool               `json:"cancelled" bson:"cancelled,omitempty"`
	HighestBidder *domain.Address     `json:"highestBidder" bson:"highestBidder,omitempty"`
	HighestBid    *string             `json:"highestBid" bson:"highestBid,omitempty"`
	BidCount      *int                `json:"bidCount" bson:"bidCount,omitempty"`
	EndedWithSale *bool               `json:"endedWithSale" bson:"endedWithSale,omitempty"`
	SelectedAt    *time.Time          `json:"selectedAt" bson:"selectedAt,omitempty"`
	TxHash        *domain.TxHash      `json:"txHash" bson:"txHash,omitempty"`
	BlockNumber   *domain.BlockNumber `json:"blockNumber" bson:"blockNumber,omitempty"`
}

type FindAllOptions struct {
	Seller        *domain.Address
	TokenContract *domain.Address
	TokenId       *domain.TokenId
	IsActive      *bool
	TxHash        *domain.TxHash
	EndTimeAfter  *time.Time
	EndTimeBefore *time.Time
	Offset        *int32
	Limit         *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithToken(contract domain.Address, tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenContract = contract.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func WithIsActive(isActive bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IsActive = &isActive
		return nil
	}
}

func WithTxHash(txHash domain.TxHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		h := txHash.ToLower()
		options.TxHash = &h
		return nil
	}
}

func WithEndTimeAfter(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeAfter = &t
		return nil
	}
}

func WithEndTimeBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeBefore = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Auction, error)
	Insert(ctx ctx.Ctx, auction *Auction) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	// ClearSettlement removes the on-chain confirmation fields after a
	// reorg; the auction stays ended.
	ClearSettlement(ctx ctx.Ctx, id Id) error
}

type CreateAuctionReq struct {
	Seller        domain.Address `json:"seller" validate:"required"`
	TokenContract domain.Address `json:"tokenContract" validate:"required"`
	TokenId       domain.TokenId `json:"tokenId" validate:"required"`
	StartingPrice string         `json:"startingPrice" validate:"required"`
	ReservePrice  string         `json:"reservePrice" validate:"required"`
	PaymentToken  domain.Address `json:"paymentToken" validate:"required"`
	Duration      time.Duration  `json:"duration" validate:"required"`
}

type UseCase interface {
	CreateAuction(ctx ctx.Ctx, req CreateAuctionReq) (*Auction, error)
	PlaceBid(ctx ctx.Ctx, auctionId string, bidder domain.Address, amount string, txHash domain.TxHash) (*Bid, error)
	EndAuction(ctx ctx.Ctx, auctionId string, finalizer domain.Address) (*Auction, error)
	// ResultAuction ends an auction on chain confirmation, regardless of
	// the local clock.
	ResultAuction(ctx ctx.Ctx, auctionId string, finalizer domain.Address) (*Auction, error)
	CancelAuction(ctx ctx.Ctx, auctionId string, requester domain.Address) (*Auction, error)
	RecordSettlement(ctx ctx.Ctx, auctionId string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*Auction, error)
	InvalidateSettlement(ctx ctx.Ctx, txHash domain.TxHash) error
	Get(ctx ctx.Ctx, auctionId string) (*Auction, error)
	GetBids(ctx ctx.Ctx, auctionId string) ([]*Bid, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
}
