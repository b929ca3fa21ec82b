package offer

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type Offer struct {
	OfferId     string         `json:"offerId" bson:"offerId"`
	DomainOwner domain.Address `json:"domainOwner" bson:"domainOwner"`
	OfferMaker  domain.Address `json:"offerMaker" bson:"offerMaker"`
	TokenId     domain.TokenId `json:"tokenId" bson:"tokenId"`
	Price       string         `json:"price" bson:"price"`
	OfferedAt   time.Time      `json:"offeredAt" bson:"offeredAt"`
	OfferUntil  time.Time      `json:"offerUntil" bson:"offerUntil"`

	// selectedAt and cancelled are mutually exclusive
	SelectedAt   *time.Time `json:"selectedAt,omitempty" bson:"selectedAt,omitempty"`
	Cancelled    bool       `json:"cancelled" bson:"cancelled"`
	CancelReason string     `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`

	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`

	Metadata        string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	MetadataVersion int    `json:"metadataVersion,omitempty" bson:"metadataVersion,omitempty"`
}

func (o *Offer) ToId() Id {
	return Id{OfferId: o.OfferId}
}

func (o *Offer) IsAccepted() bool {
	return o.SelectedAt != nil
}

// IsTerminal reports whether the offer can no longer transition.
func (o *Offer) IsTerminal(now time.Time) bool {
	return o.IsAccepted() || o.Cancelled || o.IsExpired(now)
}

// IsExpired is derived at read time, never stored.
func (o *Offer) IsExpired(now time.Time) bool {
	return !o.OfferUntil.After(now) && !o.IsAccepted() && !o.Cancelled
}

func (o *Offer) StatusAt(now time.Time) Status {
	switch {
	case o.IsAccepted():
		return StatusAccepted
	case o.Cancelled:
		return StatusCancelled
	case o.IsExpired(now):
		return StatusExpired
	default:
		return StatusOpen
	}
}

type Id struct {
	OfferId string `json:"offerId" bson:"offerId"`
}

type Patchable struct {
	SelectedAt   *time.Time          `json:"selectedAt" bson:"selectedAt,omitempty"`
	Cancelled    *bool               `json:"cancelled" bson:"cancelled,omitempty"`
	CancelReason *string             `json:"cancelReason" bson:"cancelReason,omitempty"`
	CancelledAt  *time.Time          `json:"cancelledAt" bson:"cancelledAt,omitempty"`
	TxHash       *domain.TxHash      `json:"txHash" bson:"txHash,omitempty"`
	BlockNumber  *domain.BlockNumber `json:"blockNumber" bson:"blockNumber,omitempty"`
}

type FindAllOptions struct {
	DomainOwner   *domain.Address
	OfferMaker    *domain.Address
	TokenId       *domain.TokenId
	TxHash        *domain.TxHash
	OfferedAfter  *time.Time
	OfferedBefore *time.Time
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

func WithDomainOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.DomainOwner = owner.ToLowerPtr()
		return nil
	}
}

func WithOfferMaker(maker domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OfferMaker = maker.ToLowerPtr()
		return nil
	}
}

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
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

func WithOfferedAfter(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OfferedAfter = &t
		return nil
	}
}

func WithOfferedBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OfferedBefore = &t
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Offer, error)
	Insert(ctx ctx.Ctx, offer *Offer) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	// ClearSettlement removes the on-chain confirmation fields after a
	// reorg; the offer stays accepted.
	ClearSettlement(ctx ctx.Ctx, id Id) error
}

type MakeOfferReq struct {
	DomainOwner domain.Address `json:"domainOwner" validate:"required"`
	OfferMaker  domain.Address `json:"offerMaker" validate:"required"`
	TokenId     domain.TokenId `json:"tokenId" validate:"required"`
	Price       string         `json:"price" validate:"required"`
	OfferUntil  time.Time      `json:"offerUntil" validate:"required"`
}

// RejectResult reports the outcome for one offer of a bulk rejection.
// Bulk rejection is best effort; already terminal offers are skipped.
type RejectResult struct {
	OfferId  string `json:"offerId"`
	Rejected bool   `json:"rejected"`
	Skipped  string `json:"skipped,omitempty"`
}

type UseCase interface {
	MakeOffer(ctx ctx.Ctx, req MakeOfferReq) (*Offer, error)
	AcceptOffer(ctx ctx.Ctx, offerId string, acceptor domain.Address) (*Offer, error)
	RejectOffers(ctx ctx.Ctx, offerIds []string, reason string) ([]RejectResult, error)
	RecordSettlement(ctx ctx.Ctx, offerId string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*Offer, error)
	InvalidateSettlement(ctx ctx.Ctx, txHash domain.TxHash) error
	Get(ctx ctx.Ctx, offerId string) (*Offer, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
}
