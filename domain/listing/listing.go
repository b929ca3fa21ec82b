package listing

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

// Status is derived from stored flags and the clock, never stored itself.
type Status string

const (
	StatusActive      Status = "active"
	StatusPendingSale Status = "pendingSale"
	StatusSold        Status = "sold"
	StatusCancelled   Status = "cancelled"
	StatusExpired     Status = "expired"
)

type Listing struct {
	ListingId     string         `json:"listingId" bson:"listingId"`
	Seller        domain.Address `json:"seller" bson:"seller"`
	TokenContract domain.Address `json:"tokenContract" bson:"tokenContract"`
	TokenId       domain.TokenId `json:"tokenId" bson:"tokenId"`
	Price         string         `json:"price" bson:"price"`
	PaymentToken  domain.Address `json:"paymentToken" bson:"paymentToken"`
	IsActive      bool           `json:"isActive" bson:"isActive"`
	Cancelled     bool           `json:"cancelled" bson:"cancelled"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	ExpiresAt     time.Time      `json:"expiresAt" bson:"expiresAt"`

	// pending sale, set by Buy and cleared by RecordSale
	PendingBuyer *domain.Address `json:"pendingBuyer,omitempty" bson:"pendingBuyer,omitempty"`
	PendingAt    *time.Time      `json:"pendingAt,omitempty" bson:"pendingAt,omitempty"`

	// set if and only if the listing was sold
	Buyer       *domain.Address    `json:"buyer,omitempty" bson:"buyer,omitempty"`
	SelectedAt  *time.Time         `json:"selectedAt,omitempty" bson:"selectedAt,omitempty"`
	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`

	Metadata        string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	MetadataVersion int    `json:"metadataVersion,omitempty" bson:"metadataVersion,omitempty"`
}

func (l *Listing) ToId() Id {
	return Id{ListingId: l.ListingId}
}

func (l *Listing) IsExpired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

func (l *Listing) IsSold() bool {
	return l.Buyer != nil
}

func (l *Listing) IsPendingSale() bool {
	return l.PendingBuyer != nil && !l.IsSold()
}

// StatusAt derives the lifecycle state; exactly one status holds at any
// point in time.
func (l *Listing) StatusAt(now time.Time) Status {
	switch {
	case l.IsSold():
		return StatusSold
	case l.Cancelled:
		return StatusCancelled
	case l.IsExpired(now):
		return StatusExpired
	case l.IsPendingSale():
		return StatusPendingSale
	default:
		return StatusActive
	}
}

type Id struct {
	ListingId string `json:"listingId" bson:"listingId"`
}

type Patchable struct {
	IsActive     *bool               `json:"isActive" bson:"isActive,omitempty"`
	Cancelled    *bool               `json:"cancelled" bson:"cancelled,omitempty"`
	PendingBuyer *domain.Address     `json:"pendingBuyer" bson:"pendingBuyer,omitempty"`
	PendingAt    *time.Time          `json:"pendingAt" bson:"pendingAt,omitempty"`
	Buyer        *domain.Address     `json:"buyer" bson:"buyer,omitempty"`
	SelectedAt   *time.Time          `json:"selectedAt" bson:"selectedAt,omitempty"`
	TxHash       *domain.TxHash      `json:"txHash" bson:"txHash,omitempty"`
	BlockNumber  *domain.BlockNumber `json:"blockNumber" bson:"blockNumber,omitempty"`
}

type FindAllOptions struct {
	Seller        *domain.Address
	TokenContract *domain.Address
	TokenId       *domain.TokenId
	IsActive      *bool
	Cancelled     *bool
	TxHash        *domain.TxHash
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	OldestFirst   *bool
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

func WithCancelled(cancelled bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Cancelled = &cancelled
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

func WithCreatedAfter(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.CreatedAfter = &t
		return nil
	}
}

func WithCreatedBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.CreatedBefore = &t
		return nil
	}
}

func WithOldestFirst(oldestFirst bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OldestFirst = &oldestFirst
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Listing, error)
	Insert(ctx ctx.Ctx, listing *Listing) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	// RecordSale applies the sale confirmation patch and drops the
	// pending-sale markers in the same write.
	RecordSale(ctx ctx.Ctx, id Id, patchable Patchable) error
	// ClearSale removes the sale confirmation fields and reactivates the
	// listing, restoring its pre-confirmation state after a reorg.
	ClearSale(ctx ctx.Ctx, id Id) error
}

type CreateListingReq struct {
	Seller        domain.Address `json:"seller" validate:"required"`
	TokenContract domain.Address `json:"tokenContract" validate:"required"`
	TokenId       domain.TokenId `json:"tokenId" validate:"required"`
	Price         string         `json:"price" validate:"required"`
	PaymentToken  domain.Address `json:"paymentToken" validate:"required"`
	Duration      time.Duration  `json:"duration" validate:"required"`
}

type UseCase interface {
	CreateListing(ctx ctx.Ctx, req CreateListingReq) (*Listing, error)
	CancelListing(ctx ctx.Ctx, listingId string, requester domain.Address) (*Listing, error)
	Buy(ctx ctx.Ctx, listingId string, buyer domain.Address) (*Listing, error)
	RecordSale(ctx ctx.Ctx, listingId string, buyer domain.Address, txHash domain.TxHash, blockNumber domain.BlockNumber) (*Listing, error)
	InvalidateSale(ctx ctx.Ctx, txHash domain.TxHash) error
	Get(ctx ctx.Ctx, listingId string) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
}
