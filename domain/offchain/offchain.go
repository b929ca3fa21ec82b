package offchain

import (
	"time"

	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

// Transaction is a trade settled by a signed authorization instead of a
// direct marketplace-contract call. TxHash and BlockNumber arrive later,
// when a buyer or relayer mines the settlement transaction; until then the
// record is signed but not chain-confirmed.
type Transaction struct {
	Id        string         `json:"id" bson:"id"`
	TokenId   domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	Buyer     domain.Address `json:"buyer" bson:"buyer"`
	Amount    string         `json:"amount" bson:"amount"`
	SoldAt    time.Time      `json:"soldAt" bson:"soldAt"`
	Signature string         `json:"signature" bson:"signature"`

	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`
}

func (t *Transaction) ToId() Id {
	return Id{Id: t.Id}
}

// Confirmed reports whether the settlement transaction has been mined.
// Callers needing finality must check this; an unconfirmed record is a
// valid sale with a weaker guarantee.
func (t *Transaction) Confirmed() bool {
	return !t.TxHash.IsEmpty()
}

type Id struct {
	Id string `json:"id" bson:"id"`
}

type Patchable struct {
	TxHash      *domain.TxHash      `json:"txHash" bson:"txHash,omitempty"`
	BlockNumber *domain.BlockNumber `json:"blockNumber" bson:"blockNumber,omitempty"`
}

type FindAllOptions struct {
	TokenId    *domain.TokenId
	Seller     *domain.Address
	Buyer      *domain.Address
	TxHash     *domain.TxHash
	SoldAfter  *time.Time
	SoldBefore *time.Time
	Offset     *int32
	Limit      *int32
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

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithBuyer(buyer domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Buyer = buyer.ToLowerPtr()
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

func WithSoldAfter(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SoldAfter = &t
		return nil
	}
}

func WithSoldBefore(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SoldBefore = &t
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Transaction, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Transaction, error)
	Insert(ctx ctx.Ctx, tx *Transaction) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	// ClearConfirmation removes the settlement confirmation after a reorg;
	// the record drops back to signed but not chain-confirmed.
	ClearConfirmation(ctx ctx.Ctx, id Id) error
}

type SettleReq struct {
	TokenId   domain.TokenId `json:"tokenId" validate:"required"`
	Seller    domain.Address `json:"seller" validate:"required"`
	Buyer     domain.Address `json:"buyer" validate:"required"`
	Amount    string         `json:"amount" validate:"required"`
	Signature string         `json:"signature" validate:"required"`

	// exactly one of ListingId/OfferId names the record being settled
	ListingId string `json:"listingId,omitempty"`
	OfferId   string `json:"offerId,omitempty"`
}

type UseCase interface {
	VerifyAndSettle(ctx ctx.Ctx, req SettleReq) (*Transaction, error)
	AttachTxHash(ctx ctx.Ctx, id string, txHash domain.TxHash, blockNumber domain.BlockNumber) (*Transaction, error)
	InvalidateConfirmation(ctx ctx.Ctx, txHash domain.TxHash) error
	Get(ctx ctx.Ctx, id string) (*Transaction, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Transaction, error)
}
