package marketevent

import (
	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

// Confirmed on-chain events consumed by the ingestor. Every event carries
// the transaction hash used as the idempotency key for the write it
// confirms, so duplicate delivery and reorg replays are safe.

type ItemSoldEvent struct {
	ListingId string
	Buyer     domain.Address
	Meta      domain.LogMeta
}

type ListingCanceledEvent struct {
	ListingId string
	Meta      domain.LogMeta
}

type AuctionResultedEvent struct {
	AuctionId string
	Winner    domain.Address
	Meta      domain.LogMeta
}

type AuctionCanceledEvent struct {
	AuctionId string
	Meta      domain.LogMeta
}

type OfferAcceptedEvent struct {
	OfferId string
	Meta    domain.LogMeta
}

// ConfirmationInvalidatedEvent signals that a reorg dropped a previously
// confirmed transaction; the affected entity must be rolled back to its
// pre-confirmation state.
type ConfirmationInvalidatedEvent struct {
	TxHash domain.TxHash
}

// Event is a tagged union; exactly one field is non-nil.
type Event struct {
	ItemSold                *ItemSoldEvent
	ListingCanceled         *ListingCanceledEvent
	AuctionResulted         *AuctionResultedEvent
	AuctionCanceled         *AuctionCanceledEvent
	OfferAccepted           *OfferAcceptedEvent
	ConfirmationInvalidated *ConfirmationInvalidatedEvent
}

type UseCase interface {
	// HandleEvent applies one confirmed event. Unknown entities and
	// duplicate confirmations are absorbed, not returned as errors.
	HandleEvent(ctx ctx.Ctx, ev Event) error

	// Run consumes events until the channel is closed or the context is
	// cancelled.
	Run(ctx ctx.Ctx, events <-chan Event) error
}
