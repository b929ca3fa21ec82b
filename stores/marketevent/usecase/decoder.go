package usecase

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/domain/marketevent"
)

var (
	itemSoldTopic        = crypto.Keccak256Hash([]byte("ItemSold(uint256,address)"))
	listingCanceledTopic = crypto.Keccak256Hash([]byte("ListingCanceled(uint256,address)"))
	auctionResultedTopic = crypto.Keccak256Hash([]byte("AuctionResulted(uint256,address)"))
	auctionCanceledTopic = crypto.Keccak256Hash([]byte("AuctionCanceled(uint256,address)"))
	offerAcceptedTopic   = crypto.Keccak256Hash([]byte("OfferAccepted(uint256,address)"))
)

// DecodeLog maps a confirmed marketplace log to an event. A log the node
// marks Removed was dropped by a reorg and becomes an invalidation for its
// transaction hash. Logs from other contracts or with unknown topics
// return ok = false.
func DecodeLog(l types.Log, blockTime time.Time) (marketevent.Event, bool) {
	txHash := domain.TxHash(l.TxHash.Hex()).ToLower()

	if l.Removed {
		return marketevent.Event{
			ConfirmationInvalidated: &marketevent.ConfirmationInvalidatedEvent{TxHash: txHash},
		}, true
	}

	if len(l.Topics) < 3 {
		return marketevent.Event{}, false
	}

	meta := domain.LogMeta{
		BlockNumber:     domain.BlockNumber(l.BlockNumber),
		BlockTime:       blockTime,
		TxHash:          txHash,
		TxIndex:         l.TxIndex,
		LogIndex:        l.Index,
		ContractAddress: domain.Address(l.Address.Hex()).ToLower(),
		MsgSender:       topicAddress(l.Topics[2]),
	}
	entityId := topicId(l.Topics[1])

	switch l.Topics[0] {
	case itemSoldTopic:
		return marketevent.Event{
			ItemSold: &marketevent.ItemSoldEvent{
				ListingId: entityId,
				Buyer:     topicAddress(l.Topics[2]),
				Meta:      meta,
			},
		}, true
	case listingCanceledTopic:
		return marketevent.Event{
			ListingCanceled: &marketevent.ListingCanceledEvent{
				ListingId: entityId,
				Meta:      meta,
			},
		}, true
	case auctionResultedTopic:
		return marketevent.Event{
			AuctionResulted: &marketevent.AuctionResultedEvent{
				AuctionId: entityId,
				Winner:    topicAddress(l.Topics[2]),
				Meta:      meta,
			},
		}, true
	case auctionCanceledTopic:
		return marketevent.Event{
			AuctionCanceled: &marketevent.AuctionCanceledEvent{
				AuctionId: entityId,
				Meta:      meta,
			},
		}, true
	case offerAcceptedTopic:
		return marketevent.Event{
			OfferAccepted: &marketevent.OfferAcceptedEvent{
				OfferId: entityId,
				Meta:    meta,
			},
		}, true
	default:
		return marketevent.Event{}, false
	}
}

// entity ids are emitted as uint256 topics; render them in decimal to
// match the stored identifiers
func topicId(h common.Hash) string {
	return new(big.Int).SetBytes(h.Bytes()).String()
}

func topicAddress(h common.Hash) domain.Address {
	return domain.Address(common.BytesToAddress(h.Bytes()).Hex()).ToLower()
}
