package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")

	// validation errors, rejected synchronously and never retried
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidExpiration = errors.New("expiration must be in the future")
	ErrDuplicateListing  = errors.New("token already has an active listing")

	// state-conflict errors, the caller must re-fetch current state
	ErrNotOwner           = errors.New("requester is not the owner")
	ErrAlreadyInactive    = errors.New("already inactive")
	ErrListingInactive    = errors.New("listing is not active")
	ErrListingExpired     = errors.New("listing has expired")
	ErrSaleInFlight       = errors.New("a sale is already pending for this listing")
	ErrBidTooLow          = errors.New("bid must exceed current highest bid")
	ErrAuctionInactive    = errors.New("auction is not active")
	ErrAuctionStillActive = errors.New("auction has not reached its end time")
	ErrAuctionHasBids     = errors.New("auction already has bids")
	ErrAlreadyEnded       = errors.New("auction already ended")
	ErrAuctionNotEnded    = errors.New("auction has not ended")
	ErrOfferExpired       = errors.New("offer has expired")
	ErrOfferTerminal      = errors.New("offer is already accepted or cancelled")
	ErrOfferNotAccepted   = errors.New("offer has not been accepted")

	// confirmation-mismatch errors, security relevant
	ErrHashMismatch     = errors.New("a different transaction was already recorded")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("amount does not match the authoritative record")
)
