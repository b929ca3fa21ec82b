package domain

type Table string

const (
	TableListings             Table = "listings"
	TableAuctions             Table = "auctions"
	TableBids                 Table = "bids"
	TableOffers               Table = "offers"
	TableOffchainTransactions Table = "offchain_transactions"
)
