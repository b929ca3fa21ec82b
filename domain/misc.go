package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// Checksum renders the canonical EIP-55 checksummed form.
func (a Address) Checksum() string {
	return common.HexToAddress(string(a)).Hex()
}

func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type BlockNumber uint64

type TxHash string

func (h TxHash) ToLower() TxHash {
	return TxHash(strings.ToLower(string(h)))
}

func (h TxHash) IsEmpty() bool {
	return len(h) == 0
}

type BlockHash string

// ParseAmount parses a decimal token amount. Amounts are stored as decimal
// strings with up to 36 integer and 18 fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidNumberFormat
	}
	return d, nil
}

// ParsePositiveAmount parses an amount which must be strictly greater than
// zero, e.g. a listing price or bid.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}
