package quote

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Operator identifies a counterparty that can be asked for a quote.
// The on-chain address is the identity the signed quote must recover to;
// RPCAddress is where its pricing service listens. Operators are supplied
// by an external discovery component and are immutable for the duration
// of a quoting round.
type Operator struct {
	Address    common.Address
	RPCAddress string
}

// AssetKind discriminates the asset representations the quoting contract
// understands.
type AssetKind uint8

const (
	AssetKindCustom AssetKind = iota
	AssetKindERC20
)

// Asset is an asset reference as hashed into the signed quote.
type Asset struct {
	Kind  AssetKind
	Token common.Address
}

// AssetSecurityCommitment is an operator's commitment to expose a share
// of an asset, in basis points, as security for the service.
type AssetSecurityCommitment struct {
	Asset       Asset
	ExposureBps uint16
}

// Details is the quote body the operator signs. TotalCost is fixed-point
// with nine decimal places (nano-USD); a nil TotalCost means zero.
// SecurityCommitments is order-significant: the array hash covers the
// elements in this exact order.
type Details struct {
	BlueprintID         uint64
	TTLBlocks           uint64
	TotalCost           *big.Int
	Timestamp           uint64
	Expiry              uint64
	SecurityCommitments []AssetSecurityCommitment
}

// Verified is an accepted quote: its signature recovered to the
// operator's claimed address. Signature is the normalized 65-byte
// (r,s,v) form, ready for the on-chain call payload.
type Verified struct {
	Operator  Operator
	Details   Details
	Signature []byte
}

// Result is the aggregate outcome of one quoting round. Quotes holds the
// accepted quotes in completion order with at most one entry per operator
// address; Errors maps each failed operator's address to a human-readable
// reason; TotalCost is the sum of accepted quotes' costs and is used
// verbatim as the payment amount of the follow-on on-chain call. A Result
// is built once per round and not mutated afterwards.
type Result struct {
	Quotes    []Verified
	Errors    map[common.Address]string
	TotalCost *big.Int
}
