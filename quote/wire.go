package quote

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// QuotePath is the HTTP endpoint an operator pricing service serves
// quote requests on.
const QuotePath = "/v1/quote"

// Asset type discriminators on the wire.
const (
	AssetTypeERC20  = "erc20"
	AssetTypeCustom = "custom"
)

var (
	ErrUnknownAssetType = errors.New("quote: unknown asset type")
	ErrBadTokenLength   = errors.New("quote: asset value is not a 20-byte address")
)

// Request is the body POSTed to an operator's quote endpoint. ProofOfWork
// carries the fixed 48-byte proof encoding.
type Request struct {
	BlueprintID          uint64                `json:"blueprintId"`
	TTLBlocks            uint64                `json:"ttlBlocks"`
	ProofOfWork          hexutil.Bytes         `json:"proofOfWork"`
	ChallengeTimestamp   uint64                `json:"challengeTimestamp"`
	ResourceRequirements []ResourceRequirement `json:"resourceRequirements"`
	SecurityRequirements []SecurityRequirement `json:"securityRequirements"`
}

// ResourceRequirement asks for count instances of a resource kind
// (e.g. "cpu", "mem", "gpu").
type ResourceRequirement struct {
	Kind  string `json:"kind"`
	Count uint64 `json:"count"`
}

// SecurityRequirement is the caller's acceptable exposure range for one
// asset.
type SecurityRequirement struct {
	Asset                  AssetSpec `json:"asset"`
	MinimumExposurePercent uint32    `json:"minimumExposurePercent"`
	MaximumExposurePercent uint32    `json:"maximumExposurePercent"`
}

// AssetSpec names an asset on the wire. For "erc20" assets Value is the
// 20-byte token address; for "custom" assets it is an opaque identifier.
type AssetSpec struct {
	AssetType string        `json:"assetType"`
	Value     hexutil.Bytes `json:"value"`
}

// Asset converts the wire spec into the hashed Asset form.
func (s AssetSpec) Asset() (Asset, error) {
	switch s.AssetType {
	case AssetTypeERC20:
		if len(s.Value) != common.AddressLength {
			return Asset{}, fmt.Errorf("%w: got %d bytes", ErrBadTokenLength, len(s.Value))
		}
		return Asset{Kind: AssetKindERC20, Token: common.BytesToAddress(s.Value)}, nil
	case AssetTypeCustom:
		return Asset{Kind: AssetKindCustom, Token: common.BytesToAddress(s.Value)}, nil
	default:
		return Asset{}, fmt.Errorf("%w: %q", ErrUnknownAssetType, s.AssetType)
	}
}

// Response is an operator's reply: the quote body with the cost still
// expressed as a decimal USD rate, plus the raw signature bytes (64-byte
// r‖s or full 65-byte r‖s‖v).
type Response struct {
	QuoteDetails *DetailsMessage `json:"quoteDetails"`
	Signature    hexutil.Bytes   `json:"signature"`
}

// DetailsMessage is the wire form of Details. CostRateUSD is a decimal
// string (e.g. "22.8744") that the caller scales to fixed point before
// hashing; the operator must have signed over the scaled value.
type DetailsMessage struct {
	BlueprintID         uint64              `json:"blueprintId"`
	TTLBlocks           uint64              `json:"ttlBlocks"`
	CostRateUSD         string              `json:"totalCostRate"`
	Timestamp           uint64              `json:"timestamp"`
	Expiry              uint64              `json:"expiry"`
	SecurityCommitments []CommitmentMessage `json:"securityCommitments"`
}

// CommitmentMessage is the wire form of AssetSecurityCommitment.
type CommitmentMessage struct {
	Asset       AssetMessage `json:"asset"`
	ExposureBps uint16       `json:"exposureBps"`
}

// AssetMessage is the wire form of Asset.
type AssetMessage struct {
	Kind  uint8          `json:"kind"`
	Token common.Address `json:"token"`
}

// Details scales the cost rate to fixed point and returns the hashed
// quote form.
func (m *DetailsMessage) Details() (Details, error) {
	totalCost, err := ScaleCostRate(m.CostRateUSD)
	if err != nil {
		return Details{}, err
	}

	commitments := make([]AssetSecurityCommitment, 0, len(m.SecurityCommitments))
	for _, c := range m.SecurityCommitments {
		commitments = append(commitments, AssetSecurityCommitment{
			Asset:       Asset{Kind: AssetKind(c.Asset.Kind), Token: c.Asset.Token},
			ExposureBps: c.ExposureBps,
		})
	}

	return Details{
		BlueprintID:         m.BlueprintID,
		TTLBlocks:           m.TTLBlocks,
		TotalCost:           totalCost,
		Timestamp:           m.Timestamp,
		Expiry:              m.Expiry,
		SecurityCommitments: commitments,
	}, nil
}

// Message converts hashed-form details back to the wire form. Used by
// operator services building responses.
func (d Details) Message() *DetailsMessage {
	commitments := make([]CommitmentMessage, 0, len(d.SecurityCommitments))
	for _, c := range d.SecurityCommitments {
		commitments = append(commitments, CommitmentMessage{
			Asset:       AssetMessage{Kind: uint8(c.Asset.Kind), Token: c.Asset.Token},
			ExposureBps: c.ExposureBps,
		})
	}

	return &DetailsMessage{
		BlueprintID:         d.BlueprintID,
		TTLBlocks:           d.TTLBlocks,
		CostRateUSD:         FormatNanoUSD(d.TotalCost),
		Timestamp:           d.Timestamp,
		Expiry:              d.Expiry,
		SecurityCommitments: commitments,
	}
}
