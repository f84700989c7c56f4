package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// Domain constants of the quoting contract. Only the chain id and
// verifying contract address vary per deployment.
const (
	DomainName    = "TangleQuote"
	DomainVersion = "1"
)

// Canonical type signature strings. Referenced types are appended in the
// verifier's declaration order; treat these as opaque constants.
const (
	domainTypeSig = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"

	assetTypeSig      = "Asset(uint8 kind,address token)"
	commitmentTypeSig = "AssetSecurityCommitment(Asset asset,uint16 exposureBps)" + assetTypeSig
	quoteTypeSig      = "QuoteDetails(uint64 blueprintId,uint64 ttlBlocks,uint256 totalCost,uint64 timestamp,uint64 expiry,AssetSecurityCommitment[] securityCommitments)" +
		"AssetSecurityCommitment(Asset asset,uint16 exposureBps)" + assetTypeSig
)

var (
	domainTypeHash     = crypto.Keccak256Hash([]byte(domainTypeSig))
	assetTypeHash      = crypto.Keccak256Hash([]byte(assetTypeSig))
	commitmentTypeHash = crypto.Keccak256Hash([]byte(commitmentTypeSig))
	quoteTypeHash      = crypto.Keccak256Hash([]byte(quoteTypeSig))

	domainNameHash    = crypto.Keccak256Hash([]byte(DomainName))
	domainVersionHash = crypto.Keccak256Hash([]byte(DomainVersion))
)

// DomainSeparator binds signatures to one deployment of the quoting
// contract: keccak256 of the domain typehash and the four domain fields,
// each ABI-encoded into a 32-byte slot.
func DomainSeparator(chainID *big.Int, verifyingContract common.Address) common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		domainNameHash.Bytes(),
		domainVersionHash.Bytes(),
		uintWord(chainID),
		addressWord(verifyingContract),
	)
}

// HashAsset computes the EIP-712 struct hash of one Asset.
func HashAsset(a quote.Asset) common.Hash {
	return crypto.Keccak256Hash(
		assetTypeHash.Bytes(),
		uint64Word(uint64(a.Kind)),
		addressWord(a.Token),
	)
}

// HashCommitment computes the EIP-712 struct hash of one
// AssetSecurityCommitment. Struct-typed fields hash as their struct hash.
func HashCommitment(c quote.AssetSecurityCommitment) common.Hash {
	return crypto.Keccak256Hash(
		commitmentTypeHash.Bytes(),
		HashAsset(c.Asset).Bytes(),
		uint64Word(uint64(c.ExposureBps)),
	)
}

// HashQuote computes the EIP-712 struct hash of the full quote body.
// The commitments array hashes as the keccak of the concatenated element
// struct hashes; an empty array therefore hashes as keccak256 of the
// empty byte string.
func HashQuote(d quote.Details) common.Hash {
	arrayBytes := make([]byte, 0, 32*len(d.SecurityCommitments))
	for _, c := range d.SecurityCommitments {
		arrayBytes = append(arrayBytes, HashCommitment(c).Bytes()...)
	}
	arrayHash := crypto.Keccak256Hash(arrayBytes)

	return crypto.Keccak256Hash(
		quoteTypeHash.Bytes(),
		uint64Word(d.BlueprintID),
		uint64Word(d.TTLBlocks),
		uintWord(d.TotalCost),
		uint64Word(d.Timestamp),
		uint64Word(d.Expiry),
		arrayHash.Bytes(),
	)
}

// SigningDigest is the 32-byte value the operator signs:
// keccak256(0x19 0x01 ‖ domainSeparator ‖ structHash).
func SigningDigest(domainSeparator, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		domainSeparator.Bytes(),
		structHash.Bytes(),
	)
}

// QuoteDigest composes the full pipeline for one quote against one
// deployment.
func QuoteDigest(chainID *big.Int, verifyingContract common.Address, d quote.Details) common.Hash {
	return SigningDigest(DomainSeparator(chainID, verifyingContract), HashQuote(d))
}

// uintWord ABI-encodes a uint256 into one 32-byte slot. nil encodes as
// zero.
func uintWord(v *big.Int) []byte {
	word := make([]byte, 32)
	if v != nil {
		v.FillBytes(word)
	}
	return word
}

// uint64Word ABI-encodes a small unsigned integer into one 32-byte slot.
func uint64Word(v uint64) []byte {
	word := make([]byte, 32)
	new(big.Int).SetUint64(v).FillBytes(word)
	return word
}

// addressWord ABI-encodes an address left-padded into one 32-byte slot.
func addressWord(a common.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], a.Bytes())
	return word
}
