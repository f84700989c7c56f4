// Package crypto verifies operator quote signatures by ECDSA public-key
// recovery, and signs digests on the operator side.
//
// Quotes are signed over the EIP-712 digest with secp256k1 keys; the
// operator's on-chain address is the identity a signature must recover
// to. Transports may deliver only the 64-byte r‖s form, in which case
// the recovery id is resolved by trying both candidates.
package crypto

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureLength is the full (r,s,v) signature size.
	SignatureLength = 65

	// CompactSignatureLength is the r‖s form without the recovery id.
	CompactSignatureLength = 64
)

var (
	// ErrBadSignatureLength means the signature is neither 64 nor 65 bytes.
	ErrBadSignatureLength = errors.New("crypto: signature must be 64 or 65 bytes")

	// ErrRecoveryFailed means no public key could be recovered for any
	// recovery-id candidate (malformed signature or invalid curve point).
	ErrRecoveryFailed = errors.New("crypto: signature recovery failed")

	// ErrNoMatchingRecoveryID means recovery succeeded but no candidate
	// yields the claimed operator address. Treated as a verification
	// failure: accepting such a quote would mean trusting an unverified
	// counterparty.
	ErrNoMatchingRecoveryID = errors.New("crypto: recovered signer does not match claimed operator")
)

// VerifyQuoteSignature checks that sig over digest recovers to the
// claimed operator address. A 64-byte signature is tried with v=27 then
// v=28; a 65-byte signature is recovered with its embedded v (both the
// raw 0/1 and Ethereum 27/28 encodings are accepted). On success it
// returns the normalized 65-byte (r,s,v) signature with v in {27,28},
// ready for the on-chain call payload.
func VerifyQuoteSignature(digest common.Hash, sig []byte, claimed common.Address) ([]byte, error) {
	switch len(sig) {
	case CompactSignatureLength:
		recovered := false
		for _, v := range []byte{27, 28} {
			addr, err := recoverAddress(digest, sig, v)
			if err != nil {
				continue
			}
			recovered = true
			if addr == claimed {
				return normalized(sig, v), nil
			}
		}
		if !recovered {
			return nil, ErrRecoveryFailed
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingRecoveryID, claimed.Hex())

	case SignatureLength:
		v := sig[64]
		if v >= 27 {
			v -= 27
		}
		if v > 1 {
			return nil, fmt.Errorf("%w: invalid recovery id %d", ErrRecoveryFailed, sig[64])
		}
		addr, err := recoverAddress(digest, sig[:64], v+27)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecoveryFailed, err)
		}
		if addr != claimed {
			return nil, fmt.Errorf("%w: recovered %s, claimed %s", ErrNoMatchingRecoveryID, addr.Hex(), claimed.Hex())
		}
		return normalized(sig[:64], v+27), nil

	default:
		return nil, fmt.Errorf("%w: got %d", ErrBadSignatureLength, len(sig))
	}
}

// recoverAddress recovers the signer address for one recovery-id
// candidate, with v in Ethereum's 27/28 encoding.
func recoverAddress(digest common.Hash, rs []byte, v byte) (common.Address, error) {
	full := make([]byte, SignatureLength)
	copy(full, rs)
	full[64] = v - 27

	pub, err := gethcrypto.SigToPub(digest.Bytes(), full)
	if err != nil {
		return common.Address{}, err
	}
	return gethcrypto.PubkeyToAddress(*pub), nil
}

// normalized builds the 65-byte (r,s,v) form with v in {27,28}.
func normalized(rs []byte, v byte) []byte {
	out := make([]byte, SignatureLength)
	copy(out, rs)
	out[64] = v
	return out
}
