package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignQuoteDigest signs a quote digest with an operator key and returns
// the 64-byte r‖s wire form; the recovery id is left for the caller to
// resolve by trial. Used by operator-side services.
func SignQuoteDigest(digest common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := gethcrypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, fmt.Errorf("crypto: sign digest: %w", err)
	}
	return sig[:CompactSignatureLength], nil
}

// AddressOf returns the on-chain address of a signing key.
func AddressOf(key *ecdsa.PrivateKey) common.Address {
	return gethcrypto.PubkeyToAddress(key.PublicKey)
}
