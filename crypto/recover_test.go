package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func testDigest(seed string) common.Hash {
	return gethcrypto.Keccak256Hash([]byte(seed))
}

func TestVerifyCompactSignature(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	addr := AddressOf(key)
	digest := testDigest("quote")

	sig, err := SignQuoteDigest(digest, key)
	require.NoError(t, err)
	require.Len(t, sig, CompactSignatureLength)

	full, err := VerifyQuoteSignature(digest, sig, addr)
	require.NoError(t, err)
	require.Len(t, full, SignatureLength)
	require.Equal(t, sig, full[:64])
	require.Contains(t, []byte{27, 28}, full[64])

	// Exactly one recovery id matches: the resolved candidate verifies as
	// a full signature, the other one is rejected.
	other := make([]byte, SignatureLength)
	copy(other, sig)
	other[64] = 27 + 28 - full[64]
	_, err = VerifyQuoteSignature(digest, other, addr)
	require.Error(t, err)
}

func TestVerifyFullSignature(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	addr := AddressOf(key)
	digest := testDigest("full")

	// geth emits v in {0,1}; both that and the 27/28 encoding must verify.
	raw, err := gethcrypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	full, err := VerifyQuoteSignature(digest, raw, addr)
	require.NoError(t, err)
	require.Equal(t, raw[64]+27, full[64])

	shifted := make([]byte, SignatureLength)
	copy(shifted, raw)
	shifted[64] += 27
	full2, err := VerifyQuoteSignature(digest, shifted, addr)
	require.NoError(t, err)
	require.Equal(t, full, full2)
}

func TestVerifyRejectsWrongClaimant(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	digest := testDigest("claimant")

	sig, err := SignQuoteDigest(digest, key)
	require.NoError(t, err)

	_, err = VerifyQuoteSignature(digest, sig, AddressOf(otherKey))
	require.ErrorIs(t, err, ErrNoMatchingRecoveryID)
}

func TestVerifyRejectsWrongDigest(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	addr := AddressOf(key)

	sig, err := SignQuoteDigest(testDigest("signed"), key)
	require.NoError(t, err)

	// Recovery over a different digest yields some other address, never
	// an acceptance.
	_, err = VerifyQuoteSignature(testDigest("presented"), sig, addr)
	require.ErrorIs(t, err, ErrNoMatchingRecoveryID)
}

func TestVerifyRejectsMalformedSignatures(t *testing.T) {
	digest := testDigest("malformed")
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")

	_, err := VerifyQuoteSignature(digest, make([]byte, 63), addr)
	require.ErrorIs(t, err, ErrBadSignatureLength)

	_, err = VerifyQuoteSignature(digest, make([]byte, 66), addr)
	require.ErrorIs(t, err, ErrBadSignatureLength)

	// All-zero r‖s is not a valid curve point for either candidate.
	_, err = VerifyQuoteSignature(digest, make([]byte, CompactSignatureLength), addr)
	require.ErrorIs(t, err, ErrRecoveryFailed)

	// Out-of-range recovery id on a full signature.
	bad := make([]byte, SignatureLength)
	bad[64] = 5
	_, err = VerifyQuoteSignature(digest, bad, addr)
	require.ErrorIs(t, err, ErrRecoveryFailed)
}
