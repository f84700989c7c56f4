package pow

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateChallengeDeterministic(t *testing.T) {
	a := GenerateChallenge(42, 1700000000)
	b := GenerateChallenge(42, 1700000000)
	require.Equal(t, a, b)

	// Any input change must change the challenge.
	require.NotEqual(t, a, GenerateChallenge(43, 1700000000))
	require.NotEqual(t, a, GenerateChallenge(42, 1700000001))
}

func TestGenerateChallengeLayout(t *testing.T) {
	// The challenge is SHA256 over the two big-endian u64s, nothing else.
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], 7)
	binary.BigEndian.PutUint64(buf[8:16], 9)
	want := sha256.Sum256(buf[:])
	require.Equal(t, want, GenerateChallenge(7, 9))
}

func TestSolveReturnsFirstSatisfyingNonce(t *testing.T) {
	challenge := GenerateChallenge(1, 1)
	const difficulty = 10

	proof, err := Solve(context.Background(), challenge, difficulty)
	require.NoError(t, err)
	require.True(t, HasLeadingZeroBits(proof.Hash, difficulty))

	// Recompute the hash independently.
	var msg [40]byte
	copy(msg[:32], challenge[:])
	binary.BigEndian.PutUint64(msg[32:], proof.Nonce)
	require.Equal(t, sha256.Sum256(msg[:]), proof.Hash)

	// No earlier nonce may qualify.
	for nonce := uint64(0); nonce < proof.Nonce; nonce++ {
		binary.BigEndian.PutUint64(msg[32:], nonce)
		h := sha256.Sum256(msg[:])
		require.False(t, HasLeadingZeroBits(h, difficulty), "nonce %d also satisfies difficulty", nonce)
	}
}

func TestSolveRejectsInvalidDifficulty(t *testing.T) {
	challenge := GenerateChallenge(1, 1)

	_, err := Solve(context.Background(), challenge, 0)
	require.ErrorIs(t, err, ErrDifficultyRange)

	_, err = Solve(context.Background(), challenge, 257)
	require.ErrorIs(t, err, ErrDifficultyRange)
}

func TestSolveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Difficulty high enough that the search cannot finish before the
	// first yield point notices the cancelled context.
	_, err := Solve(ctx, GenerateChallenge(1, 1), 200)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSolveCancelledMidSearch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Solve(ctx, GenerateChallenge(2, 2), 200)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestVerify(t *testing.T) {
	challenge := GenerateChallenge(3, 3)
	proof, err := Solve(context.Background(), challenge, 8)
	require.NoError(t, err)

	require.True(t, Verify(challenge, proof, 8))

	// Tampered nonce fails: the recomputed hash no longer matches.
	bad := proof
	bad.Nonce++
	require.False(t, Verify(challenge, bad, 8))

	// Tampered hash fails even if the nonce is genuine.
	bad = proof
	bad.Hash[0] ^= 0x01
	require.False(t, Verify(challenge, bad, 8))

	// A valid proof for one challenge is worthless for another.
	require.False(t, Verify(GenerateChallenge(3, 4), proof, 8))
}

func TestHasLeadingZeroBitsPartialByte(t *testing.T) {
	var h [32]byte
	h[0] = 0x0f // 4 leading zero bits

	require.True(t, HasLeadingZeroBits(h, 4))
	require.False(t, HasLeadingZeroBits(h, 5))

	h[0] = 0x00
	h[1] = 0x80 // exactly 8
	require.True(t, HasLeadingZeroBits(h, 8))
	require.False(t, HasLeadingZeroBits(h, 9))
}

func TestProofWireRoundTrip(t *testing.T) {
	proof := Proof{Nonce: 0xdeadbeefcafe}
	for i := range proof.Hash {
		proof.Hash[i] = byte(i * 7)
	}

	encoded, err := proof.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, encoded, ProofSize)

	// Fixed layout: LE length prefix of 32, raw hash, LE nonce.
	require.Equal(t, uint64(32), binary.LittleEndian.Uint64(encoded[0:8]))
	require.Equal(t, proof.Hash[:], encoded[8:40])
	require.Equal(t, proof.Nonce, binary.LittleEndian.Uint64(encoded[40:48]))

	decoded, err := UnmarshalProof(encoded)
	require.NoError(t, err)
	require.Equal(t, proof, decoded)
}

func TestUnmarshalProofRejectsGarbage(t *testing.T) {
	_, err := UnmarshalProof(make([]byte, 47))
	require.ErrorIs(t, err, ErrBadProofEncoding)

	_, err = UnmarshalProof(make([]byte, 49))
	require.ErrorIs(t, err, ErrBadProofEncoding)

	// Right size, wrong length prefix.
	buf := make([]byte, ProofSize)
	binary.LittleEndian.PutUint64(buf[0:8], 31)
	_, err = UnmarshalProof(buf)
	require.ErrorIs(t, err, ErrBadProofEncoding)
}
