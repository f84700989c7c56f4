package pow

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultDifficulty is the number of leading zero bits operators expect
// unless a deployment overrides it.
const DefaultDifficulty uint32 = 20

// maxDifficulty is the full SHA-256 output length in bits.
const maxDifficulty uint32 = 256

// yieldInterval is how many nonces are tried between context checks, so
// a solve inside a busy scheduler stays cancellable without paying the
// ctx.Err() cost on every iteration.
const yieldInterval = 4096

var (
	// ErrDifficultyRange means the requested difficulty is outside 1..256.
	ErrDifficultyRange = errors.New("pow: difficulty out of acceptable range")

	// ErrExhausted means the entire 32-bit nonce space was searched without
	// finding a solution. Practically unreachable at the default difficulty.
	ErrExhausted = errors.New("pow: nonce space exhausted")
)

// GenerateChallenge derives the 32-byte challenge both sides compute
// independently: SHA256 over the big-endian blueprint id and timestamp.
func GenerateChallenge(blueprintID, timestamp uint64) [32]byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], blueprintID)
	binary.BigEndian.PutUint64(buf[8:16], timestamp)
	return sha256.Sum256(buf[:])
}

// Solve brute-forces the first nonce, counting up from zero, whose hash
// over the challenge meets the difficulty. It is CPU-bound and checks ctx
// periodically so a cancelled round abandons the search promptly.
func Solve(ctx context.Context, challenge [32]byte, difficultyBits uint32) (Proof, error) {
	if difficultyBits < 1 || difficultyBits > maxDifficulty {
		return Proof{}, fmt.Errorf("%w: %d not in [1, %d]", ErrDifficultyRange, difficultyBits, maxDifficulty)
	}

	var msg [40]byte
	copy(msg[:32], challenge[:])

	for nonce := uint64(0); nonce <= math.MaxUint32; nonce++ {
		if nonce%yieldInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Proof{}, err
			}
		}

		binary.BigEndian.PutUint64(msg[32:], nonce)
		h := sha256.Sum256(msg[:])
		if HasLeadingZeroBits(h, difficultyBits) {
			return Proof{Hash: h, Nonce: nonce}, nil
		}
	}

	return Proof{}, ErrExhausted
}

// Verify recomputes the solution hash for a received proof and checks
// both that it matches the transmitted hash and that it meets the
// difficulty. Operators call this before pricing a request.
func Verify(challenge [32]byte, proof Proof, difficultyBits uint32) bool {
	var msg [40]byte
	copy(msg[:32], challenge[:])
	binary.BigEndian.PutUint64(msg[32:], proof.Nonce)
	h := sha256.Sum256(msg[:])
	return h == proof.Hash && HasLeadingZeroBits(h, difficultyBits)
}

// HasLeadingZeroBits reports whether h starts with at least bits zero
// bits: whole zero bytes first, then a mask over the top of the next byte.
func HasLeadingZeroBits(h [32]byte, bits uint32) bool {
	fullBytes := bits / 8
	for i := uint32(0); i < fullBytes; i++ {
		if h[i] != 0 {
			return false
		}
	}
	if rem := bits % 8; rem != 0 {
		mask := byte(0xff) << (8 - rem)
		if h[fullBytes]&mask != 0 {
			return false
		}
	}
	return true
}
