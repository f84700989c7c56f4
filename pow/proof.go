package pow

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ProofSize is the exact wire size of an encoded proof.
const ProofSize = 8 + 32 + 8

// hashLenPrefix is the value of the length prefix. The remote decoder
// treats the hash as a length-prefixed vector, so the prefix is always 32.
const hashLenPrefix = 32

// ErrBadProofEncoding means a byte slice does not follow the 48-byte
// proof layout.
var ErrBadProofEncoding = errors.New("pow: malformed proof encoding")

// Proof is a solved puzzle: the qualifying hash and the nonce that
// produced it.
type Proof struct {
	Hash  [32]byte
	Nonce uint64
}

// MarshalBinary encodes the proof in the fixed 48-byte wire layout:
// little-endian length prefix, raw hash bytes, little-endian nonce.
func (p Proof) MarshalBinary() ([]byte, error) {
	out := make([]byte, ProofSize)
	binary.LittleEndian.PutUint64(out[0:8], hashLenPrefix)
	copy(out[8:40], p.Hash[:])
	binary.LittleEndian.PutUint64(out[40:48], p.Nonce)
	return out, nil
}

// UnmarshalProof decodes the fixed 48-byte wire layout produced by
// MarshalBinary.
func UnmarshalProof(data []byte) (Proof, error) {
	if len(data) != ProofSize {
		return Proof{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadProofEncoding, len(data), ProofSize)
	}
	if n := binary.LittleEndian.Uint64(data[0:8]); n != hashLenPrefix {
		return Proof{}, fmt.Errorf("%w: hash length prefix %d, want %d", ErrBadProofEncoding, n, hashLenPrefix)
	}

	var p Proof
	copy(p.Hash[:], data[8:40])
	p.Nonce = binary.LittleEndian.Uint64(data[40:48])
	return p, nil
}
