// Package pow implements the proof-of-work handshake that rate-limits
// quote requests to operators.
//
// Before an operator will price a request, the caller must present a
// proof that it burned CPU on a challenge derived from the blueprint id
// and the request timestamp. The operator recomputes the same challenge
// from those two values and checks the proof, so neither side ever
// transmits the challenge itself.
//
// The wire form of a proof is fixed at 48 bytes: an 8-byte little-endian
// length prefix (always 32), the 32-byte solution hash, and the 8-byte
// little-endian nonce. The remote side decodes exactly this layout;
// changing it breaks the handshake.
package pow
