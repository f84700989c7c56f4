// Package eip712 reproduces the typed-data digest that the quoting
// contract's on-chain verifier computes over a signed quote.
//
// The digest must match the verifier bit for bit, so the type signature
// strings are fixed constants rather than being derived from struct
// definitions. In particular the verifier appends referenced types in
// declaration order (QuoteDetails, then AssetSecurityCommitment, then
// Asset), not in the alphabetical order a generic EIP-712 encoder would
// produce; running these structs through such an encoder yields a
// different, silently incompatible digest.
package eip712
