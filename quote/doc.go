// Package quote defines the data model for operator price quotes: the
// operator identity, the asset and security-commitment types that are
// hashed into the signed quote, the JSON wire messages exchanged with
// operator pricing services, and the fixed-point cost representation
// shared with the on-chain verifier.
package quote
