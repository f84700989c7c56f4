// Package operator implements a reference operator-side pricing
// service: it checks the proof-of-work handshake, prices resource
// requirements from a static rate table, and returns quote details
// signed with the operator's key.
//
// Production operators run their own pricing engines; this service
// exists so rounds can be exercised end to end in tests and local
// deployments against a counterparty that speaks the exact wire
// contract.
package operator
