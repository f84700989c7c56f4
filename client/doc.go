// Package client implements the per-operator quote transport: it solves
// the proof-of-work handshake, POSTs the quote request to the operator's
// pricing service, and decodes the signed response.
//
// Every fetch is bounded by a hard per-operator timeout so one
// unresponsive counterparty can never stall a quoting round. Signature
// verification is the aggregator's job, not the client's.
package client
