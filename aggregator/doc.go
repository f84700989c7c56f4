// Package aggregator fans a quote request out to all candidate
// operators, verifies each signed response, and merges the outcomes
// into one immutable round result.
//
// Each operator gets its own goroutine owning its own challenge, proof
// and response; outcomes flow back over a channel to a single collector
// loop, so no state is mutated concurrently. The round waits for every
// operator to settle — a failure never aborts its siblings — and
// per-operator failures surface as data in the result's error map, not
// as errors from Collect.
package aggregator
