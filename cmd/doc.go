// Package cmd provides the CLI commands of the quoting subsystem.
//
// # Commands
//
// operator: Runs a standalone quote pricing service that verifies
// proof-of-work handshakes, prices resource requirements from a rate
// table, and signs quotes with its operator key.
//
//	go run ./cmd/operator --config=operator.yaml
//	go run ./cmd/operator --addr=:8090 --chain-id=31337 --contract=0xCf7...
//
// quoter: Runs one quoting round against a configured operator set and
// prints the verified quotes, per-operator failures, and summed total
// cost as JSON.
//
//	go run ./cmd/quoter --config=quoter.yaml
//	go run ./cmd/quoter --config=quoter.yaml --blueprint=7 --ttl=1000
//
// # Configuration
//
// Both commands read YAML configuration files via the --config flag.
// Command-line flags override config file values.
package cmd
