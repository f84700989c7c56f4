// Command quoter runs one quoting round against a configured operator
// set and prints the aggregate result as JSON: the verified quotes with
// their signatures, the per-operator failures, and the summed total
// cost — the exact payload shape the on-chain service-creation call
// consumes.
//
// # Configuration File
//
//	chain_id: 31337
//	verifying_contract: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"
//	blueprint_id: 42
//	ttl_blocks: 216000
//	operator_timeout: "30s"
//	operators:
//	  - address: "0x..."
//	    rpc_address: "http://operator-1:8090"
//	resources:
//	  - kind: "cpu"
//	    count: 2
//
// # Usage
//
//	go run ./cmd/quoter --config=quoter.yaml
//	go run ./cmd/quoter --config=quoter.yaml --blueprint=7 --ttl=1000
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tangle-network/ai-trading-blueprint-sub001/aggregator"
	"github.com/tangle-network/ai-trading-blueprint-sub001/client"
	cmdcommon "github.com/tangle-network/ai-trading-blueprint-sub001/cmd/common"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// roundOutput is the JSON shape of a settled round, matching what the
// transaction-submission component consumes.
type roundOutput struct {
	Quotes    []quoteOutput     `json:"quotes"`
	Errors    map[string]string `json:"errors"`
	TotalCost string            `json:"totalCost"`
}

type quoteOutput struct {
	Operator  common.Address        `json:"operator"`
	Details   *quote.DetailsMessage `json:"details"`
	Signature hexutil.Bytes         `json:"signature"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file (required)")
		blueprintID = flag.Uint64("blueprint", 0, "Blueprint id (overrides config)")
		ttlBlocks   = flag.Uint64("ttl", 0, "Service TTL in blocks (overrides config)")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
		logDebug    = flag.Bool("log-debug", false, "Log at debug level")
	)
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		flag.Usage()
		os.Exit(2)
	}

	log := cmdcommon.NewLogger(*logJSON, *logDebug)

	cfg, err := cmdcommon.LoadQuoterConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *blueprintID != 0 {
		cfg.BlueprintID = *blueprintID
	}
	if *ttlBlocks != 0 {
		cfg.TTLBlocks = *ttlBlocks
	}
	if len(cfg.Operators) == 0 {
		fmt.Fprintln(os.Stderr, "No operators configured")
		os.Exit(1)
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in operator timeout: %v\n", err)
		os.Exit(1)
	}

	qc, err := client.New(client.Config{
		Difficulty:        cfg.Difficulty,
		Timeout:           timeout,
		RewriteLocalHosts: cfg.RewriteLocalHosts,
		LocalHost:         cfg.LocalHost,
		Log:               log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating client: %v\n", err)
		os.Exit(1)
	}

	col, err := aggregator.NewCollector(aggregator.Config{
		ChainID:           cfg.ChainIDBig(),
		VerifyingContract: common.HexToAddress(cfg.VerifyingContract),
		Client:            qc,
		Log:               log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating collector: %v\n", err)
		os.Exit(1)
	}

	operators := make([]quote.Operator, 0, len(cfg.Operators))
	for _, entry := range cfg.Operators {
		operators = append(operators, quote.Operator{
			Address:    common.HexToAddress(entry.Address),
			RPCAddress: entry.RPCAddress,
		})
	}
	resources := make([]quote.ResourceRequirement, 0, len(cfg.Resources))
	for _, entry := range cfg.Resources {
		resources = append(resources, quote.ResourceRequirement{Kind: entry.Kind, Count: entry.Count})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := col.Collect(ctx, operators, client.RequestParams{
		BlueprintID:          cfg.BlueprintID,
		TTLBlocks:            cfg.TTLBlocks,
		ResourceRequirements: resources,
	})

	out := roundOutput{
		Quotes:    make([]quoteOutput, 0, len(result.Quotes)),
		Errors:    make(map[string]string, len(result.Errors)),
		TotalCost: result.TotalCost.String(),
	}
	for _, v := range result.Quotes {
		out.Quotes = append(out.Quotes, quoteOutput{
			Operator:  v.Operator.Address,
			Details:   v.Details.Message(),
			Signature: v.Signature,
		})
	}
	for addr, msg := range result.Errors {
		out.Errors[addr.Hex()] = msg
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}

	if len(result.Quotes) == 0 {
		// No operators available is an actionable failure for callers.
		os.Exit(1)
	}
}
