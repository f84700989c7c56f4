// Command operator runs a standalone quote pricing service.
//
// The service answers proof-of-work-gated quote requests: it verifies
// the attached proof, prices the requested resources from its rate
// table, and returns quote details signed with its operator key.
//
// # Configuration File
//
// Create a YAML file with service settings:
//
//	listen_addr: ":8090"
//	signing_key: ""          # Hex-encoded secp256k1 key, generates if empty
//	chain_id: 31337
//	verifying_contract: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"
//	pow_difficulty: 20
//	quote_validity: "5m"
//	rates:
//	  cpu: "0.0001"          # USD per unit per block
//	  mem: "0.000001"
//
// # Usage
//
//	go run ./cmd/operator --config=operator.yaml
//	go run ./cmd/operator --addr=:8090 --chain-id=31337 --contract=0xCf7...
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tangle-network/ai-trading-blueprint-sub001/api/httpserver"
	cmdcommon "github.com/tangle-network/ai-trading-blueprint-sub001/cmd/common"
	"github.com/tangle-network/ai-trading-blueprint-sub001/operator"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		addr        = flag.String("addr", "", "HTTP listen address (overrides config)")
		keyHex      = flag.String("key", "", "secp256k1 signing key (hex, generates if empty)")
		chainID     = flag.Uint64("chain-id", 0, "EIP-712 chain id (overrides config)")
		contractHex = flag.String("contract", "", "Quoting contract address (overrides config)")
		difficulty  = flag.Uint("difficulty", 0, "Proof-of-work difficulty bits (overrides config)")
		enablePprof = flag.Bool("pprof", false, "Enable pprof debugging API")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
		logDebug    = flag.Bool("log-debug", false, "Log at debug level")
	)
	flag.Parse()

	log := cmdcommon.NewLogger(*logJSON, *logDebug)

	cfg := cmdcommon.DefaultOperatorConfig()
	if *configPath != "" {
		var err error
		cfg, err = cmdcommon.LoadOperatorConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Command-line flags override config file
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *keyHex != "" {
		cfg.SigningKey = *keyHex
	}
	if *chainID != 0 {
		cfg.ChainID = *chainID
	}
	if *contractHex != "" {
		cfg.VerifyingContract = *contractHex
	}
	if *difficulty != 0 {
		cfg.Difficulty = uint32(*difficulty)
	}

	key, err := cmdcommon.LoadOrGenerateKey(cfg.SigningKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading key: %v\n", err)
		os.Exit(1)
	}
	rates, err := cfg.RateTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in rate table: %v\n", err)
		os.Exit(1)
	}
	validity, err := cfg.Validity()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in quote validity: %v\n", err)
		os.Exit(1)
	}

	svc, err := operator.New(operator.Config{
		Key:               key,
		ChainID:           new(big.Int).SetUint64(cfg.ChainID),
		VerifyingContract: common.HexToAddress(cfg.VerifyingContract),
		Difficulty:        cfg.Difficulty,
		QuoteValidity:     validity,
		Rates:             rates,
		Log:               log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating service: %v\n", err)
		os.Exit(1)
	}

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               cfg.ListenAddr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             30 * time.Second,
	}, svc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	log.Info("operator service starting",
		"address", svc.Address().Hex(),
		"listenAddr", cfg.ListenAddr,
		"chainId", cfg.ChainID,
	)
	srv.RunInBackground()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	srv.Shutdown()
}
