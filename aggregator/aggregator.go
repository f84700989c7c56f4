package aggregator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tangle-network/ai-trading-blueprint-sub001/client"
	"github.com/tangle-network/ai-trading-blueprint-sub001/crypto"
	"github.com/tangle-network/ai-trading-blueprint-sub001/eip712"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// Config identifies the deployment quotes are verified against and the
// transport used to reach operators.
type Config struct {
	// ChainID and VerifyingContract pin the EIP-712 domain. Both are
	// per-deployment constants supplied by the caller.
	ChainID           *big.Int
	VerifyingContract common.Address

	// Client is the per-operator transport.
	Client *client.Client

	// Log is the structured logger. Nil discards.
	Log *slog.Logger
}

// Collector runs quoting rounds.
type Collector struct {
	cfg Config
	log *slog.Logger
}

// NewCollector validates the config and builds a collector.
func NewCollector(cfg Config) (*Collector, error) {
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("aggregator: chain id must be a positive integer")
	}
	if cfg.Client == nil {
		return nil, errors.New("aggregator: client cannot be nil")
	}

	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{cfg: cfg, log: log}, nil
}

// outcome is the terminal state of one operator's task. Exactly one of
// verified or err is set.
type outcome struct {
	operator quote.Operator
	verified *quote.Verified
	err      error
}

// Collect runs one quoting round: one task per operator, join-all, then
// merge. It always returns a result — zero accepted quotes with a
// populated error map is a successful round; deciding that emptiness is
// actionable belongs to the caller. Cancelling ctx aborts all in-flight
// tasks, including proof-of-work solves still searching.
func (c *Collector) Collect(ctx context.Context, operators []quote.Operator, params client.RequestParams) *quote.Result {
	start := time.Now()
	outcomes := make(chan outcome, len(operators))

	for _, op := range operators {
		go func(op quote.Operator) {
			verified, err := c.fetchAndVerify(ctx, op, params)
			outcomes <- outcome{operator: op, verified: verified, err: err}
		}(op)
	}

	result := &quote.Result{
		Errors:    make(map[common.Address]string),
		TotalCost: new(big.Int),
	}
	accepted := make(map[common.Address]bool)

	// Single collection point: tasks settle in arbitrary order and the
	// first accepted quote per operator address wins.
	for range operators {
		o := <-outcomes
		if o.err != nil {
			c.log.Warn("operator quote rejected",
				"operator", o.operator.Address.Hex(),
				"err", o.err,
			)
			result.Errors[o.operator.Address] = o.err.Error()
			continue
		}

		if accepted[o.operator.Address] {
			c.log.Debug("dropping duplicate quote",
				"operator", o.operator.Address.Hex(),
			)
			continue
		}
		accepted[o.operator.Address] = true

		result.Quotes = append(result.Quotes, *o.verified)
		result.TotalCost.Add(result.TotalCost, o.verified.Details.TotalCost)
	}

	c.log.Info("quoting round settled",
		"operators", len(operators),
		"accepted", len(result.Quotes),
		"failed", len(result.Errors),
		"totalCost", result.TotalCost,
		"elapsed", time.Since(start),
	)
	return result
}

// fetchAndVerify drives one operator from challenge to terminal state.
func (c *Collector) fetchAndVerify(ctx context.Context, op quote.Operator, params client.RequestParams) (*quote.Verified, error) {
	raw, err := c.cfg.Client.FetchQuote(ctx, op, params)
	if err != nil {
		return nil, err
	}

	digest := eip712.QuoteDigest(c.cfg.ChainID, c.cfg.VerifyingContract, raw.Details)
	sig, err := crypto.VerifyQuoteSignature(digest, raw.Signature, op.Address)
	if err != nil {
		return nil, fmt.Errorf("verify quote signature: %w", err)
	}

	return &quote.Verified{Operator: op, Details: raw.Details, Signature: sig}, nil
}
