package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tangle-network/ai-trading-blueprint-sub001/pow"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// DefaultTimeout bounds one operator fetch end to end, proof-of-work
// solve included.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNoRPCAddress means the operator record carries no RPC address.
	ErrNoRPCAddress = errors.New("client: operator has no rpc address")

	// ErrMissingQuoteDetails means the operator answered without a quote
	// body.
	ErrMissingQuoteDetails = errors.New("client: response missing quote details")
)

// Config controls quote fetching.
type Config struct {
	// Difficulty is the proof-of-work difficulty in leading zero bits.
	// Zero selects pow.DefaultDifficulty.
	Difficulty uint32

	// Timeout is the hard per-operator deadline. Zero selects
	// DefaultTimeout.
	Timeout time.Duration

	// RewriteLocalHosts enables the development-only rewrite of loopback
	// and .local operator hostnames to LocalHost. Never enable this in a
	// production deployment: it silently changes where requests are sent.
	RewriteLocalHosts bool

	// LocalHost is the host substituted when RewriteLocalHosts applies.
	LocalHost string

	// HTTPClient overrides the transport. Nil selects a default client;
	// per-request deadlines come from the context either way.
	HTTPClient *http.Client

	// Log is the structured logger. Nil discards.
	Log *slog.Logger
}

// RequestParams are the caller-supplied inputs shared by every operator
// in one round.
type RequestParams struct {
	BlueprintID          uint64
	TTLBlocks            uint64
	ResourceRequirements []quote.ResourceRequirement
	SecurityRequirements []quote.SecurityRequirement
}

// RawQuote is a decoded, not yet verified operator response. Details has
// the cost already scaled to fixed point; Signature is the raw 64- or
// 65-byte form as received.
type RawQuote struct {
	Operator  quote.Operator
	Details   quote.Details
	Signature []byte
}

// Client fetches quotes from operator pricing services.
type Client struct {
	cfg   Config
	httpc *http.Client
	log   *slog.Logger
}

// New validates the config and builds a client.
func New(cfg Config) (*Client, error) {
	if cfg.Difficulty == 0 {
		cfg.Difficulty = pow.DefaultDifficulty
	}
	if cfg.Difficulty > 256 {
		return nil, fmt.Errorf("client: difficulty %d out of range", cfg.Difficulty)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RewriteLocalHosts && cfg.LocalHost == "" {
		return nil, errors.New("client: RewriteLocalHosts requires LocalHost")
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{cfg: cfg, httpc: httpc, log: log}, nil
}

// FetchQuote runs the full per-operator exchange: challenge, solve,
// request, decode. The context plus the configured timeout bound the
// whole exchange; a cancelled solve discards its partial work and no
// proof is transmitted.
func (c *Client) FetchQuote(ctx context.Context, op quote.Operator, params RequestParams) (*RawQuote, error) {
	if op.RPCAddress == "" {
		return nil, ErrNoRPCAddress
	}
	baseURL, err := resolveEndpoint(op.RPCAddress, c.cfg.RewriteLocalHosts, c.cfg.LocalHost)
	if err != nil {
		return nil, fmt.Errorf("client: resolve %q: %w", op.RPCAddress, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	timestamp := uint64(time.Now().Unix())
	challenge := pow.GenerateChallenge(params.BlueprintID, timestamp)

	solveStart := time.Now()
	proof, err := pow.Solve(ctx, challenge, c.cfg.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("client: solve proof of work: %w", err)
	}
	c.log.Debug("solved quote challenge",
		"operator", op.Address.Hex(),
		"nonce", proof.Nonce,
		"elapsed", time.Since(solveStart),
	)

	proofBytes, err := proof.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("client: encode proof: %w", err)
	}

	reqBody := quote.Request{
		BlueprintID:          params.BlueprintID,
		TTLBlocks:            params.TTLBlocks,
		ProofOfWork:          proofBytes,
		ChallengeTimestamp:   timestamp,
		ResourceRequirements: params.ResourceRequirements,
		SecurityRequirements: params.SecurityRequirements,
	}

	resp, err := c.post(ctx, baseURL+quote.QuotePath, &reqBody)
	if err != nil {
		return nil, err
	}

	if resp.QuoteDetails == nil {
		return nil, ErrMissingQuoteDetails
	}
	details, err := resp.QuoteDetails.Details()
	if err != nil {
		return nil, fmt.Errorf("client: decode quote details: %w", err)
	}
	if len(resp.Signature) == 0 {
		return nil, errors.New("client: response missing signature")
	}

	return &RawQuote{Operator: op, Details: details, Signature: resp.Signature}, nil
}

func (c *Client) post(ctx context.Context, url string, body *quote.Request) (*quote.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("client: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: call operator: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("client: operator returned status %d: %s", httpResp.StatusCode, bytes.TrimSpace(msg))
	}

	var resp quote.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}
	return &resp, nil
}
