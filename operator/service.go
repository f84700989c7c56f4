package operator

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tangle-network/ai-trading-blueprint-sub001/crypto"
	"github.com/tangle-network/ai-trading-blueprint-sub001/pow"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// Defaults applied by New when the corresponding config field is zero.
const (
	DefaultMaxChallengeSkew = 5 * time.Minute
	DefaultQuoteValidity    = 5 * time.Minute
)

// RateTable maps a resource kind to its price in nano-USD per unit per
// block.
type RateTable map[string]*big.Int

// Config parameterizes an operator service.
type Config struct {
	// Key signs quotes; its address is the operator's on-chain identity.
	Key *ecdsa.PrivateKey

	// ChainID and VerifyingContract pin the EIP-712 domain signed over.
	ChainID           *big.Int
	VerifyingContract common.Address

	// Difficulty is the proof-of-work difficulty requests must satisfy.
	// Zero selects pow.DefaultDifficulty.
	Difficulty uint32

	// MaxChallengeSkew bounds how far a request's challenge timestamp may
	// drift from this service's clock before the proof is refused.
	MaxChallengeSkew time.Duration

	// QuoteValidity is the window between a quote's timestamp and its
	// expiry.
	QuoteValidity time.Duration

	// Rates prices resource kinds. Requests naming a kind outside the
	// table are refused.
	Rates RateTable

	// Log is the structured logger. Nil discards.
	Log *slog.Logger

	// Now overrides the clock in tests. Nil selects time.Now.
	Now func() time.Time
}

// Service prices and signs quote requests.
type Service struct {
	cfg     Config
	address common.Address
	log     *slog.Logger
	now     func() time.Time
}

// New validates the config and builds a service.
func New(cfg Config) (*Service, error) {
	if cfg.Key == nil {
		return nil, errors.New("operator: signing key cannot be nil")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("operator: chain id must be a positive integer")
	}
	if len(cfg.Rates) == 0 {
		return nil, errors.New("operator: rate table cannot be empty")
	}
	if cfg.Difficulty == 0 {
		cfg.Difficulty = pow.DefaultDifficulty
	}
	if cfg.MaxChallengeSkew <= 0 {
		cfg.MaxChallengeSkew = DefaultMaxChallengeSkew
	}
	if cfg.QuoteValidity <= 0 {
		cfg.QuoteValidity = DefaultQuoteValidity
	}

	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		cfg:     cfg,
		address: crypto.AddressOf(cfg.Key),
		log:     log,
		now:     now,
	}, nil
}

// Address returns the operator's on-chain identity.
func (s *Service) Address() common.Address {
	return s.address
}

// checkProof validates the proof-of-work attached to a request against
// the challenge recomputed from the request's own fields.
func (s *Service) checkProof(req *quote.Request) error {
	proof, err := pow.UnmarshalProof(req.ProofOfWork)
	if err != nil {
		return err
	}

	skew := s.now().Sub(time.Unix(int64(req.ChallengeTimestamp), 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > s.cfg.MaxChallengeSkew {
		return fmt.Errorf("challenge timestamp outside acceptance window (skew %s)", skew)
	}

	challenge := pow.GenerateChallenge(req.BlueprintID, req.ChallengeTimestamp)
	if !pow.Verify(challenge, proof, s.cfg.Difficulty) {
		return errors.New("proof of work does not satisfy difficulty")
	}
	return nil
}

// price builds the quote details for a request: per-block rates summed
// over the resource requirements, scaled by the ttl, with security
// commitments at the requested minimum exposure.
func (s *Service) price(req *quote.Request) (quote.Details, error) {
	perBlock := new(big.Int)
	for _, rr := range req.ResourceRequirements {
		rate, ok := s.cfg.Rates[rr.Kind]
		if !ok {
			return quote.Details{}, fmt.Errorf("unpriced resource kind %q", rr.Kind)
		}
		line := new(big.Int).Mul(rate, new(big.Int).SetUint64(rr.Count))
		perBlock.Add(perBlock, line)
	}
	total := perBlock.Mul(perBlock, new(big.Int).SetUint64(req.TTLBlocks))

	commitments := make([]quote.AssetSecurityCommitment, 0, len(req.SecurityRequirements))
	for _, sr := range req.SecurityRequirements {
		asset, err := sr.Asset.Asset()
		if err != nil {
			return quote.Details{}, err
		}
		if sr.MinimumExposurePercent > 100 || sr.MaximumExposurePercent > 100 ||
			sr.MinimumExposurePercent > sr.MaximumExposurePercent {
			return quote.Details{}, fmt.Errorf("invalid exposure range %d..%d", sr.MinimumExposurePercent, sr.MaximumExposurePercent)
		}
		commitments = append(commitments, quote.AssetSecurityCommitment{
			Asset:       asset,
			ExposureBps: uint16(sr.MinimumExposurePercent * 100),
		})
	}

	ts := uint64(s.now().Unix())
	return quote.Details{
		BlueprintID:         req.BlueprintID,
		TTLBlocks:           req.TTLBlocks,
		TotalCost:           total,
		Timestamp:           ts,
		Expiry:              ts + uint64(s.cfg.QuoteValidity/time.Second),
		SecurityCommitments: commitments,
	}, nil
}
