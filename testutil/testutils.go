package testutil

import (
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tangle-network/ai-trading-blueprint-sub001/aggregator"
	"github.com/tangle-network/ai-trading-blueprint-sub001/client"
	"github.com/tangle-network/ai-trading-blueprint-sub001/operator"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// Test deployment constants shared by all fixtures.
var (
	ChainID  = big.NewInt(31337)
	Contract = common.HexToAddress("0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9")
)

// Difficulty keeps proof-of-work solves fast in tests.
const Difficulty uint32 = 8

// ServiceOption customizes a test operator service.
type ServiceOption func(*operator.Config)

// WithRates overrides the default rate table.
func WithRates(rates operator.RateTable) ServiceOption {
	return func(cfg *operator.Config) { cfg.Rates = rates }
}

// WithDifficulty overrides the proof-of-work difficulty the service
// enforces.
func WithDifficulty(d uint32) ServiceOption {
	return func(cfg *operator.Config) { cfg.Difficulty = d }
}

// WithChainID overrides the EIP-712 chain id the service signs for.
func WithChainID(id *big.Int) ServiceOption {
	return func(cfg *operator.Config) { cfg.ChainID = id }
}

// WithClock pins the service clock.
func WithClock(now func() time.Time) ServiceOption {
	return func(cfg *operator.Config) { cfg.Now = now }
}

// DefaultRates prices the resource kinds used across the tests.
func DefaultRates() operator.RateTable {
	return operator.RateTable{
		"cpu": big.NewInt(100_000), // 0.0001 USD per core per block
		"mem": big.NewInt(1_000),
		"gpu": big.NewInt(5_000_000),
	}
}

// NewService builds an operator service with a fresh key and test
// defaults.
func NewService(t *testing.T, opts ...ServiceOption) *operator.Service {
	t.Helper()

	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	cfg := operator.Config{
		Key:               key,
		ChainID:           ChainID,
		VerifyingContract: Contract,
		Difficulty:        Difficulty,
		Rates:             DefaultRates(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc, err := operator.New(cfg)
	require.NoError(t, err)
	return svc
}

// StartOperator runs an operator service behind an httptest listener and
// returns the Operator record a round would be handed for it. The
// listener is torn down with the test.
func StartOperator(t *testing.T, opts ...ServiceOption) quote.Operator {
	t.Helper()

	svc := NewService(t, opts...)
	r := chi.NewRouter()
	svc.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return quote.Operator{Address: svc.Address(), RPCAddress: srv.URL}
}

// NewClient builds a quote client with test difficulty and timeout.
func NewClient(t *testing.T, timeout time.Duration) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{Difficulty: Difficulty, Timeout: timeout})
	require.NoError(t, err)
	return c
}

// NewCollector builds a collector for the test deployment.
func NewCollector(t *testing.T, c *client.Client) *aggregator.Collector {
	t.Helper()

	col, err := aggregator.NewCollector(aggregator.Config{
		ChainID:           ChainID,
		VerifyingContract: Contract,
		Client:            c,
	})
	require.NoError(t, err)
	return col
}
