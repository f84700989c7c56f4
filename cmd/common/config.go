package common

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tangle-network/ai-trading-blueprint-sub001/operator"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// OperatorConfig is the YAML configuration of the operator binary.
type OperatorConfig struct {
	ListenAddr        string `yaml:"listen_addr"`
	SigningKey        string `yaml:"signing_key"` // hex, generates if empty
	ChainID           uint64 `yaml:"chain_id"`
	VerifyingContract string `yaml:"verifying_contract"`
	Difficulty        uint32 `yaml:"pow_difficulty"`
	QuoteValidity     string `yaml:"quote_validity"` // duration, e.g. "5m"

	// Rates maps resource kinds to their USD price per unit per block,
	// as decimal strings (e.g. "0.0001").
	Rates map[string]string `yaml:"rates"`
}

// DefaultOperatorConfig returns the config used when no file is given.
func DefaultOperatorConfig() *OperatorConfig {
	return &OperatorConfig{
		ListenAddr:    ":8090",
		ChainID:       31337,
		QuoteValidity: "5m",
		Rates: map[string]string{
			"cpu": "0.0001",
			"mem": "0.000001",
		},
	}
}

// LoadOperatorConfig reads and parses an operator config file.
func LoadOperatorConfig(path string) (*OperatorConfig, error) {
	cfg := DefaultOperatorConfig()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RateTable converts the configured decimal rates to fixed point.
func (c *OperatorConfig) RateTable() (operator.RateTable, error) {
	rates := make(operator.RateTable, len(c.Rates))
	for kind, rate := range c.Rates {
		scaled, err := quote.ScaleCostRate(rate)
		if err != nil {
			return nil, fmt.Errorf("rate for %q: %w", kind, err)
		}
		rates[kind] = scaled
	}
	return rates, nil
}

// Validity parses the quote validity window.
func (c *OperatorConfig) Validity() (time.Duration, error) {
	if c.QuoteValidity == "" {
		return 0, nil
	}
	return time.ParseDuration(c.QuoteValidity)
}

// OperatorEntry is one candidate operator in the quoter config.
type OperatorEntry struct {
	Address    string `yaml:"address"`
	RPCAddress string `yaml:"rpc_address"`
}

// ResourceEntry is one resource requirement in the quoter config.
type ResourceEntry struct {
	Kind  string `yaml:"kind"`
	Count uint64 `yaml:"count"`
}

// QuoterConfig is the YAML configuration of the quoter binary.
type QuoterConfig struct {
	ChainID           uint64 `yaml:"chain_id"`
	VerifyingContract string `yaml:"verifying_contract"`
	BlueprintID       uint64 `yaml:"blueprint_id"`
	TTLBlocks         uint64 `yaml:"ttl_blocks"`
	Difficulty        uint32 `yaml:"pow_difficulty"`
	OperatorTimeout   string `yaml:"operator_timeout"` // duration, e.g. "30s"

	// RewriteLocalHosts enables the development-only rewrite of loopback
	// and .local operator hostnames to LocalHost. Leave off in production.
	RewriteLocalHosts bool   `yaml:"rewrite_local_hosts"`
	LocalHost         string `yaml:"local_host"`

	Operators []OperatorEntry `yaml:"operators"`
	Resources []ResourceEntry `yaml:"resources"`
}

// LoadQuoterConfig reads and parses a quoter config file.
func LoadQuoterConfig(path string) (*QuoterConfig, error) {
	cfg := &QuoterConfig{
		ChainID:         31337,
		TTLBlocks:       216000,
		OperatorTimeout: "30s",
	}
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout parses the per-operator timeout.
func (c *QuoterConfig) Timeout() (time.Duration, error) {
	if c.OperatorTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.OperatorTimeout)
}

// ChainIDBig returns the chain id in the form the hashers take.
func (c *QuoterConfig) ChainIDBig() *big.Int {
	return new(big.Int).SetUint64(c.ChainID)
}

func loadYAML(path string, out any) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
