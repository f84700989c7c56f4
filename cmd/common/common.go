// Package common provides shared helpers for the quoting CLI commands:
// key loading and generation, logger construction, and the YAML
// configuration files read by the operator and quoter binaries.
package common

import (
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// LoadOrGenerateKey loads a secp256k1 private key from a hex string, or
// generates a fresh key if hexKey is empty.
func LoadOrGenerateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if hexKey != "" {
		key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid key hex: %w", err)
		}
		return key, nil
	}
	return gethcrypto.GenerateKey()
}

// NewLogger builds the process logger. JSON output is intended for
// production deployments; text for local runs.
func NewLogger(jsonOutput, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if jsonOutput {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
