package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/tangle-network/ai-trading-blueprint-sub001/pow"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

const testDifficulty = 8

func testClient(t *testing.T, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{Difficulty: testDifficulty, Timeout: timeout})
	require.NoError(t, err)
	return c
}

func testOperator(url string) quote.Operator {
	return quote.Operator{
		Address:    common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		RPCAddress: url,
	}
}

func TestFetchQuoteHappyPath(t *testing.T) {
	var received quote.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, quote.QuotePath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(&quote.Response{
			QuoteDetails: &quote.DetailsMessage{
				BlueprintID: received.BlueprintID,
				TTLBlocks:   received.TTLBlocks,
				CostRateUSD: "1.5",
				Timestamp:   received.ChallengeTimestamp,
				Expiry:      received.ChallengeTimestamp + 300,
			},
			Signature: make([]byte, 64),
		})
	}))
	defer srv.Close()

	raw, err := testClient(t, 10*time.Second).FetchQuote(context.Background(), testOperator(srv.URL), RequestParams{
		BlueprintID:          7,
		TTLBlocks:            100,
		ResourceRequirements: []quote.ResourceRequirement{{Kind: "cpu", Count: 2}},
	})
	require.NoError(t, err)

	// The transmitted proof must decode per the fixed layout and satisfy
	// the difficulty for the challenge derived from the request fields.
	proof, err := pow.UnmarshalProof(received.ProofOfWork)
	require.NoError(t, err)
	challenge := pow.GenerateChallenge(received.BlueprintID, received.ChallengeTimestamp)
	require.True(t, pow.Verify(challenge, proof, testDifficulty))

	require.Equal(t, uint64(7), raw.Details.BlueprintID)
	require.Equal(t, int64(1_500_000_000), raw.Details.TotalCost.Int64())
	require.Len(t, raw.Signature, 64)
}

func TestFetchQuoteNoRPCAddress(t *testing.T) {
	_, err := testClient(t, time.Second).FetchQuote(context.Background(), quote.Operator{}, RequestParams{})
	require.ErrorIs(t, err, ErrNoRPCAddress)
}

func TestFetchQuoteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	start := time.Now()
	_, err := testClient(t, 200*time.Millisecond).FetchQuote(context.Background(), testOperator(srv.URL), RequestParams{})
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestFetchQuoteMissingDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&quote.Response{Signature: make([]byte, 64)})
	}))
	defer srv.Close()

	_, err := testClient(t, 10*time.Second).FetchQuote(context.Background(), testOperator(srv.URL), RequestParams{})
	require.ErrorIs(t, err, ErrMissingQuoteDetails)
}

func TestFetchQuoteMalformedCostRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&quote.Response{
			QuoteDetails: &quote.DetailsMessage{CostRateUSD: "not-a-number"},
			Signature:    make([]byte, 64),
		})
	}))
	defer srv.Close()

	_, err := testClient(t, 10*time.Second).FetchQuote(context.Background(), testOperator(srv.URL), RequestParams{})
	require.ErrorIs(t, err, quote.ErrBadCostRate)
}

func TestFetchQuoteOperatorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "proof rejected", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(t, 10*time.Second).FetchQuote(context.Background(), testOperator(srv.URL), RequestParams{})
	require.ErrorContains(t, err, "403")
	require.ErrorContains(t, err, "proof rejected")
}

func TestResolveEndpoint(t *testing.T) {
	cases := []struct {
		in      string
		rewrite bool
		local   string
		want    string
	}{
		{"10.0.0.5:9000", false, "", "http://10.0.0.5:9000"},
		{"http://op.example.com:9000", false, "", "http://op.example.com:9000"},
		{"https://op.example.com", false, "", "https://op.example.com"},
		// Rewrites apply only when enabled and only to local names.
		{"localhost:9000", true, "192.168.1.10", "http://192.168.1.10:9000"},
		{"127.0.0.1:9000", true, "192.168.1.10", "http://192.168.1.10:9000"},
		{"http://op1.local:9000", true, "192.168.1.10", "http://192.168.1.10:9000"},
		{"localhost:9000", false, "192.168.1.10", "http://localhost:9000"},
		{"http://op.example.com:9000", true, "192.168.1.10", "http://op.example.com:9000"},
	}
	for _, tc := range cases {
		got, err := resolveEndpoint(tc.in, tc.rewrite, tc.local)
		require.NoError(t, err, "addr %q", tc.in)
		require.Equal(t, tc.want, got, "addr %q", tc.in)
	}
}

func TestResolveEndpointRejectsEmptyHost(t *testing.T) {
	_, err := resolveEndpoint("http://", false, "")
	require.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Difficulty: 300})
	require.Error(t, err)

	_, err = New(Config{RewriteLocalHosts: true})
	require.Error(t, err)
}
