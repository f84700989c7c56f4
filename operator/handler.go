package operator

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tangle-network/ai-trading-blueprint-sub001/crypto"
	"github.com/tangle-network/ai-trading-blueprint-sub001/eip712"
	"github.com/tangle-network/ai-trading-blueprint-sub001/quote"
)

// RegisterRoutes registers the quote endpoint with the server's router.
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Post(quote.QuotePath, s.handleQuote)
}

// handleQuote prices one quote request. Proof failures are 403, pricing
// refusals and malformed bodies are 400.
func (s *Service) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.checkProof(&req); err != nil {
		s.log.Warn("refused quote request", "blueprint", req.BlueprintID, "err", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	details, err := s.price(&req)
	if err != nil {
		s.log.Warn("could not price request", "blueprint", req.BlueprintID, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	digest := eip712.QuoteDigest(s.cfg.ChainID, s.cfg.VerifyingContract, details)
	sig, err := crypto.SignQuoteDigest(digest, s.cfg.Key)
	if err != nil {
		s.log.Error("signing failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.log.Info("quote issued",
		"blueprint", req.BlueprintID,
		"ttlBlocks", req.TTLBlocks,
		"totalCost", details.TotalCost,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&quote.Response{
		QuoteDetails: details.Message(),
		Signature:    sig,
	})
}
