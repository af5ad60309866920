package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/postwerk/postwerk/internal/generate"
	"github.com/postwerk/postwerk/internal/models"
)

// GenerateHandler implements the check-then-generate-then-increment caller
// contract of the quota ledger: a unit is only recorded after the generator
// returned successfully.
type GenerateHandler struct {
	ledger    QuotaLedger
	generator generate.Generator
}

func NewGenerateHandler(ledger QuotaLedger, generator generate.Generator) *GenerateHandler {
	return &GenerateHandler{ledger: ledger, generator: generator}
}

type GenerateRequest struct {
	UserID string `json:"userId"`
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Success         bool   `json:"success"`
	Content         string `json:"content,omitempty"`
	Error           string `json:"error,omitempty"`
	RemainingTokens int    `json:"remainingTokens"`
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	contentType, ok := models.ParseContentType(mux.Vars(r)["type"])
	if !ok {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Prompt == "" {
		http.Error(w, "userId and prompt are required", http.StatusBadRequest)
		return
	}

	decision, err := h.ledger.CheckUsageLimit(r.Context(), req.UserID, contentType)
	if err != nil {
		log.Printf("Failed to check usage limit: %v", err)
		http.Error(w, "Failed to check usage limit", http.StatusInternalServerError)
		return
	}
	recordQuotaCheck(contentType, decision.CanGenerate)

	if !decision.CanGenerate {
		recordGeneration(contentType, "denied")
		writeJSON(w, GenerateResponse{
			Success:         false,
			Error:           decision.Reason,
			RemainingTokens: decision.RemainingTokens,
		})
		return
	}

	content, err := h.generator.GenerateContent(r.Context(), req.Prompt)
	if err != nil {
		log.Printf("Failed to generate content: %v", err)
		recordGeneration(contentType, "failed")
		http.Error(w, "Failed to generate content", http.StatusInternalServerError)
		return
	}

	// The unit was consumed; losing the increment under-counts, so only log.
	if err := h.ledger.IncrementUsage(r.Context(), req.UserID, contentType); err != nil {
		log.Printf("Failed to increment usage after generation: %v", err)
	}

	recordGeneration(contentType, "ok")
	writeJSON(w, GenerateResponse{
		Success:         true,
		Content:         content,
		RemainingTokens: decision.RemainingTokens - 1,
	})
}
