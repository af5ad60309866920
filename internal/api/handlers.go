package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/postwerk/postwerk/internal/models"
	"github.com/postwerk/postwerk/internal/usage"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// QuotaLedger is the usage-quota engine the handlers forward to.
type QuotaLedger interface {
	CheckUsageLimit(ctx context.Context, userID string, t models.ContentType) (*usage.UsageDecision, error)
	IncrementUsage(ctx context.Context, userID string, t models.ContentType) error
	PurchaseExtraTokens(ctx context.Context, userID string, tokenCount int) (*usage.PurchaseResult, error)
	GetUserUsage(ctx context.Context, userID string) (*usage.UsageSnapshot, error)
}

type UsageHandler struct {
	ledger          QuotaLedger
	tokenPriceCents int
}

func NewUsageHandler(ledger QuotaLedger, tokenPriceCents int) *UsageHandler {
	return &UsageHandler{ledger: ledger, tokenPriceCents: tokenPriceCents}
}

type UsageRequest struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
}

type PurchaseTokensRequest struct {
	UserID     string `json:"userId"`
	TokenCount int    `json:"tokenCount"`
}

type PurchaseTokensResponse struct {
	Success     bool    `json:"success"`
	TokensAdded int     `json:"tokensAdded"`
	TotalPrice  float64 `json:"totalPrice"`
	ReceiptID   string  `json:"receiptId"`
	Message     string  `json:"message"`
}

func (h *UsageHandler) CheckUsage(w http.ResponseWriter, r *http.Request) {
	var req UsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Type == "" {
		http.Error(w, "userId and type are required", http.StatusBadRequest)
		return
	}
	contentType, ok := models.ParseContentType(req.Type)
	if !ok {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	decision, err := h.ledger.CheckUsageLimit(r.Context(), req.UserID, contentType)
	if err != nil {
		log.Printf("Failed to check usage limit: %v", err)
		http.Error(w, "Failed to check usage limit", http.StatusInternalServerError)
		return
	}

	recordQuotaCheck(contentType, decision.CanGenerate)
	writeJSON(w, decision)
}

func (h *UsageHandler) IncrementUsage(w http.ResponseWriter, r *http.Request) {
	var req UsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Type == "" {
		http.Error(w, "userId and type are required", http.StatusBadRequest)
		return
	}
	contentType, ok := models.ParseContentType(req.Type)
	if !ok {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	if err := h.ledger.IncrementUsage(r.Context(), req.UserID, contentType); err != nil {
		log.Printf("Failed to increment usage: %v", err)
		http.Error(w, "Failed to increment usage", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *UsageHandler) PurchaseTokens(w http.ResponseWriter, r *http.Request) {
	var req PurchaseTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.TokenCount < 1 {
		http.Error(w, "userId and valid tokenCount are required", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.PurchaseExtraTokens(r.Context(), req.UserID, req.TokenCount)
	if err != nil {
		if errors.Is(err, usage.ErrInvalidTokenCount) || errors.Is(err, usage.ErrInvalidUserID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Failed to purchase tokens: %v", err)
		http.Error(w, "Failed to purchase tokens", http.StatusInternalServerError)
		return
	}

	extraTokensPurchased.Add(float64(result.TokensAdded))
	writeJSON(w, PurchaseTokensResponse{
		Success:     result.Success,
		TokensAdded: result.TokensAdded,
		TotalPrice:  float64(result.TokensAdded*h.tokenPriceCents) / 100,
		ReceiptID:   uuid.NewString(),
		Message:     fmt.Sprintf("%d zusätzliche Tokens erfolgreich hinzugefügt!", result.TokensAdded),
	})
}

func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.ledger.GetUserUsage(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to load usage snapshot: %v", err)
		http.Error(w, "Failed to load usage", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		http.Error(w, "No active subscription found", http.StatusNotFound)
		return
	}

	writeJSON(w, snapshot)
}
