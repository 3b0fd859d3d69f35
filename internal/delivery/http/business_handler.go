package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tradejoy/internal/delivery/http/dto"
	"tradejoy/internal/domain"
	"tradejoy/internal/service"
	"tradejoy/internal/voice"
)

// DefaultUserID is used when a request does not carry an explicit user.
const DefaultUserID = "demo_user"

// DefaultAnalyticsDays is the lookback window when none is requested.
const DefaultAnalyticsDays = 7

var voiceSuggestions = []string{
	`Try: "I sold apples for 50 rupees"`,
	`Try: "Bought supplies for ₹200"`,
	`Try: "Made 300 from service"`,
}

// BusinessHandler handles the small-business ledger requests
type BusinessHandler struct {
	business *service.BusinessService
	logger   zerolog.Logger
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(business *service.BusinessService, logger zerolog.Logger) *BusinessHandler {
	return &BusinessHandler{
		business: business,
		logger:   logger,
	}
}

// RegisterRoutes mounts all ledger routes on the router.
func (h *BusinessHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/transactions", h.ListTransactions)
		r.Post("/transactions", h.CreateTransaction)
		r.Delete("/transactions/{id}", h.DeleteTransaction)
		r.Post("/voice-command", h.VoiceCommand)
		r.Get("/stats", h.GetStats)
		r.Get("/coach-tip", h.GetCoachTip)
		r.Get("/profile", h.GetProfile)
		r.Post("/profile", h.UpdateProfile)
		r.Get("/analytics", h.GetAnalytics)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func userIDFromQuery(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("user_id")); id != "" {
		return id
	}
	return DefaultUserID
}

// Health reports service liveness
// GET /api/health
func (h *BusinessHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"service": "tradejoy-business",
	})
}

// ListTransactions returns the user's transactions, newest first
// GET /api/transactions
func (h *BusinessHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromQuery(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transactions, err := h.business.Transactions(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list transactions")
		respondError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	respondSuccess(w, map[string]interface{}{
		"transactions": transactions,
	})
}

// CreateTransaction records a manually entered transaction
// POST /api/transactions
func (h *BusinessHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Type != domain.KindSale && req.Type != domain.KindExpense {
		respondError(w, http.StatusBadRequest, "Type must be sale or expense")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	tx := &domain.Transaction{
		UserID:      req.UserID,
		Kind:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := h.business.AddTransaction(r.Context(), tx); err != nil {
		h.logger.Error().Err(err).Msg("failed to create transaction")
		respondError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"transaction": tx,
	})
}

// DeleteTransaction removes one transaction owned by the user
// DELETE /api/transactions/{id}
func (h *BusinessHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	userID := userIDFromQuery(r)

	if err := h.business.DeleteTransaction(r.Context(), uint(id), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete transaction")
		respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": "Transaction deleted",
	})
}

// VoiceCommand parses a spoken command and records the transaction it
// describes. An unparseable command is not an error: the client gets a
// success:false body with example phrasings.
// POST /api/voice-command
func (h *BusinessHandler) VoiceCommand(w http.ResponseWriter, r *http.Request) {
	var req dto.VoiceCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		respondError(w, http.StatusBadRequest, "Command is required")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	tx, err := h.business.ProcessVoiceCommand(r.Context(), req.UserID, req.Command)
	if err != nil {
		if errors.Is(err, voice.ErrNoTransaction) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success":     false,
				"error":       "Could not understand the command",
				"suggestions": voiceSuggestions,
			})
			return
		}
		h.logger.Error().Err(err).Msg("failed to process voice command")
		respondError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"transaction": tx,
		"message":     "Transaction recorded",
	})
}

// GetStats returns aggregate business statistics
// GET /api/stats
func (h *BusinessHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.business.Stats(r.Context(), userIDFromQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"stats": stats,
	})
}

// GetCoachTip returns a motivational tip alongside current stats
// GET /api/coach-tip
func (h *BusinessHandler) GetCoachTip(w http.ResponseWriter, r *http.Request) {
	tip, stats, err := h.business.CoachTip(r.Context(), userIDFromQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute coach tip")
		respondError(w, http.StatusInternalServerError, "Failed to compute tip")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"tip":   tip,
		"stats": stats,
	})
}

// GetProfile returns the business profile, falling back to defaults when
// the user has never saved one.
// GET /api/profile
func (h *BusinessHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromQuery(r)

	profile, err := h.business.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			profile = &domain.BusinessProfile{
				UserID:       userID,
				DailyTarget:  domain.DefaultDailyTarget,
				WeeklyTarget: domain.DefaultWeeklyTarget,
			}
		} else {
			h.logger.Error().Err(err).Msg("failed to load profile")
			respondError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
	}

	respondSuccess(w, map[string]interface{}{
		"profile": profile,
	})
}

// UpdateProfile upserts the business profile
// POST /api/profile
func (h *BusinessHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	profile := &domain.BusinessProfile{
		UserID:       req.UserID,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		DailyTarget:  req.DailyTarget,
		WeeklyTarget: req.WeeklyTarget,
	}
	if err := h.business.UpdateProfile(r.Context(), profile); err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		respondError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"profile": profile,
		"message": "Profile updated",
	})
}

// GetAnalytics returns daily series and the category breakdown
// GET /api/analytics?days=N
func (h *BusinessHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	days := DefaultAnalyticsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid days")
			return
		}
		days = parsed
	}

	analytics, err := h.business.Analytics(r.Context(), userIDFromQuery(r), days)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute analytics")
		respondError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"analytics": analytics,
	})
}
