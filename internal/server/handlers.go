package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hmp229/psa-predict/internal/models"
	"github.com/hmp229/psa-predict/internal/service"
)

var validate = validator.New()

// predictRequest is the wire form of a prediction request
type predictRequest struct {
	CompetitorA   string `json:"competitor_a" validate:"required"`
	CompetitorB   string `json:"competitor_b" validate:"required"`
	ReferenceDate string `json:"reference_date,omitempty"`
	Seed          int64  `json:"seed,omitempty"`
}

// errorResponse is the wire form of every error
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	Suggestions []models.Suggestion `json:"suggestions,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST", nil)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", nil)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "competitor_a and competitor_b are required", nil)
		return
	}

	var refDate time.Time
	if req.ReferenceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReferenceDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "reference_date must be YYYY-MM-DD", nil)
			return
		}
		refDate = parsed.UTC()
	}

	resp, err := s.predictions.Predict(r.Context(), service.PredictionRequest{
		CompetitorA:   req.CompetitorA,
		CompetitorB:   req.CompetitorB,
		ReferenceDate: refDate,
		Seed:          req.Seed,
	})
	if err != nil {
		s.writePredictError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", notFound.Error(), notFound.Suggestions)
		return
	}

	var upstream *service.UpstreamError
	if errors.As(err, &upstream) {
		writeError(w, http.StatusBadGateway, "UPSTREAM_INVALID", upstream.Error(), nil)
		return
	}

	s.logger.WithError(err).Error("Prediction failed")
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "prediction failed", nil)
}

func writeError(w http.ResponseWriter, status int, code, message string, suggestions []models.Suggestion) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:        code,
		Message:     message,
		Suggestions: suggestions,
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
