package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServiceVersion is reported by the health and root endpoints.
const ServiceVersion = "1.0.0"

// QuotePDFGenerator is the narrow surface the HTTP handlers need from
// the quote pipeline.
type QuotePDFGenerator interface {
	GenerateQuotePDF(opportunityid string, ctx context.Context) (GenerateQuotePDFResult, error)
}

// NewRouter builds the HTTP surface of the quote PDF service.
func NewRouter(generator QuotePDFGenerator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)
	r.Post("/generate-quote-pdf", generateQuotePDFHandler(generator))

	return r
}

type errorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

type generateQuotePDFResponse struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	ContentDocumentID string `json:"contentDocumentId,omitempty"`
	ContentVersionID  string `json:"contentVersionId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Opportunity Quote PDF Generator API",
		"version": ServiceVersion,
		"health":  "/health",
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"version":   ServiceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func generateQuotePDFHandler(generator QuotePDFGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateQuotePDFRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OpportunityID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Status:    "error",
				Message:   "opportunityId is required",
				ErrorCode: "BAD_REQUEST",
			})
			return
		}

		result, err := generator.GenerateQuotePDF(req.OpportunityID, r.Context())
		if err != nil {
			if errors.Is(err, ErrOpportunityNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{
					Status:    "error",
					Message:   "Opportunity not found",
					ErrorCode: "NOT_FOUND",
				})
				return
			}
			log.Printf("Error generating PDF: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Status:    "error",
				Message:   err.Error(),
				ErrorCode: "INTERNAL_ERROR",
			})
			return
		}

		writeJSON(w, http.StatusOK, generateQuotePDFResponse{
			Status:            "success",
			Message:           "PDF generated and attached to Opportunity.",
			ContentDocumentID: result.ContentDocumentID,
			ContentVersionID:  result.ContentVersionID,
		})
	}
}
