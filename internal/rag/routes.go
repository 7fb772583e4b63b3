package rag

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askdocs/askdocs/internal/llm"
)

// RegisterRoutes mounts the RAG query API route.
func RegisterRoutes(r chi.Router, orch *Orchestrator) {
	r.Post("/api/rag/query", handleQuery(orch))
}

type queryRequest struct {
	Text string `json:"text"`
	TopK *int   `json:"top_k"`
}

func handleQuery(orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		topK := DefaultTopK
		if req.TopK != nil {
			topK = *req.TopK
		}

		// Reject bad input before the pipeline runs.
		if _, err := NewQuery(req.Text, topK); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		result, err := orch.Execute(r.Context(), req.Text, topK)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidQuery):
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			case errors.Is(err, ErrGenerationTimeout):
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusGatewayTimeout)
			case errors.Is(err, llm.ErrUnavailable):
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusServiceUnavailable)
			default:
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
