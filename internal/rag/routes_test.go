package rag

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/askdocs/askdocs/internal/llm"
)

func setupQueryRouter(t *testing.T, strategy Strategy, client llm.Client) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, NewOrchestrator(strategy, client, GenerationParams{}))
	return r
}

func postQuery(t *testing.T, r chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/rag/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQueryEndpoint(t *testing.T) {
	docs := makeDocs(t, 3, true)
	client := &stubClient{answer: "Go is a compiled language."}
	r := setupQueryRouter(t, &stubStrategy{docs: docs}, client)

	w := postQuery(t, r, `{"text":"What is Go?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result QueryResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Answer != "Go is a compiled language." {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if result.Query.Text != "What is Go?" {
		t.Errorf("unexpected query text %q", result.Query.Text)
	}
	if result.Query.TopK != DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", DefaultTopK, result.Query.TopK)
	}
	if len(result.Sources) != 3 {
		t.Errorf("expected 3 sources, got %v", result.Sources)
	}
}

func TestQueryEndpointExplicitTopK(t *testing.T) {
	docs := makeDocs(t, 5, true)
	client := &stubClient{answer: "answer"}
	r := setupQueryRouter(t, &stubStrategy{docs: docs}, client)

	w := postQuery(t, r, `{"text":"q","top_k":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result QueryResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Query.TopK != 2 {
		t.Errorf("expected top_k 2, got %d", result.Query.TopK)
	}
	if len(result.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", result.Sources)
	}
}

func TestQueryEndpointBadRequest(t *testing.T) {
	r := setupQueryRouter(t, &stubStrategy{}, &stubClient{answer: "answer"})

	for _, tt := range []struct {
		name string
		body string
	}{
		{"empty text", `{"text":""}`},
		{"whitespace text", `{"text":"   "}`},
		{"top_k zero", `{"text":"q","top_k":0}`},
		{"top_k too large", `{"text":"q","top_k":101}`},
		{"malformed json", `{"text":`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := postQuery(t, r, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestQueryEndpointNoDocuments(t *testing.T) {
	client := &stubClient{answer: "should never be used"}
	r := setupQueryRouter(t, &stubStrategy{}, client)

	w := postQuery(t, r, `{"text":"q"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result QueryResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Answer != SentinelNoDocuments {
		t.Errorf("expected %q, got %q", SentinelNoDocuments, result.Answer)
	}
	if client.generateCalls != 0 {
		t.Errorf("generation client should not be invoked, got %d calls", client.generateCalls)
	}
}

func TestQueryEndpointGenerationUnavailable(t *testing.T) {
	docs := makeDocs(t, 1, true)
	client := &stubClient{genErr: fmt.Errorf("%w: connection refused", llm.ErrUnavailable)}
	r := setupQueryRouter(t, &stubStrategy{docs: docs}, client)

	w := postQuery(t, r, `{"text":"q"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
}
