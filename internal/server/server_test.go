package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stocksim/stocksim/internal/dispatch"
	"github.com/stocksim/stocksim/internal/ledger"
	"github.com/stocksim/stocksim/internal/marketdata"
	"github.com/stocksim/stocksim/models"
)

type nopNotifier struct{}

func (nopNotifier) NotifyTrade(ctx context.Context, tx models.Transaction) error { return nil }

func newTestServer() *Server {
	provider := marketdata.NewMockProvider(42)
	research := marketdata.NewMockResearch(42)
	led := ledger.New(100000, provider)
	d := dispatch.New(provider, research, led, nopNotifier{})
	return New(d, led, provider, 1000)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestServer(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	w := doJSON(t, newTestServer(), http.MethodGet, "/api/analyze/AAPL?timeframe=3m", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp models.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != models.StatusOK || resp.Type != models.RequestStockAnalysis {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestOrderRoute_ExecutedAndRejected(t *testing.T) {
	s := newTestServer()

	w := doJSON(t, s, http.MethodPost, "/api/orders", models.Order{
		Symbol: "MSFT", Action: "buy", Type: "market", Quantity: 10,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("buy status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// Malformed: unknown action rejected by binding.
	w = doJSON(t, s, http.MethodPost, "/api/orders", map[string]any{
		"symbol": "MSFT", "action": "borrow", "type": "market", "quantity": 10,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid action status = %d, want 400", w.Code)
	}

	// Business rejection: selling more than held.
	w = doJSON(t, s, http.MethodPost, "/api/orders", models.Order{
		Symbol: "MSFT", Action: "sell", Type: "market", Quantity: 999,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("oversell status = %d, want 422: %s", w.Code, w.Body.String())
	}
}

func TestPortfolioLifecycleRoutes(t *testing.T) {
	s := newTestServer()

	doJSON(t, s, http.MethodPost, "/api/orders", models.Order{
		Symbol: "AAPL", Action: "buy", Type: "market", Quantity: 5,
	})

	w := doJSON(t, s, http.MethodGet, "/api/portfolio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("portfolio status = %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/portfolio/refresh", nil)
	if w.Code != http.StatusOK {
		t.Errorf("refresh status = %d", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/performance/1w", nil)
	if w.Code != http.StatusOK {
		t.Errorf("performance status = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodGet, "/api/performance/2w", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad period status = %d, want 400", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/portfolio/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	var resp models.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, _ := json.Marshal(resp.Data)
	var snap models.Portfolio
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Cash != 100000 || len(snap.Positions) != 0 {
		t.Errorf("reset snapshot = %+v", snap)
	}
}

func TestDispatchRoute(t *testing.T) {
	s := newTestServer()

	w := doJSON(t, s, http.MethodPost, "/api/dispatch", models.Request{
		Type:       models.RequestMarketResearch,
		Parameters: map[string]any{"type": "sector"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp models.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != models.StatusOK {
		t.Errorf("envelope status = %q (error: %s)", resp.Status, resp.Error)
	}

	// Envelope-level failures still travel over HTTP 200.
	w = doJSON(t, s, http.MethodPost, "/api/dispatch", models.Request{Type: "nonsense"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != models.StatusError {
		t.Errorf("envelope status = %q, want error", resp.Status)
	}
}
