package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokenfolio/internal/model"
)

const validAddress = "0x1111111111111111111111111111111111111111"

type fakeAnalyzer struct {
	summary *model.WalletSummary
	report  *model.BehaviorReport
	err     error
}

func (f *fakeAnalyzer) WalletSummary(_ context.Context, address string) (*model.WalletSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeAnalyzer) Behavior(_ context.Context, address string, cutoff int64) (*model.BehaviorReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func newTestServer(analyzer *fakeAnalyzer, origins []string) *Server {
	return New(":0", analyzer, origins, nil)
}

func doRequest(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestWalletEndpoint(t *testing.T) {
	analyzer := &fakeAnalyzer{summary: &model.WalletSummary{
		Address: validAddress,
		Tokens:  model.TokenCounts{Purchased: 3},
	}}
	s := newTestServer(analyzer, nil)

	rec := doRequest(s, "/api/wallet?wallet_address="+validAddress)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Result model.WalletSummary `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Result.Tokens.Purchased != 3 {
		t.Fatalf("tokens purchased = %d, want 3", body.Result.Tokens.Purchased)
	}
}

func TestWalletEndpointRejectsBadAddress(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, nil)

	for _, target := range []string{
		"/api/wallet",
		"/api/wallet?wallet_address=not-an-address",
		"/api/wallet?wallet_address=0x123",
	} {
		rec := doRequest(s, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error == "" {
			t.Fatalf("%s: error message missing", target)
		}
	}
}

func TestWalletEndpointAnalysisFailure(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{err: fmt.Errorf("provider down")}, nil)

	rec := doRequest(s, "/api/wallet?wallet_address="+validAddress)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestBehaviorEndpoint(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{report: &model.BehaviorReport{TotalTokens: 2}}, nil)

	rec := doRequest(s, "/api/wallet/behavior?wallet_address="+validAddress+"&since=1700000000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(s, "/api/wallet/behavior?wallet_address="+validAddress+"&since=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad since", rec.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{summary: &model.WalletSummary{Address: validAddress}}, nil)

	rec := doRequest(s, "/api/wallet/report?wallet_address="+validAddress)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Result == "" {
		t.Fatal("text report missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(&fakeAnalyzer{}, nil), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCORSAllowlist(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q, want the listed origin", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin = %q for an unlisted origin", got)
	}
}
