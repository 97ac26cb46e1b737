// Package server exposes the wallet analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tokenfolio/internal/model"
	"tokenfolio/internal/report"
)

// Analyzer is the wallet analysis surface the server fronts.
type Analyzer interface {
	WalletSummary(ctx context.Context, address string) (*model.WalletSummary, error)
	Behavior(ctx context.Context, address string, cutoff int64) (*model.BehaviorReport, error)
}

// Server serves wallet summaries over HTTP.
type Server struct {
	analyzer       Analyzer
	allowedOrigins map[string]struct{}
	logger         *zap.Logger
	httpServer     *http.Server
}

// New builds the server. allowedOrigins is the CORS allowlist; empty means
// no cross-origin access.
func New(addr string, analyzer Analyzer, allowedOrigins []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}

	s := &Server{
		analyzer:       analyzer,
		allowedOrigins: origins,
		logger:         logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/wallet", s.handleWallet)
	mux.HandleFunc("/api/wallet/report", s.handleReport)
	mux.HandleFunc("/api/wallet/behavior", s.handleBehavior)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.cors(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := s.allowedOrigins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	summary, err := s.analyzer.WalletSummary(r.Context(), address)
	if err != nil {
		s.logger.Error("wallet summary failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	writeResult(w, summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	summary, err := s.analyzer.WalletSummary(r.Context(), address)
	if err != nil {
		s.logger.Error("wallet summary failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	writeResult(w, report.FormatSummary(summary))
}

func (s *Server) handleBehavior(w http.ResponseWriter, r *http.Request) {
	address, ok := s.walletAddress(w, r)
	if !ok {
		return
	}

	var cutoff int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		cutoff = parsed
	}

	behavior, err := s.analyzer.Behavior(r.Context(), address, cutoff)
	if err != nil {
		s.logger.Error("behavior analysis failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	writeResult(w, behavior)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeResult(w, "ok")
}

// walletAddress validates the wallet_address query parameter, writing the
// error response itself when validation fails.
func (s *Server) walletAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	address := r.URL.Query().Get("wallet_address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "wallet_address is required")
		return "", false
	}
	if !common.IsHexAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return "", false
	}
	return address, true
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"result": result})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": message})
}
