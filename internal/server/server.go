// Package server exposes the ledger, analytics, and assist operations over a
// JSON HTTP API for the frontend.
package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moneymind/backend/internal/assist"
	"github.com/moneymind/backend/internal/service"
)

// Server routes HTTP requests to the finance service and the assist
// pipeline.
type Server struct {
	finance  *service.FinanceService
	pipeline *assist.Pipeline
	sessions *assist.SessionRegistry
	logger   *zap.Logger
}

// New creates the API handler.
func New(finance *service.FinanceService, pipeline *assist.Pipeline, sessions *assist.SessionRegistry, logger *zap.Logger) *Server {
	return &Server{
		finance:  finance,
		pipeline: pipeline,
		sessions: sessions,
		logger:   logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/transactions", s.listTransactions)
	mux.HandleFunc("POST /api/v1/transactions", s.createTransaction)
	mux.HandleFunc("PUT /api/v1/transactions/{id}", s.updateTransaction)
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.deleteTransaction)

	mux.HandleFunc("GET /api/v1/goals", s.listGoals)
	mux.HandleFunc("POST /api/v1/goals", s.createGoal)
	mux.HandleFunc("POST /api/v1/goals/{id}/deposits", s.depositToGoal)
	mux.HandleFunc("DELETE /api/v1/goals/{id}", s.deleteGoal)

	mux.HandleFunc("GET /api/v1/budget", s.getBudget)
	mux.HandleFunc("PUT /api/v1/budget", s.setBudget)

	mux.HandleFunc("GET /api/v1/analytics/summary", s.monthlySummary)
	mux.HandleFunc("GET /api/v1/analytics/categories", s.categoryBreakdown)
	mux.HandleFunc("GET /api/v1/analytics/series", s.monthlySeries)

	mux.HandleFunc("POST /api/v1/assist/sessions", s.openSession)
	mux.HandleFunc("GET /api/v1/assist/sessions/{id}", s.getSession)
	mux.HandleFunc("POST /api/v1/assist/sessions/{id}/classify", s.classifySession)
	mux.HandleFunc("POST /api/v1/assist/sessions/{id}/category", s.overrideSessionCategory)
	mux.HandleFunc("DELETE /api/v1/assist/sessions/{id}", s.closeSession)
	mux.HandleFunc("POST /api/v1/assist/parse-entry", s.parseEntry)
	mux.HandleFunc("POST /api/v1/assist/receipt", s.parseReceipt)
	mux.HandleFunc("POST /api/v1/assist/insights", s.insights)
	mux.HandleFunc("POST /api/v1/assist/chat", s.chat)

	mux.HandleFunc("GET /api/v1/export", s.exportPayload)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
