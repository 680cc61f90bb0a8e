package server

import (
	"net/http"
	"time"

	"github.com/moneymind/backend/internal/analytics"
	"github.com/moneymind/backend/internal/format"
)

func (s *Server) monthlySummary(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	txns := s.finance.Transactions()
	totals := analytics.MonthlyTotals(txns, year, month)
	progress := s.finance.Progress(totals.Expense)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"totals":   totals,
		"budget":   s.finance.Budget(),
		"progress": progress,
	})
}

func (s *Server) categoryBreakdown(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	txns := analytics.FilterMonth(s.finance.Transactions(), year, month)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"categories": analytics.CategoryBreakdown(txns),
	})
}

func (s *Server) monthlySeries(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"series": analytics.MonthlySeries(s.finance.Transactions()),
	})
}

// exportPayload assembles what the document renderer needs: the ordered
// transaction list plus precomputed and display-formatted totals. Rendering
// itself happens downstream.
func (s *Server) exportPayload(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	txns := s.finance.Transactions()
	totals := analytics.MonthlyTotals(txns, now.Year(), now.Month())

	s.writeJSON(w, http.StatusOK, map[string]any{
		"generatedAt":  now.Format(time.RFC3339),
		"transactions": txns,
		"totals":       totals,
		"display": map[string]string{
			"income":  format.Rupees(totals.Income),
			"expense": format.Rupees(totals.Expense),
			"balance": format.Rupees(totals.Balance),
		},
	})
}
