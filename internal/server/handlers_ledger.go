package server

import (
	"net/http"

	"github.com/moneymind/backend/internal/model"
	"github.com/moneymind/backend/internal/service"
)

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": s.finance.Transactions(),
	})
}

type createTransactionRequest struct {
	service.TransactionDraft
	Category string `json:"category"`
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := s.finance.AddTransaction(r.Context(), req.TransactionDraft, model.ParseCategory(req.Category))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var txn model.Transaction
	if err := decodeBody(r, &txn); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn.ID = id

	found, err := s.finance.UpdateTransaction(r.Context(), txn)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	s.writeJSON(w, http.StatusOK, txn)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	if !s.finance.DeleteTransaction(r.Context(), id) {
		s.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.finance.Goals()
	type goalView struct {
		model.Goal
		Progress float64 `json:"progress"`
	}
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = goalView{Goal: g, Progress: g.Progress()}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"goals": views})
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		TargetAmount float64 `json:"targetAmount"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := s.finance.AddGoal(r.Context(), req.Name, req.TargetAmount)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) depositToGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, found, err := s.finance.Deposit(r.Context(), id, req.Amount)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	s.writeJSON(w, http.StatusOK, goal)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	if !s.finance.DeleteGoal(r.Context(), id) {
		s.writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.finance.Budget())
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := s.finance.SetBudget(r.Context(), req.Amount)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, budget)
}
