package service

import (
	"context"

	"github.com/moneymind/backend/internal/model"
)

// BudgetProgress describes how far through the monthly cap spending has gone.
// Percent is clamped to [0, 100] for display; Remaining goes negative when
// the cap is blown, which is what OverBudget reports.
type BudgetProgress struct {
	Percent    float64 `json:"percent"`
	Remaining  float64 `json:"remaining"`
	OverBudget bool    `json:"overBudget"`
}

// Budget returns the active-month budget.
func (s *FinanceService) Budget() model.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// SetBudget updates the active-month cap. Non-positive amounts are rejected.
func (s *FinanceService) SetBudget(ctx context.Context, amount float64) (model.Budget, error) {
	if amount <= 0 {
		return model.Budget{}, ErrInvalidAmount
	}

	s.mu.Lock()
	s.budget.Amount = amount
	budget := s.budget
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return budget, nil
}

// Progress computes budget progress against the given total expenses. A
// non-positive cap forces percent to zero rather than dividing by it.
func (s *FinanceService) Progress(totalExpenses float64) BudgetProgress {
	s.mu.Lock()
	budget := s.budget
	s.mu.Unlock()

	var percent float64
	if budget.Amount > 0 {
		percent = totalExpenses / budget.Amount * 100
		if percent > 100 {
			percent = 100
		}
	}
	remaining := budget.Amount - totalExpenses
	return BudgetProgress{
		Percent:    percent,
		Remaining:  remaining,
		OverBudget: remaining < 0,
	}
}
