package service

import (
	"context"
	"strings"

	"github.com/moneymind/backend/internal/model"
)

// Goals returns a copy of the savings goals.
func (s *FinanceService) Goals() []model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// AddGoal creates a goal with nothing saved yet.
func (s *FinanceService) AddGoal(ctx context.Context, name string, targetAmount float64) (model.Goal, error) {
	if strings.TrimSpace(name) == "" {
		return model.Goal{}, ErrEmptyName
	}
	if targetAmount <= 0 {
		return model.Goal{}, ErrInvalidAmount
	}

	s.mu.Lock()
	goal := model.Goal{
		ID:           s.nextGoalID,
		Name:         name,
		TargetAmount: targetAmount,
		SavedAmount:  0,
	}
	s.nextGoalID++
	s.goals = append(s.goals, goal)
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return goal, nil
}

// Deposit adds amount to the goal's saved total. Over-saving past the target
// is allowed; the stored value is never clamped. Non-positive amounts are
// rejected. Unknown ids report found=false without mutating anything.
func (s *FinanceService) Deposit(ctx context.Context, id int64, amount float64) (model.Goal, bool, error) {
	if amount <= 0 {
		return model.Goal{}, false, ErrInvalidAmount
	}

	s.mu.Lock()
	var updated model.Goal
	found := false
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].SavedAmount += amount
			updated = s.goals[i]
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return model.Goal{}, false, nil
	}
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return updated, true, nil
}

// DeleteGoal removes the goal with the given id; absent ids are a no-op.
func (s *FinanceService) DeleteGoal(ctx context.Context, id int64) bool {
	s.mu.Lock()
	found := false
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return true
}
