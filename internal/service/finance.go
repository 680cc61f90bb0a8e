// Package service owns the live application state: the transaction ledger,
// savings goals, and the active-month budget. All mutations run to completion
// under one lock and persist the whole snapshot before returning, so readers
// always observe a consistent, fully applied state.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moneymind/backend/internal/model"
	"github.com/moneymind/backend/internal/store"
)

// Validation failures reported synchronously to the caller. No mutation or
// persist happens when one of these is returned.
var (
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrEmptyName        = errors.New("name is required")
)

// FinanceService owns the snapshot state and persists it through a
// store.Store after every successful mutation.
type FinanceService struct {
	store  store.Store
	logger *zap.Logger

	mu           sync.Mutex
	transactions []model.Transaction // newest first
	goals        []model.Goal
	budget       model.Budget
	nextTxID     int64
	nextGoalID   int64

	onChange []func(model.Snapshot)
}

// NewFinanceService loads the stored snapshot and reconciles the budget to
// the current month. A missing or corrupt snapshot loads as defaults; only
// environmental store failures propagate.
func NewFinanceService(ctx context.Context, st store.Store, logger *zap.Logger) (*FinanceService, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &FinanceService{
		store:        st,
		logger:       logger,
		transactions: snap.Transactions,
		goals:        snap.Goals,
		budget:       snap.Budget,
		nextTxID:     1,
		nextGoalID:   1,
	}

	// Stored budget only survives within its own month.
	if currentMonth := model.CurrentMonth(time.Now()); snap.Budget.Month != currentMonth {
		s.budget = model.Budget{Amount: model.DefaultBudgetAmount, Month: currentMonth}
	}

	// Seed the id counters past everything already stored.
	for _, t := range snap.Transactions {
		if t.ID >= s.nextTxID {
			s.nextTxID = t.ID + 1
		}
	}
	for _, g := range snap.Goals {
		if g.ID >= s.nextGoalID {
			s.nextGoalID = g.ID + 1
		}
	}

	return s, nil
}

// OnChange registers fn to be invoked with a copy of the snapshot after every
// persisted mutation. Callbacks run outside the state lock.
func (s *FinanceService) OnChange(fn func(model.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Snapshot returns a copy of the current state.
func (s *FinanceService) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *FinanceService) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		Transactions: make([]model.Transaction, len(s.transactions)),
		Goals:        make([]model.Goal, len(s.goals)),
		Budget:       s.budget,
	}
	copy(snap.Transactions, s.transactions)
	copy(snap.Goals, s.goals)
	return snap
}

// persistLocked saves the whole snapshot and returns the callbacks to run
// once the lock is released. Persistence write failures are logged, not
// surfaced: the in-memory state is authoritative for the session, matching
// the read-after-write guarantee.
func (s *FinanceService) persistLocked(ctx context.Context) func() {
	snap := s.snapshotLocked()
	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.Error("persist snapshot", zap.Error(err))
	}
	callbacks := make([]func(model.Snapshot), len(s.onChange))
	copy(callbacks, s.onChange)
	return func() {
		for _, fn := range callbacks {
			fn(snap)
		}
	}
}
