package service

import (
	"context"
	"strings"

	"github.com/moneymind/backend/internal/model"
)

// TransactionDraft is the user-supplied part of a new transaction: everything
// except the id (assigned here) and the category (decided by the user or the
// classifier before commit).
type TransactionDraft struct {
	Description string                `json:"description"`
	Amount      float64               `json:"amount"`
	Date        model.Date            `json:"date"`
	Type        model.TransactionType `json:"type"`
}

func (d TransactionDraft) validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// Transactions returns a copy of the ledger, newest entry first.
func (s *FinanceService) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// AddTransaction validates the draft, assigns a fresh id, inserts the entry
// at the head of the ledger, and persists. Unknown categories collapse to
// Uncategorized at this boundary.
func (s *FinanceService) AddTransaction(ctx context.Context, draft TransactionDraft, category model.Category) (model.Transaction, error) {
	if err := draft.validate(); err != nil {
		return model.Transaction{}, err
	}
	if !category.Valid() {
		category = model.CategoryUncategorized
	}

	s.mu.Lock()
	txn := model.Transaction{
		ID:          s.nextTxID,
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date,
		Type:        draft.Type,
		Category:    category,
	}
	s.nextTxID++
	s.transactions = append([]model.Transaction{txn}, s.transactions...)
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return txn, nil
}

// UpdateTransaction replaces the entry whose id matches, by full replacement.
// An unknown id leaves the ledger untouched and reports found=false; whether
// that deserves a user-visible error is the caller's call.
func (s *FinanceService) UpdateTransaction(ctx context.Context, txn model.Transaction) (bool, error) {
	draft := TransactionDraft{
		Description: txn.Description,
		Amount:      txn.Amount,
		Date:        txn.Date,
		Type:        txn.Type,
	}
	if err := draft.validate(); err != nil {
		return false, err
	}
	if !txn.Category.Valid() {
		txn.Category = model.CategoryUncategorized
	}

	s.mu.Lock()
	found := false
	for i := range s.transactions {
		if s.transactions[i].ID == txn.ID {
			s.transactions[i] = txn
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false, nil
	}
	notify := s.persistLocked(ctx)
	s.mu.Unlock()

	notify()
	return true, nil
}

// DeleteTransaction removes the entry with the given id. Absent ids are a
// no-op and report found=false without persisting.
func (s *FinanceService) DeleteTransaction(ctx context.Context, id int64) bool {
	s.mu.Lock()
	found := false
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
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
