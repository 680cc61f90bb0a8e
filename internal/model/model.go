// Package model defines the ledger domain types and the persisted snapshot
// contract shared by the store implementations and the service layer.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultBudgetAmount is the budget applied when none is stored or when the
// stored budget belongs to a previous month.
const DefaultBudgetAmount = 50000

// PendingTransactionID marks a draft produced by voice parsing or receipt
// scanning that has not been committed to the ledger yet. Committed
// transactions always carry a positive id.
const PendingTransactionID int64 = 0

// TransactionType discriminates ledger entries.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Date is a calendar date. It marshals as "2006-01-02" and tolerates full
// RFC 3339 timestamps on unmarshal, since older snapshots stored those.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in local time.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SameMonth reports whether the date falls in the given calendar month.
func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

// Transaction is a single ledger entry. Owned exclusively by the ledger;
// mutated only by full replacement keyed by Id.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
}

// Goal is a savings goal. SavedAmount has no enforced upper bound; display
// progress is clamped, the stored value is not.
type Goal struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	SavedAmount  float64 `json:"savedAmount"`
}

// Progress returns the goal completion percentage, clamped to 100.
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.SavedAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// Budget is the spending cap for a single calendar month. Month is 0-11 to
// match the snapshot wire format.
type Budget struct {
	Amount float64 `json:"amount"`
	Month  int     `json:"month"`
}

// Snapshot is the unit of persistence: the whole application state, replaced
// wholesale on every save.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Goals        []Goal        `json:"goals"`
	Budget       Budget        `json:"budget"`
}

// DefaultSnapshot is the state used when nothing has been stored yet or the
// stored snapshot is unreadable.
func DefaultSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Transactions: []Transaction{},
		Goals:        []Goal{},
		Budget: Budget{
			Amount: DefaultBudgetAmount,
			Month:  int(now.Month()) - 1,
		},
	}
}

// CurrentMonth returns now's month in the 0-11 snapshot representation.
func CurrentMonth(now time.Time) int {
	return int(now.Month()) - 1
}
