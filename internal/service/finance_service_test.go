package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/moneymind/backend/internal/model"
	"github.com/moneymind/backend/internal/store"
)

func newTestService(t *testing.T) (*FinanceService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc, err := NewFinanceService(context.Background(), mem, zaptest.NewLogger(t))
	require.NoError(t, err)
	return svc, mem
}

func draft(description string, amount float64, txType model.TransactionType) TransactionDraft {
	return TransactionDraft{
		Description: description,
		Amount:      amount,
		Date:        model.NewDate(time.Now()),
		Type:        txType,
	}
}

func TestAddTransactionAssignsFreshIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddTransaction(ctx, draft("Chai", 20, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)
	second, err := svc.AddTransaction(ctx, draft("Auto", 50, model.TypeExpense), model.CategoryTravel)
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	// Newest first.
	txns := svc.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, second.ID, txns[0].ID)
}

func TestAddThenDeleteRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before := svc.Transactions()
	txn, err := svc.AddTransaction(ctx, draft("Dinner", 450, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)

	require.True(t, svc.DeleteTransaction(ctx, txn.ID))
	assert.Equal(t, before, svc.Transactions())
}

func TestAddTransactionValidation(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		draft   TransactionDraft
		wantErr error
	}{
		{"empty description", draft("", 100, model.TypeExpense), ErrEmptyDescription},
		{"whitespace description", draft("   ", 100, model.TypeExpense), ErrEmptyDescription},
		{"zero amount", draft("x", 0, model.TypeExpense), ErrInvalidAmount},
		{"negative amount", draft("x", -5, model.TypeIncome), ErrInvalidAmount},
		{"bad type", draft("x", 10, model.TransactionType("transfer")), ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTransaction(ctx, tt.draft, model.CategoryFood)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Rejected input never mutated or persisted anything.
	assert.Empty(t, svc.Transactions())
	assert.Zero(t, mem.SaveCount())
}

func TestAddTransactionCollapsesUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	txn, err := svc.AddTransaction(context.Background(), draft("Mystery", 10, model.TypeExpense), model.Category("Gambling"))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUncategorized, txn.Category)
}

func TestUpdateTransactionReplacesWithoutDuplicating(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	txn, err := svc.AddTransaction(ctx, draft("Groceries", 800, model.TypeExpense), model.CategoryGroceries)
	require.NoError(t, err)

	txn.Amount = 900
	txn.Category = model.CategoryShopping
	found, err := svc.UpdateTransaction(ctx, txn)
	require.NoError(t, err)
	assert.True(t, found)

	txns := svc.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.Equal(t, 900.0, txns[0].Amount)
	assert.Equal(t, model.CategoryShopping, txns[0].Category)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, draft("Lunch", 120, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)
	savesBefore := mem.SaveCount()

	found, err := svc.UpdateTransaction(ctx, model.Transaction{
		ID:          9999,
		Description: "Ghost",
		Amount:      1,
		Date:        model.NewDate(time.Now()),
		Type:        model.TypeExpense,
		Category:    model.CategoryFood,
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, savesBefore, mem.SaveCount())
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	svc, mem := newTestService(t)
	assert.False(t, svc.DeleteTransaction(context.Background(), 42))
	assert.Zero(t, mem.SaveCount())
}

func TestEveryMutationPersists(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	txn, err := svc.AddTransaction(ctx, draft("Chai", 20, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)
	_, err = svc.UpdateTransaction(ctx, txn)
	require.NoError(t, err)
	svc.DeleteTransaction(ctx, txn.ID)
	_, err = svc.SetBudget(ctx, 30000)
	require.NoError(t, err)
	goal, err := svc.AddGoal(ctx, "Bike", 80000)
	require.NoError(t, err)
	_, _, err = svc.Deposit(ctx, goal.ID, 500)
	require.NoError(t, err)
	svc.DeleteGoal(ctx, goal.ID)

	assert.Equal(t, 7, mem.SaveCount())
}

func TestPersistedSnapshotRoundTrips(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()

	svc, err := NewFinanceService(ctx, mem, zaptest.NewLogger(t))
	require.NoError(t, err)

	txn, err := svc.AddTransaction(ctx, draft("Rent", 15000, model.TypeExpense), model.CategoryRent)
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, "Emergency fund", 100000)
	require.NoError(t, err)

	// A fresh service over the same store sees the same state and does not
	// reuse ids.
	reloaded, err := NewFinanceService(ctx, mem, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, reloaded.Transactions(), 1)
	assert.Equal(t, txn, reloaded.Transactions()[0])

	next, err := reloaded.AddTransaction(ctx, draft("Chai", 20, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)
	assert.Greater(t, next.ID, txn.ID)
}

func TestOnChangeNotifiesAfterPersist(t *testing.T) {
	svc, _ := newTestService(t)

	var seen []model.Snapshot
	svc.OnChange(func(snap model.Snapshot) { seen = append(seen, snap) })

	_, err := svc.AddTransaction(context.Background(), draft("Chai", 20, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	require.Len(t, seen[0].Transactions, 1)
	assert.Equal(t, "Chai", seen[0].Transactions[0].Description)
}

func TestBudgetResetOnMonthRollover(t *testing.T) {
	staleMonth := (model.CurrentMonth(time.Now()) + 1) % 12
	mem := store.NewMemoryStoreWith(model.Snapshot{
		Transactions: []model.Transaction{},
		Goals:        []model.Goal{},
		Budget:       model.Budget{Amount: 12345, Month: staleMonth},
	})

	svc, err := NewFinanceService(context.Background(), mem, zaptest.NewLogger(t))
	require.NoError(t, err)

	budget := svc.Budget()
	assert.Equal(t, float64(model.DefaultBudgetAmount), budget.Amount)
	assert.Equal(t, model.CurrentMonth(time.Now()), budget.Month)
}

func TestBudgetSurvivesWithinSameMonth(t *testing.T) {
	mem := store.NewMemoryStoreWith(model.Snapshot{
		Budget: model.Budget{Amount: 12345, Month: model.CurrentMonth(time.Now())},
	})

	svc, err := NewFinanceService(context.Background(), mem, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 12345.0, svc.Budget().Amount)
}

func TestSetBudgetRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SetBudget(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.SetBudget(context.Background(), -100)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBudgetProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBudget(ctx, 10000)
	require.NoError(t, err)

	progress := svc.Progress(12000)
	assert.Equal(t, 100.0, progress.Percent) // clamped
	assert.Equal(t, -2000.0, progress.Remaining)
	assert.True(t, progress.OverBudget)

	progress = svc.Progress(2500)
	assert.Equal(t, 25.0, progress.Percent)
	assert.Equal(t, 7500.0, progress.Remaining)
	assert.False(t, progress.OverBudget)
}

func TestBudgetProgressZeroAmount(t *testing.T) {
	mem := store.NewMemoryStoreWith(model.Snapshot{
		Budget: model.Budget{Amount: 0, Month: model.CurrentMonth(time.Now())},
	})
	svc, err := NewFinanceService(context.Background(), mem, zaptest.NewLogger(t))
	require.NoError(t, err)

	progress := svc.Progress(500)
	assert.Equal(t, 0.0, progress.Percent) // no division by zero
	assert.True(t, progress.OverBudget)
}

func TestGoalLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	goal, err := svc.AddGoal(ctx, "Trip", 1000)
	require.NoError(t, err)
	assert.Zero(t, goal.SavedAmount)

	goal, found, err := svc.Deposit(ctx, goal.ID, 500)
	require.NoError(t, err)
	require.True(t, found)
	goal, found, err = svc.Deposit(ctx, goal.ID, 500)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1000.0, goal.SavedAmount)
	assert.Equal(t, 100.0, goal.Progress())

	// Over-saving: stored value keeps growing, display stays clamped.
	goal, _, err = svc.Deposit(ctx, goal.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, goal.SavedAmount)
	assert.Equal(t, 100.0, goal.Progress())

	require.True(t, svc.DeleteGoal(ctx, goal.ID))
	assert.Empty(t, svc.Goals())
}

func TestGoalValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddGoal(ctx, "", 100)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = svc.AddGoal(ctx, "Trip", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	goal, err := svc.AddGoal(ctx, "Trip", 1000)
	require.NoError(t, err)
	_, _, err = svc.Deposit(ctx, goal.ID, -50)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, found, err := svc.Deposit(ctx, 777, 50)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	mockStore.EXPECT().
		Load(gomock.Any()).
		Return(model.Snapshot{}, assert.AnError)

	_, err := NewFinanceService(context.Background(), mockStore, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestSaveFailureDoesNotAbortMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	mockStore.EXPECT().
		Load(gomock.Any()).
		Return(model.DefaultSnapshot(time.Now()), nil)
	mockStore.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	svc, err := NewFinanceService(context.Background(), mockStore, zaptest.NewLogger(t))
	require.NoError(t, err)

	// The in-memory state is authoritative for the session; a failed write
	// is logged, not surfaced.
	txn, err := svc.AddTransaction(context.Background(), draft("Chai", 20, model.TypeExpense), model.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, txn, svc.Transactions()[0])
}
