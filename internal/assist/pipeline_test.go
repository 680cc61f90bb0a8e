package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/moneymind/backend/internal/model"
)

var errTransport = errors.New("collaborator unreachable")

func newTestPipeline(t *testing.T) (*Pipeline, *MockCollaborator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := NewMockCollaborator(ctrl)
	p := NewPipeline(mock, zaptest.NewLogger(t))
	return p, mock
}

func TestClassifyReturnsMember(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("Food", nil)

	assert.Equal(t, model.CategoryFood, p.Classify(context.Background(), "dinner at Saravana Bhavan"))
}

func TestClassifyTrimsResponse(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("  Groceries \n", nil)

	assert.Equal(t, model.CategoryGroceries, p.Classify(context.Background(), "weekly vegetables"))
}

func TestClassifyNonMemberDegrades(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("Fine Dining", nil)

	assert.Equal(t, model.CategoryUncategorized, p.Classify(context.Background(), "dinner out"))
}

func TestClassifyTransportFailureDegrades(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("", errTransport)

	assert.Equal(t, model.CategoryUncategorized, p.Classify(context.Background(), "dinner out"))
}

func TestClassifyShortInputSkipsCollaborator(t *testing.T) {
	// No EXPECT set up: any collaborator call fails the test.
	p, _ := newTestPipeline(t)

	assert.Equal(t, model.CategoryUncategorized, p.Classify(context.Background(), ""))
	assert.Equal(t, model.CategoryUncategorized, p.Classify(context.Background(), "ab"))
	assert.Equal(t, model.CategoryUncategorized, p.Classify(context.Background(), "   a   "))
}

func TestParseEntry(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return(`{"amount": 250, "description": "Groceries", "type": "expense"}`, nil)

	entry := p.ParseEntry(context.Background(), "250 rupay kharcha groceries pe")
	assert.False(t, entry.Unparseable)
	assert.Equal(t, 250.0, entry.Amount)
	assert.Equal(t, "Groceries", entry.Description)
	assert.Equal(t, model.TypeExpense, entry.Type)
}

func TestParseEntryDefaultsAmbiguousTypeToExpense(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return(`{"amount": 100, "description": "Something", "type": "mystery"}`, nil)

	entry := p.ParseEntry(context.Background(), "100 for something")
	assert.False(t, entry.Unparseable)
	assert.Equal(t, model.TypeExpense, entry.Type)
}

func TestParseEntrySentinelPaths(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"collaborator-signaled failure", `{"error": "Could not parse"}`, nil},
		{"transport failure", "", errTransport},
		{"malformed payload", "not json at all", nil},
		{"zero amount", `{"amount": 0, "description": "x", "type": "expense"}`, nil},
		{"missing description", `{"amount": 10, "description": "", "type": "expense"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newTestPipeline(t)
			mock.EXPECT().
				GenerateContent(gomock.Any(), gomock.Any()).
				Return(tt.response, tt.err)

			entry := p.ParseEntry(context.Background(), "gibberish")
			assert.True(t, entry.Unparseable)
			assert.Zero(t, entry.Amount)
			assert.Empty(t, entry.Description)
		})
	}
}

func TestParseReceipt(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req GenerateRequest) (string, error) {
			assert.NotEmpty(t, req.InlineJPEG)
			assert.True(t, req.JSONResponse)
			return `{"amount": 125.50, "description": "Big Bazaar", "date": "2023-10-27"}`, nil
		})

	result := p.ParseReceipt(context.Background(), []byte{0xff, 0xd8, 0xff})
	assert.Equal(t, 125.50, result.Amount)
	assert.Equal(t, "Big Bazaar", result.Description)
	assert.Equal(t, "2023-10-27", result.Date.String())
}

func TestParseReceiptBackfillsNullFields(t *testing.T) {
	p, mock := newTestPipeline(t)
	today := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.Local)
	p.now = func() time.Time { return today }

	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return(`{"amount": null, "description": null, "date": null}`, nil)

	result := p.ParseReceipt(context.Background(), []byte{0xff})
	assert.Zero(t, result.Amount)
	assert.Equal(t, "Scanned Receipt", result.Description)
	assert.Equal(t, "2024-06-01", result.Date.String())
}

func TestParseReceiptTransportFailureStillUsable(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("", errTransport)

	result := p.ParseReceipt(context.Background(), []byte{0xff})
	assert.Zero(t, result.Amount)
	assert.Equal(t, "Scanned Receipt", result.Description)
	assert.False(t, result.Date.IsZero())
}

func TestInsightsEmptyPeriodSkipsCollaborator(t *testing.T) {
	p, _ := newTestPipeline(t)

	insights := p.Insights(context.Background(), nil, []model.Transaction{{ID: 1}})
	require.Len(t, insights, 1)
	assert.Equal(t, insightsEmptyPlaceholder, insights[0])
}

func TestInsights(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req GenerateRequest) (string, error) {
			assert.Contains(t, req.Prompt, "Example output format:")
			return `["Biggest category was Food.", "Spending rose 15%.", "Cut shopping.", "Recurring bill of ₹499."]`, nil
		})

	insights := p.Insights(context.Background(), []model.Transaction{{ID: 1}}, nil)
	assert.Len(t, insights, 4)
}

func TestInsightsEmptyArrayPassesThrough(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return(`[]`, nil)

	insights := p.Insights(context.Background(), []model.Transaction{{ID: 1}}, nil)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestInsightsDegradation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     string
	}{
		{"transport failure", "", errTransport, insightsUnavailable},
		{"not an array", `{"oops": true}`, nil, insightsInvalidMessage},
		{"array of non-strings", `[1, 2, 3]`, nil, insightsInvalidMessage},
		{"null payload", `null`, nil, insightsInvalidMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newTestPipeline(t)
			mock.EXPECT().
				GenerateContent(gomock.Any(), gomock.Any()).
				Return(tt.response, tt.err)

			insights := p.Insights(context.Background(), []model.Transaction{{ID: 1}}, nil)
			require.Len(t, insights, 1)
			assert.Equal(t, tt.want, insights[0])
		})
	}
}

func TestChat(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req GenerateRequest) (string, error) {
			assert.Equal(t, "How much did I spend on food?", req.Prompt)
			assert.Contains(t, req.SystemInstruction, "transaction history")
			assert.Contains(t, req.SystemInstruction, "Analyze the transactions to answer the user's query.")
			return "You spent ₹2,500 on food this month.", nil
		})

	answer := p.Chat(context.Background(), "How much did I spend on food?", []model.Transaction{{ID: 1}})
	assert.Equal(t, "You spent ₹2,500 on food this month.", answer)
}

func TestChatTransportFailureApologizes(t *testing.T) {
	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		Return("", errTransport)

	assert.Equal(t, chatApology, p.Chat(context.Background(), "anything", nil))
}

func TestChatBoundsTransactionWindow(t *testing.T) {
	txns := make([]model.Transaction, 80)
	for i := range txns {
		txns[i] = model.Transaction{ID: int64(i + 1), Description: "entry"}
	}

	p, mock := newTestPipeline(t)
	mock.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req GenerateRequest) (string, error) {
			// Only the most recent 50 entries go out; id 51 is the cutoff.
			assert.Contains(t, req.SystemInstruction, `"id":50`)
			assert.NotContains(t, req.SystemInstruction, `"id":51`)
			return "ok", nil
		})

	p.Chat(context.Background(), "summary?", txns)
}
