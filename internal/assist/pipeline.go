package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moneymind/backend/internal/model"
)

// Descriptions at or below this length skip the classifier entirely; there is
// nothing useful to classify.
const minClassifiableLen = 4

// chatWindow bounds how many recent transactions are forwarded to the chat
// collaborator.
const chatWindow = 50

// insightWindow bounds how many transactions per period are forwarded to the
// insight collaborator.
const insightWindow = 20

// Degraded results. Every pipeline operation returns one of these instead of
// an error when the collaborator fails or answers out of contract.
const (
	insightsEmptyPlaceholder = "Add some transactions for this month to get AI insights! 💡"
	insightsInvalidMessage   = "Could not generate insights at the moment."
	insightsUnavailable      = "AI insights are currently unavailable. Please try again later."
	chatApology              = "I'm sorry, I'm having trouble connecting to my brain right now. Please try again later."
	scannedReceiptFallback   = "Scanned Receipt"
)

// ParsedEntry is the outcome of parsing a natural-language entry like
// "spent 200 on groceries". When Unparseable is set the other fields carry
// the sentinel values and the caller should prompt for a retry rather than
// build a transaction from them.
type ParsedEntry struct {
	Amount      float64               `json:"amount"`
	Description string                `json:"description"`
	Type        model.TransactionType `json:"type"`
	Unparseable bool                  `json:"unparseable"`
}

// ReceiptResult is the outcome of scanning a receipt image. Fields the model
// could not read are backfilled with usable defaults, so the result is always
// a valid pending expense.
type ReceiptResult struct {
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        model.Date `json:"date"`
}

// Pipeline normalizes free text and images into ledger-ready fields. All
// operations are non-throwing: failures degrade to documented defaults and
// are only logged.
type Pipeline struct {
	client Collaborator
	logger *zap.Logger

	// now is swappable so tests can pin the receipt date fallback.
	now func() time.Time
}

// NewPipeline creates a pipeline over the given collaborator.
func NewPipeline(client Collaborator, logger *zap.Logger) *Pipeline {
	return &Pipeline{client: client, logger: logger, now: time.Now}
}

// Classify maps a transaction description onto the closed category set.
// Empty or very short descriptions short-circuit to Uncategorized without a
// collaborator call; any response outside the allowed set, and any transport
// failure, also yields Uncategorized.
func (p *Pipeline) Classify(ctx context.Context, description string) model.Category {
	if len(strings.TrimSpace(description)) < minClassifiableLen {
		return model.CategoryUncategorized
	}

	names := make([]string, len(model.DefaultCategories))
	for i, c := range model.DefaultCategories {
		names[i] = string(c)
	}
	prompt := fmt.Sprintf(`You are an expert financial categorizer for an Indian audience. Given the transaction description, classify it into one of the following categories: %s. Return only the category name and nothing else. If you cannot determine a category, return "Uncategorized".

Transaction: %q
Category:`, strings.Join(names, ", "), description)

	text, err := p.client.GenerateContent(ctx, GenerateRequest{
		Model:  ModelFlash,
		Prompt: prompt,
	})
	if err != nil {
		p.logger.Warn("classify degraded", zap.Error(err))
		return model.CategoryUncategorized
	}

	// Exact membership check; the closed set is the contract, not whatever
	// the model felt like saying.
	category := strings.TrimSpace(text)
	for _, c := range model.DefaultCategories {
		if string(c) == category {
			return c
		}
	}
	return model.CategoryUncategorized
}

// ParseEntry extracts amount, description, and type from free text such as a
// voice transcript. On any failure it returns the unparseable sentinel.
func (p *Pipeline) ParseEntry(ctx context.Context, text string) ParsedEntry {
	unparseable := ParsedEntry{Type: model.TypeExpense, Unparseable: true}

	prompt := fmt.Sprintf(`You are an expert financial transaction parser for an Indian user who might use Hinglish (e.g., "kharcha," "mil gaye"). Parse the following text to extract the amount (in numbers), a concise description, and the type ('income' or 'expense').
- "Received," "mil gaye," "credited" imply 'income'.
- "Spent," "kharcha," "paid" imply 'expense'.
- If type is ambiguous, default to 'expense'.
Respond ONLY with a JSON object like {"amount": 100, "description": "Groceries", "type": "expense"}. If you cannot parse it, respond with {"error": "Could not parse"}.

Text: %q`, text)

	raw, err := p.client.GenerateContent(ctx, GenerateRequest{
		Model:        ModelPro,
		Prompt:       prompt,
		JSONResponse: true,
	})
	if err != nil {
		p.logger.Warn("entry parse degraded", zap.Error(err))
		return unparseable
	}

	var parsed struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Type        string  `json:"type"`
		Error       string  `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		p.logger.Warn("entry parse response malformed", zap.Error(err))
		return unparseable
	}
	if parsed.Error != "" || parsed.Amount <= 0 || parsed.Description == "" {
		return unparseable
	}

	entryType := model.TransactionType(parsed.Type)
	if !entryType.Valid() {
		entryType = model.TypeExpense
	}
	return ParsedEntry{
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Type:        entryType,
	}
}

// ParseReceipt extracts total amount, merchant, and date from a receipt
// image. Missing fields are backfilled (amount 0, "Scanned Receipt", today),
// so the caller always gets a usable pending transaction.
func (p *Pipeline) ParseReceipt(ctx context.Context, imageJPEG []byte) ReceiptResult {
	fallback := ReceiptResult{
		Amount:      0,
		Description: scannedReceiptFallback,
		Date:        model.NewDate(p.now()),
	}

	prompt := `You are an expert receipt scanner for Indian receipts. Extract the total amount, merchant name (for the description), and date (in YYYY-MM-DD format). Respond ONLY with a JSON object like {"amount": 125.50, "description": "Big Bazaar", "date": "2023-10-27"}. If data is missing, use null for that field.`

	raw, err := p.client.GenerateContent(ctx, GenerateRequest{
		Model:        ModelFlash,
		Prompt:       prompt,
		InlineJPEG:   imageJPEG,
		JSONResponse: true,
	})
	if err != nil {
		p.logger.Warn("receipt parse degraded", zap.Error(err))
		return fallback
	}

	var parsed struct {
		Amount      *float64 `json:"amount"`
		Description *string  `json:"description"`
		Date        *string  `json:"date"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		p.logger.Warn("receipt response malformed", zap.Error(err))
		return fallback
	}

	result := fallback
	if parsed.Amount != nil {
		result.Amount = *parsed.Amount
	}
	if parsed.Description != nil && *parsed.Description != "" {
		result.Description = *parsed.Description
	}
	if parsed.Date != nil {
		if d, err := model.ParseDate(*parsed.Date); err == nil {
			result.Date = d
		}
	}
	return result
}

// Insights produces observation strings comparing the current period with
// the prior one. An empty current period short-circuits to a single
// placeholder without a collaborator call; any response that is not an array
// of strings degrades to a single static message.
func (p *Pipeline) Insights(ctx context.Context, current, prior []model.Transaction) []string {
	if len(current) == 0 {
		return []string{insightsEmptyPlaceholder}
	}

	currentJSON := marshalWindow(current, insightWindow)
	priorJSON := marshalWindow(prior, insightWindow)

	prompt := fmt.Sprintf(`You are "MoneyMind AI", a helpful financial assistant for an Indian user. Analyze the following transaction data. Provide actionable, personalized, and encouraging insights. All monetary values should be in Indian Rupees (₹) with Indian formatting (e.g., ₹12,34,567).

Current Month Transactions:
%s

Previous Month Transactions:
%s

Based on this data, provide a JSON array of 4 unique, insightful strings following these rules:
1. Start with a summary of the biggest spending category this month.
2. Compare total spending this month vs. last month (calculate percentage change). If no previous data, just state current spending.
3. Provide one specific, actionable money-saving tip based on spending habits.
4. Identify one interesting spending pattern, anomaly, or potential recurring payment.

Example output format:
["This month, your largest expense was Food, totaling ₹8,500.", "Your spending increased by 15%% compared to last month.", "You can save around ₹2,000 this month by reducing your shopping expenses.", "It looks like you have a recurring bill of around ₹499 for a subscription." ]`,
		currentJSON, priorJSON)

	raw, err := p.client.GenerateContent(ctx, GenerateRequest{
		Model:        ModelPro,
		Prompt:       prompt,
		JSONResponse: true,
	})
	if err != nil {
		p.logger.Warn("insights degraded", zap.Error(err))
		return []string{insightsUnavailable}
	}

	// An empty array is a valid answer; only non-array payloads degrade.
	var insights []string
	if err := json.Unmarshal([]byte(raw), &insights); err != nil || insights == nil {
		p.logger.Warn("insights response malformed", zap.Error(err))
		return []string{insightsInvalidMessage}
	}
	return insights
}

// Chat answers a freeform question strictly from the supplied transaction
// history, forwarding at most the 50 most recent entries. Failures return a
// static apology so the conversation never breaks.
func (p *Pipeline) Chat(ctx context.Context, question string, txns []model.Transaction) string {
	system := fmt.Sprintf(`You are 'MoneyMind AI', a friendly and insightful financial coach for an Indian user. Your knowledge is strictly limited to the provided JSON transaction data that will be sent in the user prompt. Do not make up information or discuss external topics. Answer the user's questions clearly and concisely. All monetary values must be in Indian Rupees (₹) with Indian formatting (e.g., ₹1,23,456). Be helpful and encouraging. Analyze the transactions to answer the user's query.

Here is the user's transaction history: %s`, marshalWindow(txns, chatWindow))

	text, err := p.client.GenerateContent(ctx, GenerateRequest{
		Model:             ModelPro,
		Prompt:            question,
		SystemInstruction: system,
	})
	if err != nil {
		p.logger.Warn("chat degraded", zap.Error(err))
		return chatApology
	}
	return text
}

// marshalWindow serializes at most limit transactions, newest-first order
// preserved from the ledger.
func marshalWindow(txns []model.Transaction, limit int) string {
	if len(txns) > limit {
		txns = txns[:limit]
	}
	b, err := json.Marshal(txns)
	if err != nil {
		return "[]"
	}
	return string(b)
}
