// Package assist bridges free text and receipt images to structured ledger
// fields through an external generative model, degrading to documented safe
// defaults whenever the model is unreachable or answers out of contract.
package assist

import "context"

//go:generate mockgen -source=collaborator.go -destination=collaborator_mock.go -package=assist

// GenerateRequest is one content-generation call to the model.
type GenerateRequest struct {
	// Model selects the model variant, e.g. ModelFlash or ModelPro.
	Model string

	// Prompt is the user-turn text.
	Prompt string

	// SystemInstruction, when set, constrains the model's role for the call.
	SystemInstruction string

	// InlineJPEG, when set, is attached to the prompt as inline image data.
	InlineJPEG []byte

	// JSONResponse asks the model to emit application/json.
	JSONResponse bool
}

// Collaborator is the narrow contract the pipeline depends on: one call in,
// raw text out. The concrete implementation is GeminiClient; tests substitute
// a mock.
type Collaborator interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}
