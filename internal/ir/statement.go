package ir

import (
	"time"
)

// DefaultModel is the model used when none is given.
const DefaultModel = "default"

// Statement is a ground triple scoped to a model, plus metadata.
//
// Statements are immutable: they are inserted or removed by hash, never
// updated in place.
type Statement struct {
	Triple
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
	Inferred  bool      `json:"inferred"`
	Hash      string    `json:"hash"`
}

// NewStatement validates a ground triple and stamps it with its content hash.
// An empty model means DefaultModel.
func NewStatement(t Triple, model string, ts time.Time, inferred bool) (Statement, error) {
	if err := t.ValidateGround("new statement"); err != nil {
		return Statement{}, err
	}
	model = ModelOrDefault(model)
	return Statement{
		Triple:    t,
		Model:     model,
		Timestamp: ts,
		Inferred:  inferred,
		Hash:      HashTriple(t, model),
	}, nil
}

// ModelOrDefault returns model, or DefaultModel when model is empty.
func ModelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}

// ValidateModels rejects an empty model set and empty model names.
func ValidateModels(op string, models []string) error {
	if len(models) == 0 {
		return NewInvalidArgument(op, "at least one model is required")
	}
	for _, m := range models {
		if m == "" {
			return NewInvalidArgument(op, "model name is empty")
		}
	}
	return nil
}
