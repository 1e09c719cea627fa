package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/aistudio/providers/ai"
)

// ErrNotFound is returned by Store.Get for unknown ids.
var ErrNotFound = errors.New("history record not found")

// DefaultLimit is the number of records List returns when no limit is given.
const DefaultLimit = 50

// Record is one tool run, successful or not. Image bytes are never stored.
type Record struct {
	ID        string            `json:"id"`
	Tool      string            `json:"tool"`
	Model     string            `json:"model,omitempty"`
	Input     map[string]string `json:"input,omitempty"`
	HasImage  bool              `json:"hasImage,omitempty"`
	Output    json.RawMessage   `json:"output,omitempty"`
	Error     string            `json:"error,omitempty"`
	Attempts  int               `json:"attempts,omitempty"`
	Usage     ai.Usage          `json:"usage"`
	CostUSD   float64           `json:"costUsd"`
	Duration  time.Duration     `json:"duration"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ListOptions filters List. A zero Limit means DefaultLimit.
type ListOptions struct {
	Tool  string
	Limit int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Store persists run records. Implementations are safe for concurrent use.
type Store interface {
	// Append stores r, assigning ID and CreatedAt when they are empty.
	Append(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]Record, error)
	Close() error
}

func prepare(r *Record) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
