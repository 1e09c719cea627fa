package history

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// DefaultCapacity bounds a Memory store created with a non-positive capacity.
const DefaultCapacity = 500

// Memory is a concurrency-safe in-process Store. Once full, appending drops
// the oldest record.
type Memory struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store holding at most capacity records.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{capacity: capacity}
}

func (m *Memory) Append(_ context.Context, r *Record) error {
	if r == nil {
		return fmt.Errorf("history: nil record")
	}
	prepare(r)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) >= m.capacity {
		m.records = slices.Delete(m.records, 0, len(m.records)-m.capacity+1)
	}
	m.records = append(m.records, clone(*r))
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ID == id {
			r := clone(m.records[i])
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (m *Memory) List(_ context.Context, opts ListOptions) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := opts.limit()
	out := make([]Record, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if opts.Tool != "" && !strings.EqualFold(m.records[i].Tool, opts.Tool) {
			continue
		}
		out = append(out, clone(m.records[i]))
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// clone copies the reference-typed fields so callers cannot mutate stored
// records.
func clone(r Record) Record {
	r.Input = maps.Clone(r.Input)
	r.Output = slices.Clone(r.Output)
	return r
}
