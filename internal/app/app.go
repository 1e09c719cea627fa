package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/core/client/middleware"
	"github.com/leofalp/aistudio/internal/config"
	"github.com/leofalp/aistudio/internal/history"
	"github.com/leofalp/aistudio/providers/ai"
	"github.com/leofalp/aistudio/providers/ai/gemini"
	"github.com/leofalp/aistudio/providers/ai/genaisdk"
	"github.com/leofalp/aistudio/tools"
)

// Run is the outcome of one tool execution as seen by callers.
type Run struct {
	ID       string        `json:"id,omitempty"` // history record id, empty when history is off
	Output   *tools.Output `json:"output"`
	Duration time.Duration `json:"duration"`
}

// Job is one entry of a batch.
type Job struct {
	Tool  string      `json:"tool"`
	Input tools.Input `json:"input"`
}

// BatchResult pairs a job with its outcome. Exactly one of Run and Err is set.
type BatchResult struct {
	Job Job
	Run *Run
	Err error
}

// Runner resolves tools by name and executes them against one client,
// recording every run in the history store.
type Runner struct {
	gen      client.Generator
	registry *tools.Registry
	store    history.Store // nil when history is off
	logger   *slog.Logger
}

// Options wires a Runner from explicit parts. Store and Logger are optional.
type Options struct {
	Generator client.Generator
	Registry  *tools.Registry
	Store     history.Store
	Logger    *slog.Logger
}

// NewRunner builds a Runner from explicit parts.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Generator == nil {
		return nil, errors.New("app: generator is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("app: registry is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		gen:      opts.Generator,
		registry: opts.Registry,
		store:    opts.Store,
		logger:   opts.Logger,
	}, nil
}

// New builds the provider, client, registry and history store described by
// cfg. Close releases the store.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := NewProvider(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}

	c, err := client.New(provider,
		client.WithDefaultModel(cfg.Models.Text),
		client.WithPricing(gemini.GetModelCost),
		client.WithLogger(logger),
		client.WithStructuredAttempts(cfg.Structured.MaxAttempts),
		client.WithMiddleware(
			middleware.NewLoggingMiddleware(logger, middleware.ParseLogLevel(cfg.Log.LLM)),
			middleware.NewRetryMiddleware(middleware.RetryConfig{
				MaxRetries:     cfg.Retry.MaxRetries,
				InitialBackoff: cfg.Retry.InitialBackoff,
				MaxBackoff:     cfg.Retry.MaxBackoff,
				MaxRetryAfter:  cfg.Retry.MaxRetryAfter,
			}),
			middleware.NewTimeoutMiddleware(cfg.Provider.Timeout),
		),
	)
	if err != nil {
		return nil, err
	}

	store, err := OpenHistory(ctx, cfg.History)
	if err != nil {
		return nil, err
	}

	return NewRunner(Options{
		Generator: c,
		Registry:  tools.Default(cfg.Models),
		Store:     store,
		Logger:    logger,
	})
}

// NewProvider returns the Gemini backend selected by cfg.Backend.
func NewProvider(ctx context.Context, cfg config.Provider) (ai.Provider, error) {
	switch cfg.Backend {
	case config.BackendSDK:
		return genaisdk.New(ctx, genaisdk.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	case config.BackendREST, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: %w", ai.ErrMissingAPIKey)
		}
		p := gemini.New().WithAPIKey(cfg.APIKey)
		if cfg.BaseURL != "" {
			p = p.WithBaseURL(cfg.BaseURL)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("app: unknown provider backend %q", cfg.Backend)
	}
}

// OpenHistory opens the store selected by cfg. It returns nil for "off".
// An unresolved "auto" backend opens as memory.
func OpenHistory(ctx context.Context, cfg config.History) (history.Store, error) {
	cfg, err := cfg.Resolve(false)
	if err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.HistoryOff:
		return nil, nil
	case config.HistorySQLite:
		return history.OpenSQLite(ctx, cfg.Path)
	case config.HistoryMemory:
		return history.NewMemory(cfg.Capacity), nil
	default:
		return nil, fmt.Errorf("app: unknown history backend %q", cfg.Backend)
	}
}

// Registry exposes the tool catalog.
func (r *Runner) Registry() *tools.Registry { return r.registry }

// History returns the store, or nil when history is off.
func (r *Runner) History() history.Store { return r.store }

// Close releases the history store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// Run executes the named tool once. Failed runs are recorded too.
func (r *Runner) Run(ctx context.Context, name string, in tools.Input) (*Run, error) {
	tool, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}
	spec := tool.Spec()

	start := time.Now()
	out, runErr := tool.Run(ctx, r.gen, in)
	elapsed := time.Since(start)

	logger := r.logger.With("tool", spec.Name, "duration", elapsed)
	if runErr != nil {
		logger.Warn("tool run failed", "error", runErr)
	} else {
		logger.Info("tool run completed",
			"model", out.Model,
			"attempts", out.Attempts,
			"fallback", out.Fallback,
			"cost_usd", out.Cost.TotalCost,
		)
	}

	// Invalid input never reached the model; keep it out of history.
	if errors.Is(runErr, tools.ErrInvalidInput) {
		return nil, runErr
	}

	id := r.record(ctx, spec, in, out, runErr, elapsed)
	if runErr != nil {
		return nil, runErr
	}
	return &Run{ID: id, Output: out, Duration: elapsed}, nil
}

func (r *Runner) record(ctx context.Context, spec tools.Spec, in tools.Input, out *tools.Output, runErr error, elapsed time.Duration) string {
	if r.store == nil {
		return ""
	}

	rec := &history.Record{
		Tool:     spec.Name,
		Model:    spec.Model,
		Input:    maps.Clone(in.Fields),
		HasImage: in.Image != nil,
		Duration: elapsed,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if out != nil {
		rec.Model = out.Model
		rec.Attempts = out.Attempts
		rec.Usage = out.Usage
		rec.CostUSD = out.Cost.TotalCost
		raw, err := json.Marshal(out)
		if err != nil {
			r.logger.Warn("encode run output", "tool", spec.Name, "error", err)
		} else {
			rec.Output = raw
		}
	}

	// The caller's context may already be done; the record should still land.
	if err := r.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		r.logger.Warn("record run", "tool", spec.Name, "error", err)
		return ""
	}
	return rec.ID
}

// RunBatch executes jobs with at most parallelism in flight and returns one
// result per job in input order. Individual failures do not stop the batch;
// only cancellation of ctx does.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, parallelism int) []BatchResult {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]BatchResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, job := range jobs {
		results[i].Job = job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Run, results[i].Err = r.Run(gctx, job.Tool, job.Input)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
