package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
)

// Canvas size used for items that leave width or height unset.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// MarkupGenerator is the part of generation.Service the runner needs.
type MarkupGenerator interface {
	GenerateMarkup(ctx context.Context, req generation.MarkupRequest) (*generation.MarkupResponse, error)
}

// Runner generates markup for batch items with bounded concurrency and an
// optional request rate.
type Runner struct {
	generator   MarkupGenerator
	concurrency int
	limiter     *rate.Limiter
}

// NewRunner returns a runner. rps <= 0 disables pacing.
func NewRunner(generator MarkupGenerator, concurrency int, rps float64) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Runner{generator: generator, concurrency: concurrency, limiter: limiter}
}

// Run processes every item and returns results in input order. A failing item
// is recorded in its Result; only cancellation of ctx stops the run.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Result, error) {
	results := make([]Result, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, item := range items {
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}
			slog.Info("Processing item", "id", item.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(items)))
			results[i] = r.process(ctx, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch run interrupted: %w", err)
	}
	return results, nil
}

func (r *Runner) process(ctx context.Context, item Item) Result {
	if item.Width <= 0 || item.Height <= 0 {
		item.Width, item.Height = DefaultWidth, DefaultHeight
	}

	result := Result{
		ID:       item.ID,
		Prompt:   item.Prompt,
		Provider: item.Provider,
		Width:    item.Width,
		Height:   item.Height,

		CanvasStrength:    item.CanvasStrength,
		ReferenceStrength: item.ReferenceStrength,
	}

	start := time.Now()
	resp, err := r.generator.GenerateMarkup(ctx, generation.MarkupRequest{
		Prompt:            item.Prompt,
		Model:             item.Model,
		Width:             item.Width,
		Height:            item.Height,
		Provider:          item.Provider,
		ProviderModel:     item.ProviderModel,
		CanvasStrength:    item.CanvasStrength,
		ReferenceStrength: item.ReferenceStrength,
	})
	result.Duration = time.Since(start)

	if err != nil {
		slog.Warn("Item failed", "id", item.ID, "err", err)
		result.Error = err.Error()
		return result
	}

	result.Provider = string(resp.Provider)
	result.Model = resp.Model
	result.Temperature = resp.Temperature
	result.UICode = resp.UICode
	return result
}
