package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []generation.MarkupRequest

	active    atomic.Int32
	maxActive atomic.Int32
	delay     time.Duration
}

func (f *fakeGenerator) GenerateMarkup(ctx context.Context, req generation.MarkupRequest) (*generation.MarkupResponse, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		cur := f.maxActive.Load()
		if n <= cur || f.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if req.Prompt == "" {
		return nil, &generation.ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if req.Prompt == "boom" {
		return nil, errors.New("provider unavailable")
	}
	return &generation.MarkupResponse{
		UICode:      "<div>" + req.Prompt + "</div>",
		Width:       req.Width,
		Height:      req.Height,
		Provider:    providers.Gemini,
		Model:       "gemini-test",
		Temperature: 0.4,
	}, nil
}

func TestRunnerKeepsInputOrderAndRecordsFailures(t *testing.T) {
	gen := &fakeGenerator{}
	items := []Item{
		{ID: "a", Prompt: "one", Width: 100, Height: 100},
		{ID: "b", Prompt: "boom", Width: 100, Height: 100},
		{ID: "c", Prompt: "three", Width: 200, Height: 150, CanvasStrength: intPtr(90)},
		{ID: "d", Prompt: ""},
	}

	results, err := NewRunner(gen, 3, 0).Run(t.Context(), items)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, items[i].ID, r.ID)
	}
	assert.Equal(t, "<div>one</div>", results[0].UICode)
	assert.Equal(t, "gemini", results[0].Provider)
	assert.Equal(t, 0.4, results[0].Temperature)

	assert.Equal(t, "provider unavailable", results[1].Error)
	assert.Empty(t, results[1].UICode)

	assert.Equal(t, 200, results[2].Width)
	require.NotNil(t, results[2].CanvasStrength)
	assert.Equal(t, 90, *results[2].CanvasStrength)
	assert.Nil(t, results[2].ReferenceStrength)
	assert.Contains(t, results[3].Error, "prompt")
	assert.Equal(t, DefaultWidth, results[3].Width)
	assert.Equal(t, DefaultHeight, results[3].Height)

	var forwarded *generation.MarkupRequest
	for i := range gen.requests {
		if gen.requests[i].Prompt == "three" {
			forwarded = &gen.requests[i]
		}
	}
	require.NotNil(t, forwarded)
	require.NotNil(t, forwarded.CanvasStrength)
	assert.Equal(t, 90, *forwarded.CanvasStrength)
}

func TestRunnerBoundsConcurrency(t *testing.T) {
	gen := &fakeGenerator{delay: 20 * time.Millisecond}
	items := make([]Item, 12)
	for i := range items {
		items[i] = Item{ID: "x", Prompt: "p", Width: 10, Height: 10}
	}

	_, err := NewRunner(gen, 2, 0).Run(t.Context(), items)
	require.NoError(t, err)
	assert.LessOrEqual(t, gen.maxActive.Load(), int32(2))
	assert.Len(t, gen.requests, 12)
}

func TestRunnerRateLimit(t *testing.T) {
	gen := &fakeGenerator{}
	items := []Item{{Prompt: "a"}, {Prompt: "b"}, {Prompt: "c"}}

	start := time.Now()
	_, err := NewRunner(gen, 3, 20).Run(t.Context(), items)
	require.NoError(t, err)
	// Burst of one at 20/s: the third call waits at least ~100ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRunnerCancelled(t *testing.T) {
	gen := &fakeGenerator{}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewRunner(gen, 1, 1).Run(ctx, []Item{{Prompt: "a"}, {Prompt: "b"}})
	assert.ErrorIs(t, err, context.Canceled)
}
