package timeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/model"
)

// State is the page lifecycle of a timeline view.
type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

// Source produces the raw moments to render. The SDK client satisfies it.
type Source interface {
	Timeline(ctx context.Context) ([]*model.Card, error)
}

// Options configure a Renderer. The zero value of each field falls back to a
// sensible default in NewRenderer.
type Options struct {
	BatchSize     int
	ReducedMotion bool
	Logger        *zerolog.Logger
}

const defaultBatchSize = 16

// Renderer holds all mutable view state for a single timeline page. Nothing
// is shared between instances, so independent pages can render concurrently
// and Close tears one down without affecting the others.
type Renderer struct {
	src           Source
	batchSize     int
	reducedMotion bool
	log           zerolog.Logger

	mu      sync.Mutex
	state   State
	moments []Moment
	next    int // index of the first unrendered moment
	closed  bool
}

// NewRenderer builds a renderer in the Loading state around src.
func NewRenderer(src Source, opts Options) *Renderer {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Renderer{
		src:           src,
		batchSize:     batch,
		reducedMotion: opts.ReducedMotion,
		log:           log,
		state:         StateLoading,
	}
}

// Load fetches the timeline and moves the state machine forward. A first
// fetch that fails lands in Error; a refresh that fails keeps the already
// rendered moments and stays Loaded. A refresh that succeeds replaces the
// collection and resets the render cursor.
func (r *Renderer) Load(ctx context.Context) State {
	cards, err := r.src.Timeline(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.state
	}
	if err != nil {
		if r.state == StateLoaded {
			r.log.Warn().Err(err).Msg("timeline refresh failed, keeping current moments")
			return r.state
		}
		r.state = StateError
		return r.state
	}

	moments := Prepare(cards)
	if len(moments) == 0 {
		r.state = StateEmpty
		r.moments = nil
		r.next = 0
		return r.state
	}
	r.state = StateLoaded
	r.moments = moments
	r.next = 0
	return r.state
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Remaining reports how many moments have not been handed out yet.
func (r *Renderer) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.moments) - r.next
}

// NextBatch advances the render cursor and returns the next slice of moments,
// at most BatchSize of them. It returns nil once everything has been handed
// out or when the renderer is not in the Loaded state.
func (r *Renderer) NextBatch() []Moment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state != StateLoaded || r.next >= len(r.moments) {
		return nil
	}
	end := r.next + r.batchSize
	if end > len(r.moments) {
		end = len(r.moments)
	}
	batch := r.moments[r.next:end]
	r.next = end
	return batch
}

// Serve consumes viewport-proximity events and emits one batch per event on
// the returned channel. The channel closes when the events channel closes,
// the context ends, the renderer is closed, or the collection is exhausted.
func (r *Renderer) Serve(ctx context.Context, proximity <-chan struct{}) <-chan []Moment {
	out := make(chan []Moment)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-proximity:
				if !ok {
					return
				}
				batch := r.NextBatch()
				if batch == nil {
					return
				}
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// ReducedMotion reports whether animations should be suppressed for this view.
func (r *Renderer) ReducedMotion() bool {
	return r.reducedMotion
}

// Close tears the renderer down. Further batches are refused and held
// moments are released. Safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.moments = nil
	r.next = 0
}
