package orchestrators

import (
	"context"
	"sync"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"go.uber.org/zap"
)

const defaultPerPage = 50

// ReviewsState is the UI-facing state of the labeled-review browser.
type ReviewsState struct {
	Phase  pkg.Phase
	Filter string
	Page   *views.ReviewPage
	Err    string
}

// Reviews owns the paginated dataset browser. Page flips are not gated on the
// previous page resolving: a newer LoadPage supersedes an in-flight one and
// the older response is discarded, so rapid flipping can never render a page
// the operator has already navigated away from.
type Reviews interface {
	LoadPage(page, perPage int, filter string)

	Close()
	State() ReviewsState
	Updates() <-chan ReviewsState
}

// ReviewsConfig holds dependencies for the review browser view.
type ReviewsConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Client  client.API
}

type reviews struct {
	logger *zap.Logger
	client client.API
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	closed  bool
	state   ReviewsState
	updates chan ReviewsState
}

// NewReviews initializes a Reviews orchestrator with the provided configuration.
func NewReviews(cfg ReviewsConfig) Reviews {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(cfg.Context)
	return &reviews{
		logger:  cfg.Logger,
		client:  cfg.Client,
		ctx:     ctx,
		cancel:  cancel,
		state:   ReviewsState{Phase: pkg.PhaseIdle},
		updates: make(chan ReviewsState, 8),
	}
}

func (r *reviews) LoadPage(page, perPage int, filter string) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if filter == "" {
		filter = "all"
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.gen++
	gen := r.gen
	r.setLocked(ReviewsState{Phase: pkg.PhaseLoading, Filter: filter})
	r.mu.Unlock()

	go func() {
		result, err := r.client.Reviews(r.ctx, page, perPage, filter)
		r.complete(gen, filter, result, err)
	}()
}

func (r *reviews) complete(gen uint64, filter string, result *views.ReviewPage, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		r.logger.Debug("stale_page_dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", r.gen))
		return
	}
	if err != nil {
		r.setLocked(ReviewsState{Phase: pkg.PhaseError, Filter: filter, Err: pkg.UserMessage(err)})
		return
	}
	r.setLocked(ReviewsState{Phase: pkg.PhaseSuccess, Filter: filter, Page: result})
}

func (r *reviews) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.gen++
	r.mu.Unlock()
	r.cancel()
}

func (r *reviews) State() ReviewsState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *reviews) Updates() <-chan ReviewsState { return r.updates }

func (r *reviews) setLocked(s ReviewsState) {
	r.state = s
	emit(r.updates, s)
}
