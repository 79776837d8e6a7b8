package orchestrators

import (
	"context"
	"sync"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"go.uber.org/zap"
)

// PerformanceState is the UI-facing state of the model-performance view.
// Metrics may be partial (nil confusion matrix, empty per-class report); the
// view-model adapter resolves the gaps to explicit unavailable markers.
type PerformanceState struct {
	Phase   pkg.Phase
	Metrics *views.PerformanceMetrics
	Err     string
}

// Performance owns the single-call lifecycle of the model-performance view.
type Performance interface {
	// Load fetches the metrics. Reloading supersedes an in-flight load.
	Load()

	Close()
	State() PerformanceState
	Updates() <-chan PerformanceState
}

// PerformanceConfig holds dependencies for the model-performance view.
type PerformanceConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Client  client.API
}

type performance struct {
	logger *zap.Logger
	client client.API
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	closed  bool
	state   PerformanceState
	updates chan PerformanceState
}

// NewPerformance initializes a Performance orchestrator with the provided configuration.
func NewPerformance(cfg PerformanceConfig) Performance {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(cfg.Context)
	return &performance{
		logger:  cfg.Logger,
		client:  cfg.Client,
		ctx:     ctx,
		cancel:  cancel,
		state:   PerformanceState{Phase: pkg.PhaseIdle},
		updates: make(chan PerformanceState, 8),
	}
}

func (p *performance) Load() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.gen++
	gen := p.gen
	p.setLocked(PerformanceState{Phase: pkg.PhaseLoading})
	p.mu.Unlock()

	go func() {
		metrics, err := p.client.ModelPerformance(p.ctx)
		p.complete(gen, metrics, err)
	}()
}

func (p *performance) complete(gen uint64, metrics *views.PerformanceMetrics, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		p.logger.Debug("stale_load_dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", p.gen))
		return
	}
	if err != nil {
		p.setLocked(PerformanceState{Phase: pkg.PhaseError, Err: pkg.UserMessage(err)})
		return
	}
	p.setLocked(PerformanceState{Phase: pkg.PhaseSuccess, Metrics: metrics})
}

func (p *performance) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.gen++
	p.mu.Unlock()
	p.cancel()
}

func (p *performance) State() PerformanceState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *performance) Updates() <-chan PerformanceState { return p.updates }

func (p *performance) setLocked(s PerformanceState) {
	p.state = s
	emit(p.updates, s)
}
