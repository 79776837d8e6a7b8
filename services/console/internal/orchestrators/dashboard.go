package orchestrators

import (
	"context"
	"sync"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"go.uber.org/zap"
)

// DashboardData is the joined payload of the two dashboard calls. Both halves
// are always present in Success; half-loaded data is never rendered.
type DashboardData struct {
	Summary    *views.SummaryStats
	Categories *views.CategoryBreakdown
}

// DashboardState is the UI-facing state of the dashboard view.
type DashboardState struct {
	Phase pkg.Phase
	Data  *DashboardData
	Err   string
}

// Dashboard owns the fan-out/join lifecycle of the dashboard view.
type Dashboard interface {
	// Refresh issues the summary and category calls concurrently and joins
	// on both. Refreshing while a refresh is in flight supersedes it: the
	// newest generation wins, the older responses are discarded.
	Refresh()

	Close()
	State() DashboardState
	Updates() <-chan DashboardState
}

// DashboardConfig holds dependencies for the dashboard view.
type DashboardConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Client  client.API
}

type dashboard struct {
	logger *zap.Logger
	client client.API
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	closed  bool
	state   DashboardState
	updates chan DashboardState
}

// NewDashboard initializes a Dashboard orchestrator with the provided configuration.
func NewDashboard(cfg DashboardConfig) Dashboard {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(cfg.Context)
	return &dashboard{
		logger:  cfg.Logger,
		client:  cfg.Client,
		ctx:     ctx,
		cancel:  cancel,
		state:   DashboardState{Phase: pkg.PhaseIdle},
		updates: make(chan DashboardState, 8),
	}
}

func (d *dashboard) Refresh() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.gen++
	gen := d.gen
	d.setLocked(DashboardState{Phase: pkg.PhaseLoading})
	d.mu.Unlock()

	go func() {
		var (
			wg         sync.WaitGroup
			summary    *views.SummaryStats
			categories *views.CategoryBreakdown
			sErr, cErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			summary, sErr = d.client.Summary(d.ctx)
		}()
		go func() {
			defer wg.Done()
			categories, cErr = d.client.CategoryStats(d.ctx)
		}()
		// Join point: state moves only once both calls have resolved,
		// whatever their order or outcome.
		wg.Wait()
		d.complete(gen, summary, categories, sErr, cErr)
	}()
}

func (d *dashboard) complete(gen uint64, summary *views.SummaryStats, categories *views.CategoryBreakdown, sErr, cErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		d.logger.Debug("stale_refresh_dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", d.gen))
		return
	}
	if sErr != nil || cErr != nil {
		err := sErr
		if err == nil {
			err = cErr
		}
		d.setLocked(DashboardState{Phase: pkg.PhaseError, Err: pkg.UserMessage(err)})
		return
	}
	d.setLocked(DashboardState{
		Phase: pkg.PhaseSuccess,
		Data:  &DashboardData{Summary: summary, Categories: categories},
	})
}

func (d *dashboard) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.gen++
	d.mu.Unlock()
	d.cancel()
}

func (d *dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *dashboard) Updates() <-chan DashboardState { return d.updates }

func (d *dashboard) setLocked(s DashboardState) {
	d.state = s
	emit(d.updates, s)
}
