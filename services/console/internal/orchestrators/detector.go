package orchestrators

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"go.uber.org/zap"
)

// DetectorState is the full UI-facing state of the single-review view.
// Result and Err are mutually exclusive; entering a new phase always clears
// the previous payload so stale content never co-renders with fresh content.
type DetectorState struct {
	Phase  pkg.Phase
	Result *views.PredictionResult
	Err    string
}

// Detector owns the single-review submission lifecycle.
type Detector interface {
	// Submit dispatches one classification request. It returns ErrBusy while
	// a request is in flight (submit controls are disabled then) and a
	// ValidationError when a required field is missing, in which case the
	// view moves straight to Error without touching the wire.
	Submit(review views.ReviewInput) error

	// Reset returns the view to Idle and supersedes any in-flight request.
	Reset()

	// Close abandons in-flight work and suppresses all further updates.
	Close()

	State() DetectorState
	Updates() <-chan DetectorState
}

// DetectorConfig holds dependencies for the detector view.
type DetectorConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Client  client.API
}

type detector struct {
	logger *zap.Logger
	client client.API
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	closed   bool
	state    DetectorState
	updates  chan DetectorState
	validate *validator.Validate
}

// NewDetector initializes a Detector with the provided configuration.
func NewDetector(cfg DetectorConfig) Detector {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(cfg.Context)
	return &detector{
		logger:   cfg.Logger,
		client:   cfg.Client,
		ctx:      ctx,
		cancel:   cancel,
		state:    DetectorState{Phase: pkg.PhaseIdle},
		updates:  make(chan DetectorState, 8),
		validate: validator.New(),
	}
}

func (d *detector) Submit(review views.ReviewInput) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return pkg.ErrClosed
	}
	if d.state.Phase == pkg.PhaseLoading {
		// No state change, no call: resubmitting while Loading is a no-op.
		d.mu.Unlock()
		return pkg.ErrBusy
	}
	if err := validateReview(d.validate, review); err != nil {
		d.setLocked(DetectorState{Phase: pkg.PhaseError, Err: pkg.UserMessage(err)})
		d.mu.Unlock()
		return err
	}
	d.gen++
	gen := d.gen
	d.setLocked(DetectorState{Phase: pkg.PhaseLoading})
	d.mu.Unlock()

	go func() {
		result, err := d.client.Predict(d.ctx, review)
		d.complete(gen, result, err)
	}()
	return nil
}

func (d *detector) complete(gen uint64, result *views.PredictionResult, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		d.logger.Debug("stale_response_dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", d.gen))
		return
	}
	if err != nil {
		d.setLocked(DetectorState{Phase: pkg.PhaseError, Err: pkg.UserMessage(err)})
		return
	}
	d.setLocked(DetectorState{Phase: pkg.PhaseSuccess, Result: result})
}

func (d *detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.gen++ // supersede any in-flight submission
	d.setLocked(DetectorState{Phase: pkg.PhaseIdle})
}

func (d *detector) Close() {
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

func (d *detector) State() DetectorState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *detector) Updates() <-chan DetectorState { return d.updates }

func (d *detector) setLocked(s DetectorState) {
	d.state = s
	emit(d.updates, s)
}
