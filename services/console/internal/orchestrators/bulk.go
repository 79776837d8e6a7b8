package orchestrators

import (
	"context"
	"io"
	"sync"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"go.uber.org/zap"
)

// BulkState is the UI-facing state of the bulk-analysis view. Progress is a
// percentage derived from transport byte counters; within one upload it is
// monotonically non-decreasing and equals 100 exactly when Phase is Success.
type BulkState struct {
	Phase    pkg.Phase
	Filename string
	Progress int
	Result   *views.BulkResult
	Err      string
}

// Bulk owns the file-upload lifecycle of the bulk-analysis view.
type Bulk interface {
	// Upload dispatches one progress-tracked upload. Selecting a new file
	// from a terminal phase implicitly resets the prior outcome; uploading
	// while an upload is in flight returns ErrBusy.
	Upload(filename string, contents io.Reader) error

	// DownloadURL returns the full-results URL. It is available only after a
	// successful upload; the file itself is fetched by direct navigation,
	// never through the transport client.
	DownloadURL() (string, error)

	Reset()
	Close()
	State() BulkState
	Updates() <-chan BulkState
}

// BulkConfig holds dependencies for the bulk-analysis view.
type BulkConfig struct {
	Context context.Context
	Logger  *zap.Logger
	Client  client.API
}

type bulk struct {
	logger *zap.Logger
	client client.API
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	closed  bool
	state   BulkState
	updates chan BulkState
}

// NewBulk initializes a Bulk orchestrator with the provided configuration.
func NewBulk(cfg BulkConfig) Bulk {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(cfg.Context)
	return &bulk{
		logger:  cfg.Logger,
		client:  cfg.Client,
		ctx:     ctx,
		cancel:  cancel,
		state:   BulkState{Phase: pkg.PhaseIdle},
		updates: make(chan BulkState, 16),
	}
}

func (b *bulk) Upload(filename string, contents io.Reader) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return pkg.ErrClosed
	}
	if b.state.Phase == pkg.PhaseUploading {
		b.mu.Unlock()
		return pkg.ErrBusy
	}
	if filename == "" {
		err := &pkg.ValidationError{Field: "file", Message: "no file selected"}
		b.setLocked(BulkState{Phase: pkg.PhaseError, Err: pkg.UserMessage(err)})
		b.mu.Unlock()
		return err
	}
	b.gen++ // a new file supersedes whatever came before, terminal or in flight
	gen := b.gen
	b.setLocked(BulkState{Phase: pkg.PhaseUploading, Filename: filename, Progress: 0})
	b.mu.Unlock()

	go func() {
		result, err := b.client.Upload(b.ctx, filename, contents, func(pct int) {
			b.progress(gen, pct)
		})
		b.complete(gen, result, err)
	}()
	return nil
}

// progress applies a byte-counter percentage to the current upload. Stale
// generations and regressions are dropped so the rendered value never moves
// backwards.
func (b *bulk) progress(gen uint64, pct int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || gen != b.gen || b.state.Phase != pkg.PhaseUploading {
		return
	}
	if pct <= b.state.Progress {
		return
	}
	next := b.state
	next.Progress = pct
	b.setLocked(next)
}

func (b *bulk) complete(gen uint64, result *views.BulkResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || gen != b.gen {
		b.logger.Debug("stale_upload_dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", b.gen))
		return
	}
	if err != nil {
		b.setLocked(BulkState{Phase: pkg.PhaseError, Filename: b.state.Filename, Err: pkg.UserMessage(err)})
		return
	}
	// The body was fully sent before the service answered, so the counter
	// already reached 100; pin it regardless.
	b.setLocked(BulkState{
		Phase:    pkg.PhaseSuccess,
		Filename: b.state.Filename,
		Progress: 100,
		Result:   result,
	})
}

func (b *bulk) DownloadURL() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.Phase != pkg.PhaseSuccess || b.state.Result == nil {
		return "", pkg.ErrNoResult
	}
	return b.client.DownloadURL(b.state.Result.DownloadID), nil
}

func (b *bulk) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.gen++
	b.setLocked(BulkState{Phase: pkg.PhaseIdle})
}

func (b *bulk) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.gen++
	b.mu.Unlock()
	b.cancel()
}

func (b *bulk) State() BulkState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *bulk) Updates() <-chan BulkState { return b.updates }

func (b *bulk) setLocked(s BulkState) {
	b.state = s
	emit(b.updates, s)
}
