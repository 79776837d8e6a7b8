package orchestrators_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/orchestrators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBulk(api *stubAPI) orchestrators.Bulk {
	return orchestrators.NewBulk(orchestrators.BulkConfig{
		Logger: zap.NewNop(),
		Client: api,
	})
}

// collectUntilTerminal drains updates until a terminal phase, returning the
// final state and every progress value seen on the way.
func collectUntilTerminal(t *testing.T, updates <-chan orchestrators.BulkState) (orchestrators.BulkState, []int) {
	t.Helper()
	var progress []int
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-updates:
			progress = append(progress, s.Progress)
			if s.Phase.Terminal() {
				return s, progress
			}
		case <-deadline:
			t.Fatal("upload never reached a terminal phase")
		}
	}
}

func TestBulk_ProgressIsMonotoneAndPinnedAt100(t *testing.T) {
	api := &stubAPI{
		uploadFn: func(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
			// Out-of-order and duplicate reports; only forward motion may render.
			onProgress(10)
			onProgress(40)
			onProgress(25)
			onProgress(40)
			onProgress(75)
			return &views.BulkResult{Total: 4, DownloadID: "d-1"}, nil
		},
	}
	b := newBulk(api)
	defer b.Close()

	require.NoError(t, b.Upload("reviews.csv", strings.NewReader("data")))
	state, progress := collectUntilTerminal(t, b.Updates())

	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	assert.Equal(t, 100, state.Progress)
	assert.Equal(t, "reviews.csv", state.Filename)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress regressed at update %d: %v", i, progress)
	}
}

func TestBulk_UploadWhileUploading_IsRejected(t *testing.T) {
	release := make(chan struct{})
	api := &stubAPI{
		uploadFn: func(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
			<-release
			return &views.BulkResult{DownloadID: "d-1"}, nil
		},
	}
	b := newBulk(api)
	defer b.Close()

	require.NoError(t, b.Upload("first.csv", strings.NewReader("a")))
	err := b.Upload("second.csv", strings.NewReader("b"))
	assert.ErrorIs(t, err, pkg.ErrBusy)

	close(release)
	state, _ := collectUntilTerminal(t, b.Updates())
	assert.Equal(t, "first.csv", state.Filename)
	assert.Equal(t, 1, api.calls("upload"))
}

func TestBulk_NewFileImplicitlyResetsTerminalOutcome(t *testing.T) {
	api := &stubAPI{
		uploadFn: func(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
			if filename == "bad.csv" {
				return nil, &pkg.ServiceError{Status: 400, Message: "Error processing file"}
			}
			return &views.BulkResult{Total: 2, DownloadID: "d-2"}, nil
		},
	}
	b := newBulk(api)
	defer b.Close()

	require.NoError(t, b.Upload("bad.csv", strings.NewReader("x")))
	state, _ := collectUntilTerminal(t, b.Updates())
	require.Equal(t, pkg.PhaseError, state.Phase)

	// No explicit Reset: selecting the next file clears the failure.
	require.NoError(t, b.Upload("good.csv", strings.NewReader("y")))
	state, _ = collectUntilTerminal(t, b.Updates())
	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	assert.Empty(t, state.Err)
	assert.Equal(t, "good.csv", state.Filename)
}

func TestBulk_DownloadURLOnlyAfterSuccess(t *testing.T) {
	api := &stubAPI{
		uploadFn: func(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
			return &views.BulkResult{Total: 1, DownloadID: "abc-123"}, nil
		},
	}
	b := newBulk(api)
	defer b.Close()

	_, err := b.DownloadURL()
	assert.ErrorIs(t, err, pkg.ErrNoResult)

	require.NoError(t, b.Upload("reviews.csv", strings.NewReader("x")))
	collectUntilTerminal(t, b.Updates())

	url, err := b.DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "http://stub/bulk/download/abc-123", url)

	// Reset discards the result, and with it the link.
	b.Reset()
	_, err = b.DownloadURL()
	assert.ErrorIs(t, err, pkg.ErrNoResult)
}

func TestBulk_EmptyFilename_FailsWithoutDispatch(t *testing.T) {
	api := &stubAPI{}
	b := newBulk(api)
	defer b.Close()

	err := b.Upload("", strings.NewReader("x"))

	var vErr *pkg.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, pkg.PhaseError, b.State().Phase)
	assert.Zero(t, api.calls("upload"))
}
