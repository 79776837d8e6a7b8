package orchestrators_test

import (
	"context"
	"testing"
	"time"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/internal/orchestrators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func awaitPerformanceTerminal(t *testing.T, updates <-chan orchestrators.PerformanceState) orchestrators.PerformanceState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-updates:
			if s.Phase.Terminal() {
				return s
			}
		case <-deadline:
			t.Fatal("performance view never reached a terminal phase")
		}
	}
}

func TestPerformance_LoadSuccess(t *testing.T) {
	api := &stubAPI{
		performanceFn: func(ctx context.Context) (*views.PerformanceMetrics, error) {
			return &views.PerformanceMetrics{Accuracy: 0.95}, nil
		},
	}
	p := orchestrators.NewPerformance(orchestrators.PerformanceConfig{Logger: zap.NewNop(), Client: api})
	defer p.Close()

	p.Load()
	state := awaitPerformanceTerminal(t, p.Updates())

	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	require.NotNil(t, state.Metrics)
	assert.InDelta(t, 0.95, state.Metrics.Accuracy, 1e-9)
}

func TestPerformance_NetworkFailureUsesFallbackMessage(t *testing.T) {
	api := &stubAPI{
		performanceFn: func(ctx context.Context) (*views.PerformanceMetrics, error) {
			return nil, &pkg.NetworkError{Op: "GET /analytics/model-performance", Cause: context.DeadlineExceeded}
		},
	}
	p := orchestrators.NewPerformance(orchestrators.PerformanceConfig{Logger: zap.NewNop(), Client: api})
	defer p.Close()

	p.Load()
	state := awaitPerformanceTerminal(t, p.Updates())

	assert.Equal(t, pkg.PhaseError, state.Phase)
	assert.NotEmpty(t, state.Err)
	assert.Nil(t, state.Metrics)
}
