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

func newReviews(api *stubAPI) orchestrators.Reviews {
	return orchestrators.NewReviews(orchestrators.ReviewsConfig{
		Logger: zap.NewNop(),
		Client: api,
	})
}

func awaitReviewsTerminal(t *testing.T, updates <-chan orchestrators.ReviewsState) orchestrators.ReviewsState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-updates:
			if s.Phase.Terminal() {
				return s
			}
		case <-deadline:
			t.Fatal("review browser never reached a terminal phase")
		}
	}
}

func TestReviews_DefaultsAppliedBeforeDispatch(t *testing.T) {
	var gotPage, gotPerPage int
	var gotFilter string
	api := &stubAPI{
		reviewsFn: func(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error) {
			gotPage, gotPerPage, gotFilter = page, perPage, filter
			return &views.ReviewPage{Page: page, PerPage: perPage}, nil
		},
	}
	r := newReviews(api)
	defer r.Close()

	r.LoadPage(0, -5, "")
	state := awaitReviewsTerminal(t, r.Updates())

	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 50, gotPerPage)
	assert.Equal(t, "all", gotFilter)
	assert.Equal(t, "all", state.Filter)
}

func TestReviews_RapidPageFlips_NewestWins(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	api := &stubAPI{
		reviewsFn: func(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error) {
			if page == 1 {
				close(firstStarted)
				<-releaseFirst
			}
			return &views.ReviewPage{Page: page, PerPage: perPage}, nil
		},
	}
	r := newReviews(api)
	defer r.Close()

	r.LoadPage(1, 10, "all")
	<-firstStarted
	r.LoadPage(2, 10, "all")

	state := awaitReviewsTerminal(t, r.Updates())
	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	require.NotNil(t, state.Page)
	assert.Equal(t, 2, state.Page.Page)

	// Page 1 resolving late stays discarded.
	close(releaseFirst)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, r.State().Page.Page)
	assert.Equal(t, 2, api.calls("reviews"))
}

func TestReviews_FilterErrorKeepsFilterInState(t *testing.T) {
	api := &stubAPI{
		reviewsFn: func(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error) {
			return nil, &pkg.ServiceError{Status: 500, Message: "dataset unavailable"}
		},
	}
	r := newReviews(api)
	defer r.Close()

	r.LoadPage(1, 20, "fake")
	state := awaitReviewsTerminal(t, r.Updates())

	assert.Equal(t, pkg.PhaseError, state.Phase)
	assert.Equal(t, "fake", state.Filter)
	assert.Equal(t, "dataset unavailable", state.Err)
	assert.Nil(t, state.Page)
}
