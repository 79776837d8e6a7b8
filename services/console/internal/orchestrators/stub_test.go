package orchestrators_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/reviewguard/reviewguard-go/pkg/views"
)

var errStubNotWired = errors.New("stub: endpoint not wired")

// stubAPI implements client.API with per-endpoint function hooks so tests can
// control response timing and observe call counts.
type stubAPI struct {
	mu           sync.Mutex
	predictCalls int
	uploadCalls  int
	reviewCalls  int

	predictFn     func(ctx context.Context, review views.ReviewInput) (*views.PredictionResult, error)
	uploadFn      func(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error)
	summaryFn     func(ctx context.Context) (*views.SummaryStats, error)
	categoryFn    func(ctx context.Context) (*views.CategoryBreakdown, error)
	performanceFn func(ctx context.Context) (*views.PerformanceMetrics, error)
	reviewsFn     func(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error)
}

func (s *stubAPI) Health(ctx context.Context) error { return nil }

func (s *stubAPI) Predict(ctx context.Context, review views.ReviewInput) (*views.PredictionResult, error) {
	s.mu.Lock()
	s.predictCalls++
	s.mu.Unlock()
	if s.predictFn == nil {
		return nil, errStubNotWired
	}
	return s.predictFn(ctx, review)
}

func (s *stubAPI) PredictBatch(ctx context.Context, reviews []views.ReviewInput) (*views.BatchResult, error) {
	return nil, errStubNotWired
}

func (s *stubAPI) Summary(ctx context.Context) (*views.SummaryStats, error) {
	if s.summaryFn == nil {
		return nil, errStubNotWired
	}
	return s.summaryFn(ctx)
}

func (s *stubAPI) CategoryStats(ctx context.Context) (*views.CategoryBreakdown, error) {
	if s.categoryFn == nil {
		return nil, errStubNotWired
	}
	return s.categoryFn(ctx)
}

func (s *stubAPI) TimingStats(ctx context.Context) (*views.TimingDistribution, error) {
	return nil, errStubNotWired
}

func (s *stubAPI) ModelPerformance(ctx context.Context) (*views.PerformanceMetrics, error) {
	if s.performanceFn == nil {
		return nil, errStubNotWired
	}
	return s.performanceFn(ctx)
}

func (s *stubAPI) VerificationStatus(ctx context.Context) (*views.VerificationStatus, error) {
	return nil, errStubNotWired
}

func (s *stubAPI) Reviews(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error) {
	s.mu.Lock()
	s.reviewCalls++
	s.mu.Unlock()
	if s.reviewsFn == nil {
		return nil, errStubNotWired
	}
	return s.reviewsFn(ctx, page, perPage, filter)
}

func (s *stubAPI) Upload(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
	s.mu.Lock()
	s.uploadCalls++
	s.mu.Unlock()
	if s.uploadFn == nil {
		return nil, errStubNotWired
	}
	return s.uploadFn(ctx, filename, contents, onProgress)
}

func (s *stubAPI) DownloadURL(downloadID string) string {
	return "http://stub/bulk/download/" + downloadID
}

func (s *stubAPI) TemplateURL() string {
	return "http://stub/bulk/template"
}

func (s *stubAPI) calls(which string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch which {
	case "predict":
		return s.predictCalls
	case "upload":
		return s.uploadCalls
	case "reviews":
		return s.reviewCalls
	}
	return 0
}
