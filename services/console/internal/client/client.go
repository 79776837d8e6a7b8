package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/utils"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"go.uber.org/zap"
)

// API is the transport surface the orchestrators drive. One upstream, fixed
// deadline, no retries: a failed call is surfaced to the user, who resubmits.
type API interface {
	Health(ctx context.Context) error
	Predict(ctx context.Context, review views.ReviewInput) (*views.PredictionResult, error)
	PredictBatch(ctx context.Context, reviews []views.ReviewInput) (*views.BatchResult, error)
	Summary(ctx context.Context) (*views.SummaryStats, error)
	CategoryStats(ctx context.Context) (*views.CategoryBreakdown, error)
	TimingStats(ctx context.Context) (*views.TimingDistribution, error)
	ModelPerformance(ctx context.Context) (*views.PerformanceMetrics, error)
	VerificationStatus(ctx context.Context) (*views.VerificationStatus, error)
	Reviews(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error)
	Upload(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error)

	// Download artifacts are fetched by direct URL navigation, outside the
	// typed request/response contract; the client only builds the URLs.
	DownloadURL(downloadID string) string
	TemplateURL() string
}

// ClientConfig holds configuration and dependencies for the transport client.
type ClientConfig struct {
	Logger  *zap.Logger
	BaseURL string
	Timeout time.Duration

	// MaxUploadBytes caps bulk uploads before any bytes hit the wire,
	// mirroring the service's request size limit.
	MaxUploadBytes int64

	// internal initialization
	httpClient *http.Client
}

// New initializes the transport client with the provided configuration.
func New(cfg ClientConfig) API {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.httpClient = utils.NewHTTPClient(utils.WithClientTimeout(cfg.Timeout))
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 16 << 20
	}
	return &cfg
}

func (c *ClientConfig) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *ClientConfig) Predict(ctx context.Context, review views.ReviewInput) (*views.PredictionResult, error) {
	var out views.PredictionResult
	if err := c.call(ctx, http.MethodPost, "/predict", review, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) PredictBatch(ctx context.Context, reviews []views.ReviewInput) (*views.BatchResult, error) {
	var out views.BatchResult
	if err := c.call(ctx, http.MethodPost, "/predict/batch", views.BatchRequest{Reviews: reviews}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) Summary(ctx context.Context) (*views.SummaryStats, error) {
	var out views.SummaryStats
	if err := c.call(ctx, http.MethodGet, "/analytics/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) CategoryStats(ctx context.Context) (*views.CategoryBreakdown, error) {
	var out views.CategoryBreakdown
	if err := c.call(ctx, http.MethodGet, "/analytics/category", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) TimingStats(ctx context.Context) (*views.TimingDistribution, error) {
	var out views.TimingDistribution
	if err := c.call(ctx, http.MethodGet, "/analytics/timing", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) ModelPerformance(ctx context.Context) (*views.PerformanceMetrics, error) {
	var out views.PerformanceMetrics
	if err := c.call(ctx, http.MethodGet, "/analytics/model-performance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) VerificationStatus(ctx context.Context) (*views.VerificationStatus, error) {
	var out views.VerificationStatus
	if err := c.call(ctx, http.MethodGet, "/analytics/verification-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) Reviews(ctx context.Context, page, perPage int, filter string) (*views.ReviewPage, error) {
	path := fmt.Sprintf("/analytics/reviews?page=%d&per_page=%d&filter=%s", page, perPage, filter)
	var out views.ReviewPage
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientConfig) DownloadURL(downloadID string) string {
	return c.BaseURL + "/bulk/download/" + downloadID
}

func (c *ClientConfig) TemplateURL() string {
	return c.BaseURL + "/bulk/template"
}

// call issues one request and normalizes every failure into the error
// taxonomy: NetworkError when no usable response arrived, ServiceError for
// non-2xx statuses. Exactly one log entry per call and per response.
func (c *ClientConfig) call(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	traceID := uuid.New().String()
	req.Header.Set(pkg.HeaderTraceId, traceID)

	c.Logger.Debug("api_request",
		zap.String("op", op),
		zap.String(pkg.TraceId, traceID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &pkg.NetworkError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &pkg.NetworkError{Op: op, Cause: err}
	}

	c.Logger.Debug("api_response",
		zap.String("op", op),
		zap.String(pkg.TraceId, traceID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &pkg.ServiceError{Status: resp.StatusCode, Message: serverMessage(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response for %s: %w", op, err)
		}
	}
	return nil
}

// serverMessage extracts the service's `{"error": "..."}` envelope; an empty
// string means the body carried no usable message.
func serverMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}
