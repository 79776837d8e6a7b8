package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"go.uber.org/zap"
)

// Upload sends a review file as the multipart `file` field. The multipart
// body is assembled up front so its exact length is known, then streamed
// through a counting reader; onProgress receives byte-level percentages and
// is guaranteed to have seen 100 before a non-nil result is returned.
func (c *ClientConfig) Upload(ctx context.Context, filename string, contents io.Reader, onProgress func(int)) (*views.BulkResult, error) {
	op := "POST /bulk/upload"

	data, err := io.ReadAll(io.LimitReader(contents, c.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", filename, err)
	}
	if int64(len(data)) > c.MaxUploadBytes {
		return nil, &pkg.ValidationError{Field: "file", Message: fmt.Sprintf("exceeds %d byte limit", c.MaxUploadBytes)}
	}
	if len(data) == 0 {
		return nil, &pkg.ValidationError{Field: "file", Message: "file is empty"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	total := int64(buf.Len())
	body := &progressReader{r: &buf, total: total, report: onProgress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bulk/upload", body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total
	traceID := uuid.New().String()
	req.Header.Set(pkg.HeaderTraceId, traceID)

	c.Logger.Debug("api_request",
		zap.String("op", op),
		zap.String(pkg.TraceId, traceID),
		zap.String("filename", filename),
		zap.Int64("bytes", total))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &pkg.NetworkError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkg.NetworkError{Op: op, Cause: err}
	}

	c.Logger.Debug("api_response",
		zap.String("op", op),
		zap.String(pkg.TraceId, traceID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &pkg.ServiceError{Status: resp.StatusCode, Message: serverMessage(respBody)}
	}

	var out views.BulkResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", op, err)
	}
	return &out, nil
}
