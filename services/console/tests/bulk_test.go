package console_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/services/console/internal/orchestrators"
	testutils "github.com/reviewguard/reviewguard-go/tests/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reviewsCSV builds an upload file with fakeRows rows that trip every risk
// rule and genuineRows rows that trip none.
func reviewsCSV(t *testing.T, fakeRows, genuineRows int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write([]string{"text_", "rating", "order_id", "purchase_id", "verified_purchase", "days_after_purchase", "user_review_count", "category"}))
	for i := 0; i < fakeRows; i++ {
		require.NoError(t, w.Write([]string{
			"Best thing ever, buy now!", "5", "", "", "false", "-3", "150", "Electronics",
		}))
	}
	for i := 0; i < genuineRows; i++ {
		require.NoError(t, w.Write([]string{
			"After two months of daily use the battery still lasts the whole workday without a recharge.",
			"4", fmt.Sprintf("ORD-%04d", i), fmt.Sprintf("PUR-%04d", i), "true", "45", "5", "Electronics",
		}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.Bytes()
}

// waitBulk drains updates until the orchestrator reaches a terminal phase,
// collecting every observed progress value along the way.
func waitBulk(t *testing.T, b orchestrators.Bulk) (orchestrators.BulkState, []int) {
	t.Helper()
	var progress []int
	deadline := time.After(15 * time.Second)
	for {
		select {
		case s := <-b.Updates():
			progress = append(progress, s.Progress)
			if s.Phase.Terminal() {
				return s, progress
			}
		case <-deadline:
			t.Fatalf("bulk upload never reached a terminal phase, last state: %+v", b.State())
		}
	}
}

func TestBulkUpload_EndToEnd(t *testing.T) {
	// Arrange
	baseURL := testutils.StartDetectorAPIServer(t)
	api := newClient(t, baseURL)
	bulk := orchestrators.NewBulk(orchestrators.BulkConfig{Logger: pkg.Logger, Client: api})
	defer bulk.Close()

	contents := reviewsCSV(t, 30, 70)

	// Act
	err := bulk.Upload("reviews.csv", bytes.NewReader(contents))
	require.NoError(t, err)
	state, progress := waitBulk(t, bulk)

	// Assert outcome
	require.Equal(t, pkg.PhaseSuccess, state.Phase)
	require.NotNil(t, state.Result)
	assert.Equal(t, 100, state.Result.Total)
	assert.Equal(t, 30, state.Result.FakeCount)
	assert.Equal(t, 70, state.Result.GenuineCount)
	assert.InDelta(t, 30.0, state.Result.FakePercentage, 1e-9)
	assert.InDelta(t, 70.0, state.Result.GenuinePercentage, 1e-9)
	assert.NotEmpty(t, state.Result.DownloadID)
	assert.LessOrEqual(t, len(state.Result.ResultsPreview), 100)

	// Assert progress: non-decreasing, pinned at 100 on success
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 100, state.Progress)

	// The download link serves the full result set: header + one row each.
	url, err := bulk.DownloadURL()
	require.NoError(t, err)
	resp, err := testutils.GetRequest(t, url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 101)
}

func TestBulkUpload_InvalidFileType(t *testing.T) {
	baseURL := testutils.StartDetectorAPIServer(t)

	resp, err := testutils.UploadFile(t, baseURL+"/bulk/upload", "reviews.txt", []byte("not a spreadsheet"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid file type. Only CSV and XLSX allowed", testutils.DecodeError(t, resp.Body))
}

func TestBulkUpload_MissingRequiredColumn(t *testing.T) {
	baseURL := testutils.StartDetectorAPIServer(t)

	contents := []byte("rating,category\n5,Electronics\n")
	resp, err := testutils.UploadFile(t, baseURL+"/bulk/upload", "reviews.csv", contents)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutils.DecodeError(t, resp.Body), "missing required column: text_")
}

func TestBulkDownload_UnknownID(t *testing.T) {
	baseURL := testutils.StartDetectorAPIServer(t)

	resp, err := testutils.GetRequest(t, baseURL+"/bulk/download/not-a-real-id")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found or expired", testutils.DecodeError(t, resp.Body))
}

func TestBulkTemplate_Download(t *testing.T) {
	baseURL := testutils.StartDetectorAPIServer(t)

	resp, err := testutils.GetRequest(t, baseURL+"/bulk/template")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "text_,rating"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}
