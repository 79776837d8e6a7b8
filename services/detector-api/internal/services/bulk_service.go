package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/utils"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/store"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// previewLimit caps how many scored rows ride along in the upload response;
// the complete set is only available through the download file.
const previewLimit = 100

// ErrResultNotFound marks a download id with no stored result file.
var ErrResultNotFound = errors.New("result file not found or expired")

// Bulk scores whole review files and keeps the full results around for one
// download. Result files are plain temp files; nothing survives a restart.
type Bulk interface {
	Process(filename string, contents io.Reader) (*views.BulkResult, error)
	ResultPath(downloadID string) (string, error)
}

// BulkConfig holds configuration and dependencies for the bulk service.
type BulkConfig struct {
	Logger     *zap.Logger
	Scorer     Scorer
	ResultsDir string // empty uses the OS temp dir
}

// NewBulk initializes the bulk scoring service.
func NewBulk(cfg BulkConfig) Bulk {
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = os.TempDir()
	}
	return &cfg
}

// Process parses an uploaded CSV/XLSX file, scores every row and writes the
// full results to a download file keyed by a fresh id.
func (b *BulkConfig) Process(filename string, contents io.Reader) (*views.BulkResult, error) {
	reviews, err := parseUpload(filename, contents)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("no reviews found in file")
	}

	results := make([]views.PredictionResult, len(reviews))
	fakeCount := 0
	for i, review := range reviews {
		results[i] = b.Scorer.Score(review)
		if results[i].Prediction == pkg.PredictionFake {
			fakeCount++
		}
	}

	downloadID, err := b.writeResults(reviews, results)
	if err != nil {
		return nil, err
	}

	total := len(reviews)
	genuineCount := total - fakeCount

	preview := make([]views.BulkRow, 0, min(total, previewLimit))
	for i := 0; i < total && i < previewLimit; i++ {
		preview = append(preview, views.BulkRow{
			Text:               reviews[i].Text,
			Rating:             float64(reviews[i].Rating),
			Prediction:         results[i].Prediction,
			Confidence:         results[i].Confidence,
			FakeProbability:    results[i].FakeProbability,
			GenuineProbability: results[i].GenuineProbability,
		})
	}

	b.Logger.Info("bulk_processed",
		zap.String("filename", filename),
		zap.Int("total", total),
		zap.Int("fake", fakeCount),
		zap.String("download_id", downloadID))

	return &views.BulkResult{
		Total:             total,
		FakeCount:         fakeCount,
		GenuineCount:      genuineCount,
		FakePercentage:    utils.RoundRate(float64(fakeCount) / float64(total) * 100),
		GenuinePercentage: utils.RoundRate(float64(genuineCount) / float64(total) * 100),
		ResultsPreview:    preview,
		DownloadID:        downloadID,
	}, nil
}

// ResultPath resolves a download id to its file. Ids are uuids minted by
// writeResults; anything else is rejected before touching the filesystem.
func (b *BulkConfig) ResultPath(downloadID string) (string, error) {
	if _, err := uuid.Parse(downloadID); err != nil {
		return "", ErrResultNotFound
	}
	path := filepath.Join(b.ResultsDir, downloadID+".csv")
	if _, err := os.Stat(path); err != nil {
		return "", ErrResultNotFound
	}
	return path, nil
}

func (b *BulkConfig) writeResults(reviews []views.ReviewInput, results []views.PredictionResult) (string, error) {
	downloadID := uuid.New().String()
	path := filepath.Join(b.ResultsDir, downloadID+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"text_", "rating", "prediction", "confidence", "fake_probability", "genuine_probability"}); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	for i, review := range reviews {
		record := []string{
			review.Text,
			strconv.Itoa(review.Rating),
			string(results[i].Prediction),
			strconv.FormatFloat(results[i].Confidence, 'f', 4, 64),
			strconv.FormatFloat(results[i].FakeProbability, 'f', 4, 64),
			strconv.FormatFloat(results[i].GenuineProbability, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write result file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	return downloadID, nil
}

// parseUpload decodes the uploaded spreadsheet into review inputs, filling
// the same defaults the single-review endpoint applies.
func parseUpload(filename string, contents io.Reader) ([]views.ReviewInput, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err := store.ParseRows(contents)
		if err != nil {
			return nil, err
		}
		return rowsToReviews(rows), nil
	case ".xlsx":
		return parseXLSX(contents)
	default:
		return nil, fmt.Errorf("invalid file type. Only CSV and XLSX allowed")
	}
}

func parseXLSX(contents io.Reader) ([]views.ReviewInput, error) {
	f, err := excelize.OpenReader(contents)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	// Re-encode as CSV so both formats flow through one parser.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("convert sheet: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("convert sheet: %w", err)
	}

	rows, err := store.ParseRows(&buf)
	if err != nil {
		return nil, err
	}
	return rowsToReviews(rows), nil
}

func rowsToReviews(rows []store.Row) []views.ReviewInput {
	reviews := make([]views.ReviewInput, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, views.ReviewInput{
			Text:              r.Text,
			Rating:            int(math.Round(r.Rating)),
			OrderID:           r.OrderID,
			PurchaseID:        r.PurchaseID,
			VerifiedPurchase:  r.VerifiedPurchase,
			UserID:            "UNKNOWN",
			DaysAfterPurchase: r.DaysAfterPurchase,
			UserReviewCount:   r.UserReviewCount,
			Category:          r.Category,
		})
	}
	return reviews
}
