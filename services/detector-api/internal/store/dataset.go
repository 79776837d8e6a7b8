// Package store loads the labeled review dataset and trained-model metrics
// that back the analytics endpoints. Data is read once at startup and held
// immutable; the embedded samples keep the service bootable with no files on
// disk.
package store

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reviewguard/reviewguard-go/pkg/views"
	"go.uber.org/zap"
)

//go:embed sample_reviews.csv
var sampleReviews []byte

//go:embed sample_metrics.json
var sampleMetrics []byte

// Labels of the training dataset: CG (computer generated) marks fake
// reviews, OR (original) genuine ones.
const (
	LabelFake    = "CG"
	LabelGenuine = "OR"
)

// Row is one labeled dataset record.
type Row struct {
	Text              string
	Rating            float64
	Label             string
	Category          string
	VerifiedPurchase  bool
	DaysAfterPurchase int
	UserReviewCount   int
	OrderID           string
	PurchaseID        string
}

// Metrics mirrors the flat metrics JSON written at training time.
type Metrics struct {
	Accuracy             float64                      `json:"accuracy"`
	Precision            float64                      `json:"precision"`
	Recall               float64                      `json:"recall"`
	F1Score              float64                      `json:"f1_score"`
	RocAuc               float64                      `json:"roc_auc"`
	TrueNegatives        int                          `json:"true_negatives"`
	FalsePositives       int                          `json:"false_positives"`
	FalseNegatives       int                          `json:"false_negatives"`
	TruePositives        int                          `json:"true_positives"`
	ClassificationReport map[string]views.ClassReport `json:"classification_report"`
}

// Store holds the loaded dataset and metrics.
type Store struct {
	rows    []Row
	metrics Metrics
}

// Load reads the dataset CSV and metrics JSON from the given paths, falling
// back to the embedded samples when a path is empty.
func Load(logger *zap.Logger, datasetPath, metricsPath string) (*Store, error) {
	datasetSrc := sampleReviews
	if datasetPath != "" {
		b, err := os.ReadFile(datasetPath)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		datasetSrc = b
	}
	rows, err := ParseRows(bytes.NewReader(datasetSrc))
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	metricsSrc := sampleMetrics
	if metricsPath != "" {
		b, err := os.ReadFile(metricsPath)
		if err != nil {
			return nil, fmt.Errorf("read metrics: %w", err)
		}
		metricsSrc = b
	}
	var metrics Metrics
	if err := json.Unmarshal(metricsSrc, &metrics); err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}

	logger.Info("dataset_loaded",
		zap.Int("rows", len(rows)),
		zap.Bool("embedded_dataset", datasetPath == ""),
		zap.Bool("embedded_metrics", metricsPath == ""))
	return &Store{rows: rows, metrics: metrics}, nil
}

// Rows returns the loaded dataset. Callers must not mutate it.
func (s *Store) Rows() []Row { return s.rows }

// Metrics returns the trained-model metrics.
func (s *Store) Metrics() Metrics { return s.metrics }

// ParseRows decodes a labeled review CSV. Columns are matched by header
// name; text_ and rating are required, everything else defaults.
func ParseRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["text_"]; !ok {
		return nil, fmt.Errorf("missing required column: text_")
	}
	if _, ok := col["rating"]; !ok {
		return nil, fmt.Errorf("missing required column: rating")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rating, err := strconv.ParseFloat(field(record, "rating"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rating: %w", line, err)
		}
		rows = append(rows, Row{
			Text:              field(record, "text_"),
			Rating:            rating,
			Label:             field(record, "label"),
			Category:          defaultString(field(record, "category"), "General"),
			VerifiedPurchase:  parseBool(field(record, "verified_purchase")),
			DaysAfterPurchase: parseInt(field(record, "days_after_purchase"), 30),
			UserReviewCount:   parseInt(field(record, "user_review_count"), 1),
			OrderID:           field(record, "order_id"),
			PurchaseID:        field(record, "purchase_id"),
		})
	}
	return rows, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	// Upload files produced by spreadsheets often carry "30.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(f)
}
