// Package viewmodels maps raw service payloads into presentation-ready
// shapes. Every adapter is a deterministic, side-effect-free function;
// defaulting for partial payloads lives here and nowhere else.
package viewmodels

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/reviewguard/reviewguard-go/pkg/views"
)

// Unavailable marks a metric the backend did not return. Partial payloads
// resolve to this marker instead of failing the whole view.
const Unavailable = "n/a"

const previewLimit = 10

// Severity buckets a category's fake rate for at-a-glance triage.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityFor buckets a fake rate (0..100): above 60 is high, 40..60 medium,
// anything lower is low.
func SeverityFor(fakeRate float64) Severity {
	switch {
	case fakeRate > 60:
		return SeverityHigh
	case fakeRate >= 40:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Share formats a 0..1 ratio as a percentage with two decimals, e.g. "95.00%".
func Share(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 2, 64) + "%"
}

// Rate formats an already-scaled 0..100 rate with one decimal, e.g. "50.0%".
func Rate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}

// PredictionView is the presentation shape of a single verdict.
type PredictionView struct {
	Verdict      string
	Confidence   string
	FakeShare    string
	GenuineShare string
	RiskFactors  []string
}

func NewPredictionView(r *views.PredictionResult) PredictionView {
	return PredictionView{
		Verdict:      string(r.Status),
		Confidence:   Share(r.Confidence),
		FakeShare:    Share(r.FakeProbability),
		GenuineShare: Share(r.GenuineProbability),
		RiskFactors:  r.RiskFactors,
	}
}

// SummaryView is the dashboard header block.
type SummaryView struct {
	TotalReviews   int
	FakeReviews    int
	GenuineReviews int
	FakeShare      string
	GenuineShare   string
	ModelAccuracy  string
}

func NewSummaryView(s *views.SummaryStats) SummaryView {
	return SummaryView{
		TotalReviews:   s.TotalReviews,
		FakeReviews:    s.FakeReviews,
		GenuineReviews: s.GenuineReviews,
		FakeShare:      Rate(s.FakePercentage),
		GenuineShare:   Rate(s.GenuinePercentage),
		ModelAccuracy:  Share(s.ModelAccuracy),
	}
}

// CategoryRow is one line of the per-category chart data.
type CategoryRow struct {
	Category string
	Total    int
	Fake     int
	Genuine  int
	FakeRate string
	Severity Severity
}

func NewCategoryRows(b *views.CategoryBreakdown) []CategoryRow {
	rows := make([]CategoryRow, 0, len(b.Categories))
	for _, c := range b.Categories {
		rows = append(rows, CategoryRow{
			Category: c.Category,
			Total:    c.Total,
			Fake:     c.Fake,
			Genuine:  c.Genuine,
			FakeRate: Rate(c.FakeRate),
			Severity: SeverityFor(c.FakeRate),
		})
	}
	return rows
}

// PreviewRow is one line of the bulk-result preview table.
type PreviewRow struct {
	Text       string
	Prediction string
	Confidence string
}

// BulkView is the presentation shape of a finished bulk run. The preview is
// truncated to the first ten entries; the full file is reached via the
// download URL only.
type BulkView struct {
	Total        int
	FakeCount    int
	GenuineCount int
	FakeShare    string
	Preview      []PreviewRow
}

func NewBulkView(r *views.BulkResult) BulkView {
	preview := r.ResultsPreview
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	rows := make([]PreviewRow, 0, len(preview))
	for _, p := range preview {
		rows = append(rows, PreviewRow{
			Text:       p.Text,
			Prediction: string(p.Prediction),
			Confidence: Share(p.Confidence),
		})
	}
	return BulkView{
		Total:        r.Total,
		FakeCount:    r.FakeCount,
		GenuineCount: r.GenuineCount,
		FakeShare:    Rate(r.FakePercentage),
		Preview:      rows,
	}
}

// ConfusionMatrixView renders the four cells, or unavailable markers when the
// backend returned no matrix.
type ConfusionMatrixView struct {
	Available      bool
	TrueNegatives  string
	FalsePositives string
	FalseNegatives string
	TruePositives  string
}

// ClassRow is one class of the per-class report.
type ClassRow struct {
	Label     string
	Precision string
	Recall    string
	F1Score   string
	Support   string
}

// PerformanceView is the presentation shape of the model-performance page.
type PerformanceView struct {
	Accuracy        string
	Precision       string
	Recall          string
	F1Score         string
	RocAuc          string
	ConfusionMatrix ConfusionMatrixView
	Classes         []ClassRow
}

func NewPerformanceView(m *views.PerformanceMetrics) PerformanceView {
	view := PerformanceView{
		Accuracy:  Share(m.Accuracy),
		Precision: Share(m.Precision),
		Recall:    Share(m.Recall),
		F1Score:   Share(m.F1Score),
		RocAuc:    strconv.FormatFloat(m.RocAuc, 'f', 2, 64),
		ConfusionMatrix: ConfusionMatrixView{
			TrueNegatives:  Unavailable,
			FalsePositives: Unavailable,
			FalseNegatives: Unavailable,
			TruePositives:  Unavailable,
		},
	}

	if cm := m.ConfusionMatrix; cm != nil {
		view.ConfusionMatrix = ConfusionMatrixView{
			Available:      true,
			TrueNegatives:  strconv.Itoa(cm.TrueNegatives),
			FalsePositives: strconv.Itoa(cm.FalsePositives),
			FalseNegatives: strconv.Itoa(cm.FalseNegatives),
			TruePositives:  strconv.Itoa(cm.TruePositives),
		}
	}

	labels := make([]string, 0, len(m.ClassificationReport))
	for label := range m.ClassificationReport {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		c := m.ClassificationReport[label]
		view.Classes = append(view.Classes, ClassRow{
			Label:     label,
			Precision: Share(c.Precision),
			Recall:    Share(c.Recall),
			F1Score:   Share(c.F1Score),
			Support:   strconv.FormatFloat(c.Support, 'f', 0, 64),
		})
	}
	return view
}

// TimingRow is one bucket of the days-after-purchase distribution.
type TimingRow struct {
	Period   string
	Total    int
	Fake     int
	Genuine  int
	FakeRate string
	Severity Severity
}

func NewTimingRows(d *views.TimingDistribution) []TimingRow {
	rows := make([]TimingRow, 0, len(d.TimingDistribution))
	for _, b := range d.TimingDistribution {
		rows = append(rows, TimingRow{
			Period:   b.Period,
			Total:    b.Total,
			Fake:     b.Fake,
			Genuine:  b.Genuine,
			FakeRate: Rate(b.FakeRate),
			Severity: SeverityFor(b.FakeRate),
		})
	}
	return rows
}

// VerificationView is the verification-status block.
type VerificationView struct {
	Verified         int
	Unverified       int
	MissingOrderID   int
	MissingPurchase  int
	VerificationRate string
}

func NewVerificationView(v *views.VerificationStatus) VerificationView {
	return VerificationView{
		Verified:         v.VerifiedPurchases,
		Unverified:       v.UnverifiedPurchases,
		MissingOrderID:   v.MissingOrderID,
		MissingPurchase:  v.MissingPurchaseID,
		VerificationRate: Rate(v.VerificationRate),
	}
}

// ReviewRow is one line of the labeled-review browser.
type ReviewRow struct {
	Text     string
	Rating   string
	Label    string
	Category string
	Verified bool
}

func NewReviewRows(p *views.ReviewPage) []ReviewRow {
	rows := make([]ReviewRow, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		rows = append(rows, ReviewRow{
			Text:     r.Text,
			Rating:   fmt.Sprintf("%.1f", r.Rating),
			Label:    r.Label,
			Category: r.Category,
			Verified: r.VerifiedPurchase,
		})
	}
	return rows
}
