package services

import (
	"math"
	"sort"

	"github.com/reviewguard/reviewguard-go/pkg/utils"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/store"
	"go.uber.org/zap"
)

// timingBins mirror the distribution buckets the dashboard charts.
var timingBins = []struct {
	label string
	low   int // inclusive
	high  int // inclusive
}{
	// Right-closed intervals: day 0 lands in "Before Purchase", matching the
	// training pipeline's binning.
	{"Before Purchase", math.MinInt32, 0},
	{"0-7 days", 1, 7},
	{"8-30 days", 8, 30},
	{"31-90 days", 31, 90},
	{"91-180 days", 91, 180},
	{"181-365 days", 181, 365},
	{"365+ days", 366, math.MaxInt32},
}

// Analytics serves the read-only aggregates behind the dashboard views.
type Analytics interface {
	Summary() views.SummaryStats
	CategoryStats() views.CategoryBreakdown
	TimingStats() views.TimingDistribution
	VerificationStatus() views.VerificationStatus
	Reviews(page, perPage int, filter string) views.ReviewPage
	ModelPerformance() views.PerformanceMetrics
}

// AnalyticsConfig holds configuration and dependencies for the analytics service.
type AnalyticsConfig struct {
	Logger *zap.Logger
	Store  *store.Store
}

// NewAnalytics initializes the analytics service over the loaded dataset.
func NewAnalytics(cfg AnalyticsConfig) Analytics {
	return &cfg
}

func (a *AnalyticsConfig) Summary() views.SummaryStats {
	rows := a.Store.Rows()
	total := len(rows)
	fake := 0
	for _, r := range rows {
		if r.Label == store.LabelFake {
			fake++
		}
	}
	genuine := total - fake
	summary := views.SummaryStats{
		TotalReviews:   total,
		FakeReviews:    fake,
		GenuineReviews: genuine,
		ModelAccuracy:  a.Store.Metrics().Accuracy,
	}
	if total > 0 {
		summary.FakePercentage = utils.RoundRate(float64(fake) / float64(total) * 100)
		summary.GenuinePercentage = utils.RoundRate(float64(genuine) / float64(total) * 100)
	}
	return summary
}

func (a *AnalyticsConfig) CategoryStats() views.CategoryBreakdown {
	type counter struct {
		total int
		fake  int
	}
	counts := map[string]*counter{}
	var order []string
	for _, r := range a.Store.Rows() {
		c, ok := counts[r.Category]
		if !ok {
			c = &counter{}
			counts[r.Category] = c
			order = append(order, r.Category)
		}
		c.total++
		if r.Label == store.LabelFake {
			c.fake++
		}
	}

	stats := make([]views.CategoryStat, 0, len(order))
	for _, category := range order {
		c := counts[category]
		stat := views.CategoryStat{
			Category: category,
			Total:    c.total,
			Fake:     c.fake,
			Genuine:  c.total - c.fake,
		}
		if c.total > 0 {
			stat.FakeRate = utils.RoundRate(float64(c.fake) / float64(c.total) * 100)
		}
		stats = append(stats, stat)
	}
	// Highest fake rate first; ties keep dataset order for stable output.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].FakeRate > stats[j].FakeRate
	})
	return views.CategoryBreakdown{Categories: stats}
}

func (a *AnalyticsConfig) TimingStats() views.TimingDistribution {
	buckets := make([]views.TimingBucket, 0, len(timingBins))
	for _, bin := range timingBins {
		total, fake := 0, 0
		for _, r := range a.Store.Rows() {
			if r.DaysAfterPurchase < bin.low || r.DaysAfterPurchase > bin.high {
				continue
			}
			total++
			if r.Label == store.LabelFake {
				fake++
			}
		}
		if total == 0 {
			continue // empty bins are omitted, matching the dashboard charts
		}
		buckets = append(buckets, views.TimingBucket{
			Period:   bin.label,
			Total:    total,
			Fake:     fake,
			Genuine:  total - fake,
			FakeRate: utils.RoundRate(float64(fake) / float64(total) * 100),
		})
	}
	return views.TimingDistribution{TimingDistribution: buckets}
}

func (a *AnalyticsConfig) VerificationStatus() views.VerificationStatus {
	rows := a.Store.Rows()
	status := views.VerificationStatus{}
	for _, r := range rows {
		if r.VerifiedPurchase {
			status.VerifiedPurchases++
		} else {
			status.UnverifiedPurchases++
		}
		if r.OrderID == "" {
			status.MissingOrderID++
		}
		if r.PurchaseID == "" {
			status.MissingPurchaseID++
		}
	}
	if len(rows) > 0 {
		status.VerificationRate = utils.RoundRate(float64(status.VerifiedPurchases) / float64(len(rows)) * 100)
	}
	return status
}

func (a *AnalyticsConfig) Reviews(page, perPage int, filter string) views.ReviewPage {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	var filtered []store.Row
	for _, r := range a.Store.Rows() {
		switch filter {
		case "fake":
			if r.Label != store.LabelFake {
				continue
			}
		case "genuine":
			if r.Label != store.LabelGenuine {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	total := len(filtered)
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	records := make([]views.ReviewRecord, 0, end-start)
	for _, r := range filtered[start:end] {
		record := views.ReviewRecord{
			Text:              r.Text,
			Rating:            r.Rating,
			Label:             r.Label,
			Category:          r.Category,
			VerifiedPurchase:  r.VerifiedPurchase,
			DaysAfterPurchase: r.DaysAfterPurchase,
			UserReviewCount:   r.UserReviewCount,
		}
		if r.OrderID != "" {
			orderID := r.OrderID
			record.OrderID = &orderID
		}
		if r.PurchaseID != "" {
			purchaseID := r.PurchaseID
			record.PurchaseID = &purchaseID
		}
		records = append(records, record)
	}

	return views.ReviewPage{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
		Reviews:    records,
	}
}

func (a *AnalyticsConfig) ModelPerformance() views.PerformanceMetrics {
	m := a.Store.Metrics()
	perf := views.PerformanceMetrics{
		Accuracy:             m.Accuracy,
		Precision:            m.Precision,
		Recall:               m.Recall,
		F1Score:              m.F1Score,
		RocAuc:               m.RocAuc,
		ClassificationReport: m.ClassificationReport,
	}
	// The matrix is reported only when the metrics file carried all four
	// cells; consumers render an explicit unavailable marker otherwise.
	if m.TrueNegatives+m.FalsePositives+m.FalseNegatives+m.TruePositives > 0 {
		perf.ConfusionMatrix = &views.ConfusionMatrix{
			TrueNegatives:  m.TrueNegatives,
			FalsePositives: m.FalsePositives,
			FalseNegatives: m.FalseNegatives,
			TruePositives:  m.TruePositives,
		}
	}
	return perf
}
