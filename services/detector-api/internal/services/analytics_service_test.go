package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixtureAnalytics loads a small hand-built dataset with known counts:
// 6 rows, 2 fake, categories Electronics (2 fake of 3) and Books (0 of 3).
func fixtureAnalytics(t *testing.T) Analytics {
	t.Helper()
	csv := `text_,rating,label,category,verified_purchase,days_after_purchase,user_review_count,order_id,purchase_id
"Buy this now, amazing deal",5,CG,Electronics,false,-1,90,,
"Incredible product everyone needs one",5,CG,Electronics,false,0,70,,
"The battery comfortably lasts two full days of mixed use",4,OR,Electronics,true,7,4,ORD-1,PUR-1
"A well paced story with a satisfying ending",5,OR,Books,true,1,2,ORD-2,PUR-2
"The paperback binding survived a month in my backpack",4,OR,Books,true,30,3,ORD-3,
"Thoughtful footnotes that add context without derailing the chapters",5,OR,Books,true,400,6,ORD-4,PUR-4
`
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	st, err := store.Load(zap.NewNop(), path, "")
	require.NoError(t, err)
	return NewAnalytics(AnalyticsConfig{Logger: zap.NewNop(), Store: st})
}

func TestSummary_CountsAndRates(t *testing.T) {
	summary := fixtureAnalytics(t).Summary()

	assert.Equal(t, 6, summary.TotalReviews)
	assert.Equal(t, 2, summary.FakeReviews)
	assert.Equal(t, 4, summary.GenuineReviews)
	assert.InDelta(t, 33.33, summary.FakePercentage, 0.01)
	assert.InDelta(t, 66.67, summary.GenuinePercentage, 0.01)
	assert.Positive(t, summary.ModelAccuracy)
}

func TestCategoryStats_SortedByFakeRateDescending(t *testing.T) {
	breakdown := fixtureAnalytics(t).CategoryStats()

	require.Len(t, breakdown.Categories, 2)
	assert.Equal(t, "Electronics", breakdown.Categories[0].Category)
	assert.InDelta(t, 66.67, breakdown.Categories[0].FakeRate, 0.01)
	assert.Equal(t, "Books", breakdown.Categories[1].Category)
	assert.Zero(t, breakdown.Categories[1].FakeRate)
	assert.Equal(t, 3, breakdown.Categories[1].Genuine)
}

func TestTimingStats_DayZeroCountsAsBeforePurchase(t *testing.T) {
	dist := fixtureAnalytics(t).TimingStats()

	byPeriod := map[string]int{}
	for _, b := range dist.TimingDistribution {
		byPeriod[b.Period] = b.Total
	}

	// Days -1 and 0 both land before purchase; days 1 and 7 in the first
	// post-purchase bucket.
	assert.Equal(t, 2, byPeriod["Before Purchase"])
	assert.Equal(t, 2, byPeriod["0-7 days"])
	assert.Equal(t, 1, byPeriod["8-30 days"])
	assert.Equal(t, 1, byPeriod["365+ days"])
	// Empty buckets are omitted entirely.
	assert.NotContains(t, byPeriod, "31-90 days")
	assert.NotContains(t, byPeriod, "91-180 days")
}

func TestVerificationStatus_Counts(t *testing.T) {
	status := fixtureAnalytics(t).VerificationStatus()

	assert.Equal(t, 4, status.VerifiedPurchases)
	assert.Equal(t, 2, status.UnverifiedPurchases)
	assert.Equal(t, 2, status.MissingOrderID)
	assert.Equal(t, 3, status.MissingPurchaseID)
	assert.InDelta(t, 66.67, status.VerificationRate, 0.01)
}

func TestReviews_FilterAndPagination(t *testing.T) {
	a := fixtureAnalytics(t)

	fake := a.Reviews(1, 10, "fake")
	assert.Equal(t, 2, fake.Total)
	require.Len(t, fake.Reviews, 2)
	assert.Equal(t, store.LabelFake, fake.Reviews[0].Label)
	assert.Nil(t, fake.Reviews[0].OrderID, "missing IDs serialize as null")

	secondPage := a.Reviews(2, 4, "all")
	assert.Equal(t, 6, secondPage.Total)
	assert.Equal(t, 2, secondPage.TotalPages)
	assert.Len(t, secondPage.Reviews, 2)

	// Out-of-range pages clamp to empty rather than failing.
	empty := a.Reviews(9, 4, "all")
	assert.Empty(t, empty.Reviews)
	assert.Equal(t, 6, empty.Total)
}

func TestModelPerformance_EmbeddedMetricsCarryMatrix(t *testing.T) {
	perf := fixtureAnalytics(t).ModelPerformance()

	assert.Positive(t, perf.Accuracy)
	require.NotNil(t, perf.ConfusionMatrix)
	assert.Positive(t, perf.ConfusionMatrix.TruePositives)
	assert.Contains(t, perf.ClassificationReport, "CG")
}
