package services

import (
	"testing"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScorer() Scorer {
	return NewScorer(ScorerConfig{Logger: zap.NewNop()})
}

func TestScore_EveryRuleFiring(t *testing.T) {
	// No IDs, unverified, posted before purchase, bot-scale history, extreme
	// rating, short text: 0.05 + 0.10 + 0.10 + 0.15 + 0.25 + 0.15 + 0.05 + 0.10.
	result := newTestScorer().Score(views.ReviewInput{
		Text:              "Great product!!",
		Rating:            5,
		VerifiedPurchase:  false,
		DaysAfterPurchase: -5,
		UserReviewCount:   120,
	})

	assert.Equal(t, pkg.PredictionFake, result.Prediction)
	assert.Equal(t, pkg.StatusFake, result.Status)
	assert.InDelta(t, 0.95, result.FakeProbability, 1e-9)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	require.Len(t, result.RiskFactors, 8)
	assert.Equal(t, "Missing order ID", result.RiskFactors[0])
	assert.Equal(t, "Missing purchase ID", result.RiskFactors[1])
	assert.Equal(t, "Unverified purchase - IDs do not match", result.RiskFactors[2])
	assert.Equal(t, "Review posted before purchase (impossible timing)", result.RiskFactors[3])
	assert.Equal(t, "User has posted 120 reviews (potential bot)", result.RiskFactors[4])
	assert.Equal(t, "Extreme rating (5 stars)", result.RiskFactors[5])
	assert.Equal(t, "Very short review (low detail)", result.RiskFactors[6])
	assert.Equal(t, "High fake probability (95.0%)", result.RiskFactors[7])
}

func TestScore_CleanReview(t *testing.T) {
	result := newTestScorer().Score(views.ReviewInput{
		Text:              "The blade guard clips on firmly and the blades have stayed sharp through weeks of prep work.",
		Rating:            4,
		OrderID:           "ORD-1",
		PurchaseID:        "PUR-1",
		VerifiedPurchase:  true,
		DaysAfterPurchase: 14,
		UserReviewCount:   3,
	})

	assert.Equal(t, pkg.PredictionGenuine, result.Prediction)
	assert.Equal(t, pkg.StatusGenuine, result.Status)
	assert.InDelta(t, 0.05, result.FakeProbability, 1e-9)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.Empty(t, result.RiskFactors)
}

func TestScore_SuspiciousBand(t *testing.T) {
	// Unverified with missing IDs: 0.05 + 0.10 + 0.10 + 0.15 = 0.40, under the
	// fake threshold but over the suspicious one.
	result := newTestScorer().Score(views.ReviewInput{
		Text:              "The mounting bracket needed a little filing but everything lined up after that adjustment.",
		Rating:            3,
		VerifiedPurchase:  false,
		DaysAfterPurchase: 10,
		UserReviewCount:   2,
	})

	assert.Equal(t, pkg.PredictionGenuine, result.Prediction)
	assert.Equal(t, pkg.StatusSuspicious, result.Status)
	assert.InDelta(t, 0.40, result.FakeProbability, 1e-9)
	assert.InDelta(t, 0.60, result.Confidence, 1e-9, "confidence follows the winning side")
}

func TestScore_ProbabilitiesSumToOne(t *testing.T) {
	inputs := []views.ReviewInput{
		{Text: "short", Rating: 1},
		{Text: "a moderately descriptive review that clears the length rule comfortably", Rating: 3, OrderID: "o", PurchaseID: "p", VerifiedPurchase: true, DaysAfterPurchase: 400, UserReviewCount: 60},
		{Text: "x", Rating: 5, DaysAfterPurchase: -1, UserReviewCount: 999},
	}
	for i, in := range inputs {
		result := newTestScorer().Score(in)
		assert.InDelta(t, 1.0, result.FakeProbability+result.GenuineProbability, 1e-9, "input %d", i)
		assert.GreaterOrEqual(t, result.FakeProbability, 0.02)
		assert.LessOrEqual(t, result.FakeProbability, 0.98)
	}
}

func TestScore_VeryLateReview(t *testing.T) {
	result := newTestScorer().Score(views.ReviewInput{
		Text:              "Still working fine after more than a year, though the finish has worn in places.",
		Rating:            4,
		OrderID:           "ORD-2",
		PurchaseID:        "PUR-2",
		VerifiedPurchase:  true,
		DaysAfterPurchase: 400,
		UserReviewCount:   5,
	})

	assert.Contains(t, result.RiskFactors, "Review posted 400 days after purchase (very late)")
	assert.Equal(t, pkg.PredictionGenuine, result.Prediction)
}
