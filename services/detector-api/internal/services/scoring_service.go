package services

import (
	"fmt"

	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"go.uber.org/zap"
)

const (
	suspiciousThreshold = 0.3
	fakeThreshold       = 0.5
	highProbability     = 0.7

	lateReviewDays  = 365
	botReviewCount  = 50
	shortTextLength = 50

	baseProbability = 0.05
	minProbability  = 0.02
	maxProbability  = 0.98
)

// Scorer classifies a single review.
type Scorer interface {
	Score(review views.ReviewInput) views.PredictionResult
}

// ScorerConfig holds configuration for the rule-based scorer.
type ScorerConfig struct {
	Logger *zap.Logger
}

// NewScorer creates the rule-based review scorer. It stands in for the
// trained model: the risk rules match the ones the model's feature extractor
// was built around, so verdict shapes and risk factors are contract-exact
// even though the probabilities come from weights, not the classifier.
func NewScorer(cfg ScorerConfig) Scorer {
	return &cfg
}

// Score derives fake/genuine probabilities from the review's risk signals.
// The two probabilities always sum to 1.
func (s *ScorerConfig) Score(review views.ReviewInput) views.PredictionResult {
	fake := baseProbability
	var factors []string

	if review.OrderID == "" {
		factors = append(factors, "Missing order ID")
		fake += 0.10
	}
	if review.PurchaseID == "" {
		factors = append(factors, "Missing purchase ID")
		fake += 0.10
	}
	if !review.VerifiedPurchase {
		factors = append(factors, "Unverified purchase - IDs do not match")
		fake += 0.15
	}
	if review.DaysAfterPurchase < 0 {
		factors = append(factors, "Review posted before purchase (impossible timing)")
		fake += 0.25
	} else if review.DaysAfterPurchase > lateReviewDays {
		factors = append(factors, fmt.Sprintf("Review posted %d days after purchase (very late)", review.DaysAfterPurchase))
		fake += 0.10
	}
	if review.UserReviewCount > botReviewCount {
		factors = append(factors, fmt.Sprintf("User has posted %d reviews (potential bot)", review.UserReviewCount))
		fake += 0.15
	}
	if review.Rating == 1 || review.Rating == 5 {
		factors = append(factors, fmt.Sprintf("Extreme rating (%d stars)", review.Rating))
		fake += 0.05
	}
	if len(review.Text) < shortTextLength {
		factors = append(factors, "Very short review (low detail)")
		fake += 0.10
	}

	if fake < minProbability {
		fake = minProbability
	}
	if fake > maxProbability {
		fake = maxProbability
	}
	if fake > highProbability {
		factors = append(factors, fmt.Sprintf("High fake probability (%.1f%%)", fake*100))
	}

	genuine := 1 - fake
	confidence := fake
	prediction := pkg.PredictionGenuine
	if fake >= fakeThreshold {
		prediction = pkg.PredictionFake
	} else {
		confidence = genuine
	}

	status := pkg.StatusGenuine
	switch {
	case prediction == pkg.PredictionFake:
		status = pkg.StatusFake
	case fake > suspiciousThreshold:
		status = pkg.StatusSuspicious
	}

	return views.PredictionResult{
		Prediction:         prediction,
		Status:             status,
		Confidence:         confidence,
		FakeProbability:    fake,
		GenuineProbability: genuine,
		RiskFactors:        factors,
	}
}
