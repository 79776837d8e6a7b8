package views

import "github.com/reviewguard/reviewguard-go/pkg"

// ReviewInput is the wire shape of a single review submitted for
// classification. The `text_` field name is part of the service contract.
// Unset optional fields serialize as empty strings; days_after_purchase may
// legitimately be negative (review posted before the purchase) and is passed
// through unmodified.
type ReviewInput struct {
	Text              string `json:"text_" validate:"required"`
	Rating            int    `json:"rating" validate:"required,min=1,max=5"`
	OrderID           string `json:"order_id"`
	PurchaseID        string `json:"purchase_id"`
	VerifiedPurchase  bool   `json:"verified_purchase"`
	UserID            string `json:"user_id"`
	DaysAfterPurchase int    `json:"days_after_purchase"`
	UserReviewCount   int    `json:"user_review_count"`
	Category          string `json:"category"`
}

// PredictionResult is the service's verdict for one review.
// FakeProbability + GenuineProbability sums to 1.
type PredictionResult struct {
	Prediction         pkg.Prediction   `json:"prediction"`
	Status             pkg.ReviewStatus `json:"status"`
	Confidence         float64          `json:"confidence"`
	FakeProbability    float64          `json:"fake_probability"`
	GenuineProbability float64          `json:"genuine_probability"`
	RiskFactors        []string         `json:"risk_factors"`
}

// BatchRequest wraps multiple reviews for POST /predict/batch.
type BatchRequest struct {
	Reviews []ReviewInput `json:"reviews"`
}

// BatchItem is one entry of a batch response; a review that failed
// classification carries Error instead of a result.
type BatchItem struct {
	PredictionResult
	Error string `json:"error,omitempty"`
}

// BatchResult is the response of POST /predict/batch.
type BatchResult struct {
	Total   int         `json:"total"`
	Results []BatchItem `json:"results"`
}
