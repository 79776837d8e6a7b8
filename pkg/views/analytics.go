package views

// SummaryStats is the dataset-wide aggregate behind the dashboard header.
// Read-only; never mutated client-side.
type SummaryStats struct {
	TotalReviews      int     `json:"total_reviews"`
	FakeReviews       int     `json:"fake_reviews"`
	GenuineReviews    int     `json:"genuine_reviews"`
	FakePercentage    float64 `json:"fake_percentage"`
	GenuinePercentage float64 `json:"genuine_percentage"`
	ModelAccuracy     float64 `json:"model_accuracy"`
}

// CategoryStat is one product category's fake/genuine split.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Fake     int     `json:"fake"`
	Genuine  int     `json:"genuine"`
	FakeRate float64 `json:"fake_rate"`
}

// CategoryBreakdown is the response of GET /analytics/category,
// sorted by fake rate descending.
type CategoryBreakdown struct {
	Categories []CategoryStat `json:"categories"`
}

// TimingBucket is one bin of the days-after-purchase distribution.
type TimingBucket struct {
	Period   string  `json:"period"`
	Total    int     `json:"total"`
	Fake     int     `json:"fake"`
	Genuine  int     `json:"genuine"`
	FakeRate float64 `json:"fake_rate"`
}

// TimingDistribution is the response of GET /analytics/timing.
type TimingDistribution struct {
	TimingDistribution []TimingBucket `json:"timing_distribution"`
}

// VerificationStatus is the response of GET /analytics/verification-status.
type VerificationStatus struct {
	VerifiedPurchases   int     `json:"verified_purchases"`
	UnverifiedPurchases int     `json:"unverified_purchases"`
	MissingOrderID      int     `json:"missing_order_id"`
	MissingPurchaseID   int     `json:"missing_purchase_id"`
	VerificationRate    float64 `json:"verification_rate"`
}

// ReviewRecord is one labeled dataset row returned by the paginated browser.
type ReviewRecord struct {
	Text              string  `json:"text"`
	Rating            float64 `json:"rating"`
	Label             string  `json:"label"`
	Category          string  `json:"category"`
	VerifiedPurchase  bool    `json:"verified_purchase"`
	DaysAfterPurchase int     `json:"days_after_purchase"`
	UserReviewCount   int     `json:"user_review_count"`
	OrderID           *string `json:"order_id"`
	PurchaseID        *string `json:"purchase_id"`
}

// ReviewPage is the response of GET /analytics/reviews.
type ReviewPage struct {
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
	Reviews    []ReviewRecord `json:"reviews"`
}

// ConfusionMatrix holds the four confusion-matrix cells of the trained model.
type ConfusionMatrix struct {
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TruePositives  int `json:"true_positives"`
}

// ClassReport is one class row of the per-class classification report.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1-score"`
	Support   float64 `json:"support"`
}

// PerformanceMetrics is the response of GET /analytics/model-performance.
// The nested sections are optional: the backend may return partial metrics,
// so consumers must treat nil as "unavailable" rather than failing.
type PerformanceMetrics struct {
	Accuracy             float64                `json:"accuracy"`
	Precision            float64                `json:"precision"`
	Recall               float64                `json:"recall"`
	F1Score              float64                `json:"f1_score"`
	RocAuc               float64                `json:"roc_auc"`
	ConfusionMatrix      *ConfusionMatrix       `json:"confusion_matrix,omitempty"`
	ClassificationReport map[string]ClassReport `json:"classification_report,omitempty"`
}
