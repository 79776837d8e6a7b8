package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/services"
	"go.uber.org/zap"
)

type PredictHandler struct {
	logger *zap.Logger
	scorer services.Scorer
}

func NewPredictHandler(logger *zap.Logger, scorer services.Scorer) *PredictHandler {
	return &PredictHandler{logger: logger, scorer: scorer}
}

// RegisterRoutes registers prediction routes on the provided Gin group.
func (h *PredictHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/predict", h.Predict)
	r.POST("/predict/batch", h.PredictBatch)
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var review views.ReviewInput
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if msg := validateReview(review); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, h.scorer.Score(review))
}

func (h *PredictHandler) PredictBatch(c *gin.Context) {
	// Decode by hand so one malformed review surfaces as a per-item error
	// instead of failing the whole batch.
	var req struct {
		Reviews []json.RawMessage `json:"reviews"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if len(req.Reviews) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No reviews provided"})
		return
	}

	results := make([]views.BatchItem, 0, len(req.Reviews))
	for _, raw := range req.Reviews {
		var review views.ReviewInput
		if err := json.Unmarshal(raw, &review); err != nil {
			results = append(results, views.BatchItem{Error: "Invalid review object"})
			continue
		}
		if msg := validateReview(review); msg != "" {
			results = append(results, views.BatchItem{Error: msg})
			continue
		}
		results = append(results, views.BatchItem{PredictionResult: h.scorer.Score(review)})
	}

	c.JSON(http.StatusOK, views.BatchResult{
		Total:   len(results),
		Results: results,
	})
}

// validateReview returns the contract error message for a bad review, or an
// empty string when the review is acceptable.
func validateReview(review views.ReviewInput) string {
	if review.Text == "" {
		return "Missing required field: text_"
	}
	if review.Rating < 1 || review.Rating > 5 {
		return "Rating must be between 1 and 5"
	}
	return ""
}
