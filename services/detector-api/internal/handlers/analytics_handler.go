package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/services"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	logger  *zap.Logger
	service services.Analytics
}

func NewAnalyticsHandler(logger *zap.Logger, svc services.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{logger: logger, service: svc}
}

// RegisterRoutes registers analytics routes on the provided Gin group.
func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analytics/summary", h.GetSummary)
	r.GET("/analytics/category", h.GetCategoryStats)
	r.GET("/analytics/timing", h.GetTimingStats)
	r.GET("/analytics/model-performance", h.GetModelPerformance)
	r.GET("/analytics/verification-status", h.GetVerificationStatus)
	r.GET("/analytics/reviews", h.GetReviews)
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary())
}

func (h *AnalyticsHandler) GetCategoryStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CategoryStats())
}

func (h *AnalyticsHandler) GetTimingStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.TimingStats())
}

func (h *AnalyticsHandler) GetModelPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ModelPerformance())
}

func (h *AnalyticsHandler) GetVerificationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.VerificationStatus())
}

func (h *AnalyticsHandler) GetReviews(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)
	filter := c.DefaultQuery("filter", "all")
	c.JSON(http.StatusOK, h.service.Reviews(page, perPage, filter))
}

// queryInt reads an integer query parameter, keeping the default on absent or
// unparsable values.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
