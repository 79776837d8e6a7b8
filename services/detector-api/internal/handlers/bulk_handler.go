package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reviewguard/reviewguard-go/services/detector-api/internal/services"
	"go.uber.org/zap"
)

// templateCSV is the starter file offered to users preparing a bulk upload.
// Only text_ and rating are required; the rest improve scoring accuracy.
const templateCSV = `text_,rating,order_id,purchase_id,verified_purchase,days_after_purchase,user_review_count,category
"This product exceeded my expectations. The build quality is solid and it arrived well packaged.",4,ORD-10001,PUR-10001,true,12,3,Electronics
"Amazing! Best purchase ever! Buy it now!",5,,,false,-2,87,Electronics
"I have been using this blender daily for two months and the motor still runs smoothly.",5,ORD-10002,PUR-10002,true,61,7,Home
`

type BulkHandler struct {
	logger  *zap.Logger
	service services.Bulk

	// maxUploadBytes caps the request body before parsing begins.
	maxUploadBytes int64
}

func NewBulkHandler(logger *zap.Logger, svc services.Bulk, maxUploadBytes int64) *BulkHandler {
	return &BulkHandler{logger: logger, service: svc, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers bulk upload routes on the provided Gin group.
func (h *BulkHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bulk/upload", h.Upload)
	r.GET("/bulk/download/:id", h.Download)
	r.GET("/bulk/template", h.Template)
}

func (h *BulkHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv", ".xlsx":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only CSV and XLSX allowed"})
		return
	}

	result, err := h.service.Process(header.Filename, file)
	if err != nil {
		h.logger.Warn("bulk_upload_rejected",
			zap.String("filename", header.Filename),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error processing file: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BulkHandler) Download(c *gin.Context) {
	path, err := h.service.ResultPath(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found or expired"})
		return
	}
	c.FileAttachment(path, "review_analysis_results.csv")
}

func (h *BulkHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="review_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(templateCSV))
}
