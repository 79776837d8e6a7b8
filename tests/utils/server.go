package testutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/services/detector-api/app"
	"github.com/reviewguard/reviewguard-go/services/detector-api/configs"
)

// StartDetectorAPIServer mounts the full detector-api route tree on an
// in-process test server backed by the embedded sample dataset.
// It returns the base URL; shutdown is registered via t.Cleanup.
func StartDetectorAPIServer(t *testing.T) string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	if pkg.Logger == nil {
		pkg.InitLogger()
	}

	cfg := &configs.Config{
		Port:           "0",
		ResultsDir:     t.TempDir(),
		MaxUploadBytes: 16 << 20,
	}
	router, err := app.NewRouter(pkg.Logger, cfg)
	if err != nil {
		t.Fatalf("failed to build detector-api router: %v", err)
	}

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}
