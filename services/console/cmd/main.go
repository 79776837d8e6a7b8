package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
	"github.com/reviewguard/reviewguard-go/services/console/configs"
	"github.com/reviewguard/reviewguard-go/services/console/internal/client"
	"github.com/reviewguard/reviewguard-go/services/console/internal/orchestrators"
	"github.com/reviewguard/reviewguard-go/services/console/internal/viewmodels"
	"go.uber.org/zap"
)

// main runs one console view against the detection service and exits.
func main() {
	_ = godotenv.Load() // optional .env for local development

	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync() // Ensure all buffered logs are flushed on exit

	var (
		view        = flag.String("view", "dashboard", "view to run: detect | bulk | dashboard | performance | reviews")
		text        = flag.String("text", "", "review text (detect)")
		rating      = flag.Int("rating", 0, "star rating 1-5 (detect)")
		orderID     = flag.String("order-id", "", "order id (detect, optional)")
		purchaseID  = flag.String("purchase-id", "", "purchase id (detect, optional)")
		verified    = flag.Bool("verified", false, "verified purchase (detect)")
		userID      = flag.String("user-id", "", "user id (detect, optional)")
		days        = flag.Int("days", 0, "days after purchase, may be negative (detect)")
		reviewCount = flag.Int("review-count", 0, "reviews posted by this user (detect)")
		category    = flag.String("category", "", "product category (detect, optional)")
		file        = flag.String("file", "", "CSV/XLSX file to analyze (bulk)")
		page        = flag.Int("page", 1, "page number (reviews)")
		perPage     = flag.Int("per-page", 50, "rows per page (reviews)")
		filter      = flag.String("filter", "all", "all | fake | genuine (reviews)")
	)
	flag.Parse()

	cfg, err := configs.Load(logger)
	if err != nil {
		logger.Fatal("failed_to_load_config", zap.Error(err))
	}

	api := client.New(client.ClientConfig{
		Logger:         logger,
		BaseURL:        cfg.DetectorAddr,
		Timeout:        cfg.ClientTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// One-shot runs still honor Ctrl-C: the orchestrators abandon in-flight
	// work when the context is cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ok bool
	switch *view {
	case "detect":
		ok = runDetect(ctx, logger, api, views.ReviewInput{
			Text:              *text,
			Rating:            *rating,
			OrderID:           *orderID,
			PurchaseID:        *purchaseID,
			VerifiedPurchase:  *verified,
			UserID:            *userID,
			DaysAfterPurchase: *days,
			UserReviewCount:   *reviewCount,
			Category:          *category,
		})
	case "bulk":
		ok = runBulk(ctx, logger, api, *file)
	case "dashboard":
		ok = runDashboard(ctx, logger, api)
	case "performance":
		ok = runPerformance(ctx, logger, api)
	case "reviews":
		ok = runReviews(ctx, logger, api, *page, *perPage, *filter)
	default:
		logger.Fatal("unknown_view", zap.String("view", *view))
	}

	if !ok {
		os.Exit(1)
	}
}

func runDetect(ctx context.Context, logger *zap.Logger, api client.API, review views.ReviewInput) bool {
	o := orchestrators.NewDetector(orchestrators.DetectorConfig{Context: ctx, Logger: logger, Client: api})
	defer o.Close()

	if err := o.Submit(review); err != nil {
		fmt.Fprintln(os.Stderr, "error:", o.State().Err)
		return false
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case state := <-o.Updates():
			switch state.Phase {
			case pkg.PhaseSuccess:
				printPrediction(viewmodels.NewPredictionView(state.Result))
				return true
			case pkg.PhaseError:
				fmt.Fprintln(os.Stderr, "error:", state.Err)
				return false
			}
		}
	}
}

func runBulk(ctx context.Context, logger *zap.Logger, api client.API, path string) bool {
	o := orchestrators.NewBulk(orchestrators.BulkConfig{Context: ctx, Logger: logger, Client: api})
	defer o.Close()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return false
	}
	defer f.Close()

	if err := o.Upload(path, f); err != nil {
		fmt.Fprintln(os.Stderr, "error:", o.State().Err)
		return false
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case state := <-o.Updates():
			switch state.Phase {
			case pkg.PhaseUploading:
				fmt.Printf("\ruploading %3d%%", state.Progress)
			case pkg.PhaseSuccess:
				fmt.Println()
				printBulk(viewmodels.NewBulkView(state.Result))
				if url, err := o.DownloadURL(); err == nil {
					fmt.Println("full results:", url)
				}
				return true
			case pkg.PhaseError:
				fmt.Println()
				fmt.Fprintln(os.Stderr, "error:", state.Err)
				return false
			}
		}
	}
}

func runDashboard(ctx context.Context, logger *zap.Logger, api client.API) bool {
	o := orchestrators.NewDashboard(orchestrators.DashboardConfig{Context: ctx, Logger: logger, Client: api})
	defer o.Close()

	o.Refresh()
	for {
		select {
		case <-ctx.Done():
			return false
		case state := <-o.Updates():
			switch state.Phase {
			case pkg.PhaseSuccess:
				printSummary(viewmodels.NewSummaryView(state.Data.Summary))
				printCategories(viewmodels.NewCategoryRows(state.Data.Categories))
				printSecondaryBlocks(ctx, api)
				return true
			case pkg.PhaseError:
				fmt.Fprintln(os.Stderr, "error:", state.Err)
				return false
			}
		}
	}
}

// printSecondaryBlocks renders the timing and verification panels under the
// dashboard header. They are supplementary: a failure here degrades the
// output, it does not fail the run.
func printSecondaryBlocks(ctx context.Context, api client.API) {
	if timing, err := api.TimingStats(ctx); err == nil {
		fmt.Println("review timing:")
		printTiming(viewmodels.NewTimingRows(timing))
	}
	if status, err := api.VerificationStatus(ctx); err == nil {
		printVerification(viewmodels.NewVerificationView(status))
	}
}

func runPerformance(ctx context.Context, logger *zap.Logger, api client.API) bool {
	o := orchestrators.NewPerformance(orchestrators.PerformanceConfig{Context: ctx, Logger: logger, Client: api})
	defer o.Close()

	o.Load()
	for {
		select {
		case <-ctx.Done():
			return false
		case state := <-o.Updates():
			switch state.Phase {
			case pkg.PhaseSuccess:
				printPerformance(viewmodels.NewPerformanceView(state.Metrics))
				return true
			case pkg.PhaseError:
				fmt.Fprintln(os.Stderr, "error:", state.Err)
				return false
			}
		}
	}
}

func runReviews(ctx context.Context, logger *zap.Logger, api client.API, page, perPage int, filter string) bool {
	o := orchestrators.NewReviews(orchestrators.ReviewsConfig{Context: ctx, Logger: logger, Client: api})
	defer o.Close()

	o.LoadPage(page, perPage, filter)
	for {
		select {
		case <-ctx.Done():
			return false
		case state := <-o.Updates():
			switch state.Phase {
			case pkg.PhaseSuccess:
				fmt.Printf("page %d/%d (%s, %d total)\n",
					state.Page.Page, state.Page.TotalPages, state.Filter, state.Page.Total)
				for _, row := range viewmodels.NewReviewRows(state.Page) {
					fmt.Printf("  [%s] %s  %s  %q\n", row.Label, row.Rating, row.Category, row.Text)
				}
				return true
			case pkg.PhaseError:
				fmt.Fprintln(os.Stderr, "error:", state.Err)
				return false
			}
		}
	}
}

func printPrediction(v viewmodels.PredictionView) {
	fmt.Printf("verdict:    %s\n", v.Verdict)
	fmt.Printf("confidence: %s (fake %s / genuine %s)\n", v.Confidence, v.FakeShare, v.GenuineShare)
	if len(v.RiskFactors) > 0 {
		fmt.Println("risk factors:")
		for _, rf := range v.RiskFactors {
			fmt.Println("  -", rf)
		}
	}
}

func printBulk(v viewmodels.BulkView) {
	fmt.Printf("analyzed %d reviews: %d fake (%s), %d genuine\n",
		v.Total, v.FakeCount, v.FakeShare, v.GenuineCount)
	for _, row := range v.Preview {
		fmt.Printf("  [%s %s] %q\n", row.Prediction, row.Confidence, row.Text)
	}
}

func printSummary(v viewmodels.SummaryView) {
	fmt.Printf("reviews: %d total, %d fake (%s), %d genuine (%s), model accuracy %s\n",
		v.TotalReviews, v.FakeReviews, v.FakeShare, v.GenuineReviews, v.GenuineShare, v.ModelAccuracy)
}

func printCategories(rows []viewmodels.CategoryRow) {
	for _, row := range rows {
		fmt.Printf("  %-16s %5d reviews, fake rate %s (%s)\n",
			row.Category, row.Total, row.FakeRate, row.Severity)
	}
}

func printTiming(rows []viewmodels.TimingRow) {
	for _, row := range rows {
		fmt.Printf("  %-16s %5d reviews, fake rate %s (%s)\n",
			row.Period, row.Total, row.FakeRate, row.Severity)
	}
}

func printVerification(v viewmodels.VerificationView) {
	fmt.Printf("verification: %d verified (%s), %d unverified, %d missing order id, %d missing purchase id\n",
		v.Verified, v.VerificationRate, v.Unverified, v.MissingOrderID, v.MissingPurchase)
}

func printPerformance(v viewmodels.PerformanceView) {
	fmt.Printf("accuracy %s  precision %s  recall %s  f1 %s  roc-auc %s\n",
		v.Accuracy, v.Precision, v.Recall, v.F1Score, v.RocAuc)
	cm := v.ConfusionMatrix
	fmt.Printf("confusion matrix: tn=%s fp=%s fn=%s tp=%s\n",
		cm.TrueNegatives, cm.FalsePositives, cm.FalseNegatives, cm.TruePositives)
	for _, c := range v.Classes {
		fmt.Printf("  %-10s precision %s  recall %s  f1 %s  support %s\n",
			c.Label, c.Precision, c.Recall, c.F1Score, c.Support)
	}
}
