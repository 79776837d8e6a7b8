package configs

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/reviewguard/reviewguard-go/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds application configuration for detector-api.
type Config struct {
	Port string `mapstructure:"PORT" validate:"required"`

	// DatasetPath points at the labeled review CSV backing the analytics
	// endpoints; empty falls back to the embedded sample dataset.
	DatasetPath string `mapstructure:"DATASET_PATH"`

	// MetricsPath points at the trained-model metrics JSON; empty falls back
	// to the embedded sample metrics.
	MetricsPath string `mapstructure:"METRICS_PATH"`

	// ResultsDir is where bulk result files live until downloaded; empty
	// uses the OS temp dir. Nothing else is persisted.
	ResultsDir string `mapstructure:"RESULTS_DIR"`

	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES" validate:"min=1"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "5001")
	viper.SetDefault("MAX_UPLOAD_BYTES", 16<<20)

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running_in_test_mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running_in_development_mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/detector-api/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}

	// Validate after unmarshal
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
