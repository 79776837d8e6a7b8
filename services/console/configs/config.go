package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/reviewguard/reviewguard-go/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds application configuration for the operator console.
type Config struct {
	// Base address of the detection service, e.g. http://localhost:5001.
	// There is exactly one upstream; the console never fans out across hosts.
	DetectorAddr string `mapstructure:"DETECTOR_ADDR" validate:"required,url"`

	// Hard deadline for every outbound call. The service contract allows no
	// retries, so this is the only knob bounding a submission.
	ClientTimeout time.Duration `mapstructure:"CLIENT_TIMEOUT" validate:"required"`

	// Upload cap, aligned with the service's 16MB request limit.
	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES" validate:"min=1"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("DETECTOR_ADDR", "http://localhost:5001")
	viper.SetDefault("CLIENT_TIMEOUT", "10s")
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
	viper.AddConfigPath("./services/console/configs")
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
