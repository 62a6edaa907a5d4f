package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8050"`

	// Data provider configuration
	DataBaseURL  string        `env:"DATA_BASE_URL,default=http://localhost:5000"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s"`
	FetchRetries int           `env:"FETCH_RETRIES,default=2"`
	MockupMode   bool          `env:"MOCKUP_MODE,default=false"`
	MocksDir     string        `env:"MOCKS_DIR,default=./mocks"`

	// Chart layout and animation
	DefaultWidth          float64       `env:"DEFAULT_WIDTH,default=450"`
	DefaultViewportWidth  float64       `env:"DEFAULT_VIEWPORT_WIDTH,default=1920"`
	DefaultViewportHeight float64       `env:"DEFAULT_VIEWPORT_HEIGHT,default=1080"`
	MobileBreakpoint      float64       `env:"MOBILE_BREAKPOINT,default=1366"`
	AnimationDuration     time.Duration `env:"ANIMATION_DURATION,default=6s"`

	// Render orchestration
	RenderTimeout  time.Duration `env:"RENDER_TIMEOUT,default=10s"`
	ResizeDebounce time.Duration `env:"RESIZE_DEBOUNCE,default=150ms"`

	// Export and archive storage
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	ExportDir      string `env:"EXPORT_DIR,default=./exports"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the render engine cannot work with
func (c *Config) Validate() error {
	if c.DefaultWidth <= 0 {
		return fmt.Errorf("DEFAULT_WIDTH must be positive, got %v", c.DefaultWidth)
	}
	if c.DefaultViewportWidth <= 0 || c.DefaultViewportHeight <= 0 {
		return fmt.Errorf("default viewport must be positive, got %vx%v", c.DefaultViewportWidth, c.DefaultViewportHeight)
	}
	if c.RenderTimeout <= 0 {
		return fmt.Errorf("RENDER_TIMEOUT must be positive, got %s", c.RenderTimeout)
	}
	if c.ResizeDebounce < 0 {
		return fmt.Errorf("RESIZE_DEBOUNCE must not be negative, got %s", c.ResizeDebounce)
	}
	if c.AnimationDuration < 0 {
		return fmt.Errorf("ANIMATION_DURATION must not be negative, got %s", c.AnimationDuration)
	}
	if c.DeploymentMode == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE is gcs")
	}
	return nil
}
