package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// legacyModelDirEnv is the variable name used by the earlier notebook tooling.
	legacyModelDirEnv = "MODEL_PATH"
	legacyDataDirEnv  = "DATA_PATH"
)

var errInvalidConfig = errors.New("invalid config")

type Config struct {
	AppEnv        string        `env:"APP_ENV" envDefault:"local"`
	HealthPort    int           `env:"HEALTH_PORT" envDefault:"0"`
	OutputPath    string        `env:"OUTPUT_PATH"`
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"30s"`

	Artifacts  ArtifactConfig
	Dataset    DatasetConfig
	Normalizer NormalizerConfig
	Topics     TopicConfig
	Peaks      PeakConfig
	Report     ReportConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyLegacyAliases(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Topics.KMin < 1 || c.Topics.KMax < c.Topics.KMin {
		return fmt.Errorf("%w: topic range %d..%d", errInvalidConfig, c.Topics.KMin, c.Topics.KMax)
	}

	if c.Topics.CVFolds < 1 {
		return fmt.Errorf("%w: topic cv folds %d", errInvalidConfig, c.Topics.CVFolds)
	}

	if c.Peaks.Eps <= 0 || c.Peaks.MinPoints < 1 {
		return fmt.Errorf("%w: peak eps %v min points %d", errInvalidConfig, c.Peaks.Eps, c.Peaks.MinPoints)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", errInvalidConfig, c.Dataset.Timezone, err)
	}

	return nil
}

// Location returns the configured timezone used for hour bucketing.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Dataset.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading location: %w", err)
	}

	return loc, nil
}

// ArtifactPath joins an artifact file name with the artifact directory.
func (c *Config) ArtifactPath(name string) string {
	return filepath.Join(c.Artifacts.Dir, name)
}

// DatasetPath joins a dataset file name with the dataset directory.
func (c *Config) DatasetPath(name string) string {
	return filepath.Join(c.Dataset.Dir, name)
}

func applyLegacyAliases(cfg *Config) {
	if !hasEnv("ARTIFACT_DIR") {
		setStringFromEnv(legacyModelDirEnv, &cfg.Artifacts.Dir)
	}

	if !hasEnv("DATASET_DIR") {
		setStringFromEnv(legacyDataDirEnv, &cfg.Dataset.Dir)
	}
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}
