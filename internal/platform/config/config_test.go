package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

// Test environment variable keys.
const (
	testEnvArtifactDir    = "ARTIFACT_DIR"
	testEnvDatasetDir     = "DATASET_DIR"
	testEnvTopicKMin      = "TOPIC_K_MIN"
	testEnvTopicKMax      = "TOPIC_K_MAX"
	testEnvExtraStopwords = "EXTRA_STOPWORDS"
	testEnvPeakEps        = "PEAK_EPS"
	testEnvTimezone       = "TIMEZONE"
)

const (
	testErrLoad       = "Load() error = %v"
	testDefaultEnv    = "local"
	testDefaultModels = "./models"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, val) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "APP_ENV", testEnvArtifactDir, testEnvDatasetDir, legacyModelDirEnv, legacyDataDirEnv,
		testEnvTopicKMin, testEnvTopicKMax, testEnvPeakEps, testEnvTimezone, "PEAK_MIN_POINTS", "WORD_FREQ_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != testDefaultEnv {
		t.Errorf("AppEnv default = %q, want %q", cfg.AppEnv, testDefaultEnv)
	}

	if cfg.Artifacts.Dir != testDefaultModels {
		t.Errorf("Artifacts.Dir default = %q, want %q", cfg.Artifacts.Dir, testDefaultModels)
	}

	if cfg.Topics.KMin != 3 || cfg.Topics.KMax != 10 {
		t.Errorf("topic range default = %d..%d, want 3..10", cfg.Topics.KMin, cfg.Topics.KMax)
	}

	if cfg.Peaks.Eps != 0.5 || cfg.Peaks.MinPoints != 2 {
		t.Errorf("peak defaults = %v/%d, want 0.5/2", cfg.Peaks.Eps, cfg.Peaks.MinPoints)
	}

	if cfg.Report.WordFreqLimit != 30 {
		t.Errorf("WordFreqLimit default = %d, want 30", cfg.Report.WordFreqLimit)
	}

	if cfg.WatchInterval != 30*time.Second {
		t.Errorf("WatchInterval default = %v, want 30s", cfg.WatchInterval)
	}
}

func TestLoad_ExtraStopwords(t *testing.T) {
	t.Setenv(testEnvExtraStopwords, "promo,gratis,diskon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	expected := []string{"promo", "gratis", "diskon"}
	if len(cfg.Normalizer.ExtraStopwords) != len(expected) {
		t.Fatalf("ExtraStopwords length = %d, want %d", len(cfg.Normalizer.ExtraStopwords), len(expected))
	}

	for i, want := range expected {
		if cfg.Normalizer.ExtraStopwords[i] != want {
			t.Errorf("ExtraStopwords[%d] = %q, want %q", i, cfg.Normalizer.ExtraStopwords[i], want)
		}
	}
}

func TestLoad_LegacyAliases(t *testing.T) {
	clearEnv(t, testEnvArtifactDir, testEnvDatasetDir)
	t.Setenv(legacyModelDirEnv, "/opt/models")
	t.Setenv(legacyDataDirEnv, "/opt/data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.Artifacts.Dir != "/opt/models" {
		t.Errorf("Artifacts.Dir = %q, want legacy alias", cfg.Artifacts.Dir)
	}

	if cfg.DatasetPath("tweet.csv") != "/opt/data/tweet.csv" {
		t.Errorf("DatasetPath = %q", cfg.DatasetPath("tweet.csv"))
	}
}

func TestLoad_ExplicitWinsOverLegacy(t *testing.T) {
	t.Setenv(testEnvArtifactDir, "/srv/models")
	t.Setenv(legacyModelDirEnv, "/opt/models")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.Artifacts.Dir != "/srv/models" {
		t.Errorf("Artifacts.Dir = %q, want %q", cfg.Artifacts.Dir, "/srv/models")
	}
}

func TestLoad_InvalidTopicRange(t *testing.T) {
	t.Setenv(testEnvTopicKMin, "8")
	t.Setenv(testEnvTopicKMax, "4")

	_, err := Load()
	if !errors.Is(err, errInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	t.Setenv(testEnvPeakEps, "wide")

	_, err := Load()
	if err == nil {
		t.Error("expected error for invalid PEAK_EPS")
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv(testEnvTimezone, "Mars/Olympus")

	_, err := Load()
	if !errors.Is(err, errInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}
