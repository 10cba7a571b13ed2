package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/regtriage/internal/analysis"
	"github.com/JaimeStill/regtriage/pkg/formatting"
)

const (
	EnvAnalysisManifest    = "REGTRIAGE_ANALYSIS_MANIFEST"
	EnvAnalysisListsDir    = "REGTRIAGE_ANALYSIS_LISTS_DIR"
	EnvAnalysisPlanCommand = "REGTRIAGE_ANALYSIS_PLAN_COMMAND"
	EnvAnalysisPlanTimeout = "REGTRIAGE_ANALYSIS_PLAN_TIMEOUT"
	EnvAnalysisWorkers     = "REGTRIAGE_ANALYSIS_WORKERS"
	EnvAnalysisMaxLineSize = "REGTRIAGE_ANALYSIS_MAX_LINE_SIZE"
	EnvAnalysisSnapshotKey = "REGTRIAGE_ANALYSIS_SNAPSHOT_KEY"
	EnvAnalysisSchedule    = "REGTRIAGE_ANALYSIS_SCHEDULE"
)

// AnalysisConfig locates the regression inputs and tunes the classification pass.
type AnalysisConfig struct {
	Manifest    string   `toml:"manifest"`
	ListsDir    string   `toml:"lists_dir"`
	PlanCommand []string `toml:"plan_command"`
	PlanTimeout string   `toml:"plan_timeout"`
	Workers     int      `toml:"workers"`
	MaxLineSize string   `toml:"max_line_size"`
	SnapshotKey string   `toml:"snapshot_key"`
	Schedule    string   `toml:"schedule"`
}

// PlanTimeoutDuration returns PlanTimeout as a time.Duration.
func (c *AnalysisConfig) PlanTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PlanTimeout)
	return d
}

// MaxLineSizeBytes returns MaxLineSize as a byte count.
func (c *AnalysisConfig) MaxLineSizeBytes() int {
	n, err := formatting.ParseBytes(c.MaxLineSize)
	if err != nil {
		return 1024 * 1024
	}
	return int(n)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.Manifest != "" {
		c.Manifest = overlay.Manifest
	}
	if overlay.ListsDir != "" {
		c.ListsDir = overlay.ListsDir
	}
	if overlay.PlanCommand != nil {
		c.PlanCommand = overlay.PlanCommand
	}
	if overlay.PlanTimeout != "" {
		c.PlanTimeout = overlay.PlanTimeout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.MaxLineSize != "" {
		c.MaxLineSize = overlay.MaxLineSize
	}
	if overlay.SnapshotKey != "" {
		c.SnapshotKey = overlay.SnapshotKey
	}
	if overlay.Schedule != "" {
		c.Schedule = overlay.Schedule
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.Manifest == "" {
		c.Manifest = "scripts/result_reg/testcases.txt"
	}
	if c.ListsDir == "" {
		c.ListsDir = "scripts/result_reg"
	}
	if c.PlanCommand == nil {
		c.PlanCommand = []string{"make", "-n"}
	}
	if c.PlanTimeout == "" {
		c.PlanTimeout = "30s"
	}
	if c.MaxLineSize == "" {
		c.MaxLineSize = "1MB"
	}
	if c.SnapshotKey == "" {
		c.SnapshotKey = "analyzed_testcases.json"
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisManifest); v != "" {
		c.Manifest = v
	}
	if v := os.Getenv(EnvAnalysisListsDir); v != "" {
		c.ListsDir = v
	}
	if v := os.Getenv(EnvAnalysisPlanCommand); v != "" {
		c.PlanCommand = strings.Fields(v)
	}
	if v := os.Getenv(EnvAnalysisPlanTimeout); v != "" {
		c.PlanTimeout = v
	}
	if v := os.Getenv(EnvAnalysisWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvAnalysisMaxLineSize); v != "" {
		c.MaxLineSize = v
	}
	if v := os.Getenv(EnvAnalysisSnapshotKey); v != "" {
		c.SnapshotKey = v
	}
	if v := os.Getenv(EnvAnalysisSchedule); v != "" {
		c.Schedule = v
	}
}

func (c *AnalysisConfig) validate() error {
	d, err := time.ParseDuration(c.PlanTimeout)
	if err != nil {
		return fmt.Errorf("invalid plan_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("plan_timeout must be positive: %s", c.PlanTimeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative: %d", c.Workers)
	}
	size, err := formatting.ParseBytes(c.MaxLineSize)
	if err != nil {
		return fmt.Errorf("invalid max_line_size: %w", err)
	}
	if size < 1024 {
		return fmt.Errorf("max_line_size must be at least 1KB: %s", c.MaxLineSize)
	}
	if c.Schedule != "" {
		if _, err := analysis.ParseSchedule(c.Schedule); err != nil {
			return err
		}
	}
	return nil
}
