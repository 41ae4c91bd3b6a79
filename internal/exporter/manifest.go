package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"i94cli/internal/analysis"
	"i94cli/internal/dataset"
	"i94cli/internal/errors"
)

// Manifest is the machine-readable record of one pipeline run: what was
// loaded, what the cleaner found, which selection justified which
// downstream step, test outcomes, and every artifact written. Skipped
// statistical tests appear here with their reason instead of failing
// the run.
type Manifest struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	InputPath   string `json:"input_path"`
	RowsLoaded  int    `json:"rows_loaded"`
	RowsCleaned int    `json:"rows_cleaned"`

	GapReport dataset.GapReport  `json:"gap_report"`
	Selection analysis.Selection `json:"selection"`

	WelchTests   []WelchEntry       `json:"welch_tests,omitempty"`
	SkippedTests []SkippedTest      `json:"skipped_tests,omitempty"`
	GapRatios    map[string]float64 `json:"one_day_gap_ratios,omitempty"`

	Artifacts []string `json:"artifacts"`
}

// WelchEntry records one executed comparison, including the month range
// the samples were drawn through so the manifest documents that both
// sides used the same filter.
type WelchEntry struct {
	CategoryA string               `json:"category_a"`
	CategoryB string               `json:"category_b"`
	Months    string               `json:"months"`
	Result    analysis.TTestResult `json:"result"`
}

// SkippedTest records a test that was requested but not run
type SkippedTest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// NewManifest starts a manifest for a fresh run
func NewManifest(inputPath string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		InputPath: inputPath,
		GapRatios: make(map[string]float64),
	}
}

// AddArtifact records a written output file
func (m *Manifest) AddArtifact(path string) {
	m.Artifacts = append(m.Artifacts, path)
}

// Write finalizes the manifest and writes it as indented JSON
func (m *Manifest) Write(ctx context.Context, logger *slog.Logger, path string) error {
	m.FinishedAt = time.Now().UTC()

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("create manifest file "+path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.NewStorageError("encode run manifest", err)
	}

	logger.InfoContext(ctx, "wrote run manifest",
		slog.String("path", path),
		slog.String("run_id", m.RunID),
		slog.Int("artifacts", len(m.Artifacts)))

	return nil
}
