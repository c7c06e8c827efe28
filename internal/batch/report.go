package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportConfig records how a batch was run.
type ReportConfig struct {
	Input       string  `yaml:"input"`
	Concurrency int     `yaml:"concurrency"`
	RPS         float64 `yaml:"rps"`
	Timestamp   string  `yaml:"timestamp"`
}

type Summary struct {
	Total           int           `yaml:"total"`
	Succeeded       int           `yaml:"succeeded"`
	Failed          int           `yaml:"failed"`
	AverageDuration time.Duration `yaml:"averageduration"`
}

// Report is the YAML document written after a batch run.
type Report struct {
	Config  ReportConfig `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []Result     `yaml:"results"`
}

// NewReport summarizes results.
func NewReport(cfg ReportConfig, results []Result) *Report {
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	summary := Summary{Total: len(results)}
	var total time.Duration
	for _, r := range results {
		if r.Error != "" {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		total += r.Duration
	}
	if len(results) > 0 {
		summary.AverageDuration = total / time.Duration(len(results))
	}

	return &Report{Config: cfg, Summary: summary, Results: results}
}

// Save writes the report as YAML, creating parent directories.
func (r *Report) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadReport reads a report written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
