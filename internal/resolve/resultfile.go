// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/artist-resolver/pkg/types"
)

// ResultFile is the on-disk representation of a batch resolution run.
// A run can be saved to a file and reloaded later without re-querying
// the API.
type ResultFile struct {
	Terms   []string          `yaml:"terms"`
	Config  ResultFileConfig  `yaml:"config"`
	Rows    []types.ResultRow `yaml:"rows"`
	Summary ResultSummary     `yaml:"summary"`
}

// ResultFileConfig stores the resolution settings that produced the run.
type ResultFileConfig struct {
	PerPage    int `yaml:"per_page"`
	MaxRetries int `yaml:"max_retries"`
}

// ResultSummary stores run statistics and a timestamp.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Resolved  int       `yaml:"resolved"`
	Missed    int       `yaml:"missed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a batch run to a YAML file.
func WriteResultFile(path string, terms []string, rows []types.ResultRow, cfg types.ResolveConfig) error {
	resolved := 0
	for _, r := range rows {
		if r.Resolved() {
			resolved++
		}
	}

	rf := ResultFile{
		Terms: terms,
		Config: ResultFileConfig{
			PerPage:    cfg.PerPage,
			MaxRetries: cfg.MaxRetries,
		},
		Rows: rows,
		Summary: ResultSummary{
			Total:     len(rows),
			Resolved:  resolved,
			Missed:    len(rows) - resolved,
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file %s: %w", path, err)
	}
	return nil
}

// ReadResultFile loads a previously saved batch run.
func ReadResultFile(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("reading result file %s: %w", path, err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResultFile{}, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return rf, nil
}
