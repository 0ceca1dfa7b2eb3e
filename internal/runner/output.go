package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MikeSquared-Agency/roster/internal/extractor"
)

// DefaultOutputName is the results file written next to the transcript.
const DefaultOutputName = "analysis_results.json"

// OutputPath places the results file in the transcript's directory.
func OutputPath(input, name string) string {
	if name == "" {
		name = DefaultOutputName
	}
	return filepath.Join(filepath.Dir(input), name)
}

// WriteResults writes intros as an indented JSON array with non-ASCII and
// HTML characters kept literal. The file is replaced atomically.
func WriteResults(path string, intros []extractor.Intro) error {
	out := make([]extractor.Intro, len(intros))
	for i, in := range intros {
		if in.Projects == nil {
			in.Projects = []string{}
		}
		if in.Expertise == nil {
			in.Expertise = []string{}
		}
		out[i] = in
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".roster-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename results: %w", err)
	}
	return nil
}

// ReadResults loads a results file written by WriteResults.
func ReadResults(path string) ([]extractor.Intro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var intros []extractor.Intro
	if err := json.Unmarshal(data, &intros); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	if intros == nil {
		intros = []extractor.Intro{}
	}
	return intros, nil
}
