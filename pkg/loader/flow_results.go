package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/validation"
)

// Flow results errors. Each one means the flow view is skipped, not that the run failed.
var (
	ErrFlowResultsNotFound   = errors.New("flow results not found")
	ErrFlowResultsMalformed  = errors.New("flow results malformed")
	ErrFlowResultsIncomplete = errors.New("flow results incomplete")
)

// DecodeFlowResults parses a {source, sink, max_flow, paths} document and checks
// that source, sink and at least one path are present
func DecodeFlowResults(r io.Reader) (*flow.Results, error) {
	var results flow.Results
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlowResultsMalformed, err)
	}
	if err := validation.Struct(&results); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlowResultsIncomplete, err)
	}
	return &results, nil
}

// LoadFlowResults reads flow results from path
func LoadFlowResults(path string) (*flow.Results, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFlowResultsNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	results, err := DecodeFlowResults(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// Skippable reports whether err only means the flow view should be skipped
func Skippable(err error) bool {
	return errors.Is(err, ErrFlowResultsNotFound) ||
		errors.Is(err, ErrFlowResultsMalformed) ||
		errors.Is(err, ErrFlowResultsIncomplete)
}
