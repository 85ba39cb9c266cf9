// Package content loads the portfolio content shown on the page.
// The built-in content is embedded at compile time; a JSON file may replace it.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jonathan/portfolio-site/internal/schemas"
	"github.com/jonathan/portfolio-site/internal/types"
	rootschemas "github.com/jonathan/portfolio-site/schemas"
)

//go:embed default.json
var defaultContent []byte

var (
	defaultOnce      sync.Once
	defaultPortfolio *types.Portfolio
	defaultErr       error
)

// LoadError wraps a failure to read or decode a content file.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("content %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Default returns a copy of the built-in portfolio content.
func Default() (*types.Portfolio, error) {
	defaultOnce.Do(func() {
		defaultPortfolio, defaultErr = Parse(defaultContent)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return clone(defaultPortfolio), nil
}

// DefaultJSON returns the raw built-in content, e.g. as a starting point for a custom file.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultContent))
	copy(out, defaultContent)
	return out
}

// Load reads a content file, validates it against the portfolio schema and decodes it.
// An empty path yields the built-in content.
func Load(path string) (*types.Portfolio, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	p, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid content", Cause: err}
	}
	return p, nil
}

// Parse validates raw JSON content against the portfolio schema and decodes it.
func Parse(data []byte) (*types.Portfolio, error) {
	if err := schemas.ValidateBytes(rootschemas.Portfolio, data); err != nil {
		return nil, err
	}

	var p types.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio: %w", err)
	}
	return &p, nil
}

// clone deep-copies through JSON so callers may mutate the result freely.
func clone(p *types.Portfolio) *types.Portfolio {
	data, err := json.Marshal(p)
	if err != nil {
		panic(fmt.Sprintf("content: failed to copy portfolio: %v", err))
	}
	var out types.Portfolio
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("content: failed to copy portfolio: %v", err))
	}
	return &out
}
