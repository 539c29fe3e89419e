package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// LoadKeywords reads keyword estimates from path, or from stdin when path is
// "-". The document is either a JSON array of keywords or an object with a
// "keywords" array, the shape accepted by POST /api/optimize.
func LoadKeywords(path string, stdin io.Reader) ([]curve.Keyword, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes either accepted input shape.
func ParseKeywords(data []byte) ([]curve.Keyword, error) {
	var keywords []curve.Keyword
	if err := json.Unmarshal(data, &keywords); err == nil {
		return keywords, nil
	}

	var wrapped struct {
		Keywords []curve.Keyword `json:"keywords"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse keywords: %w", err)
	}
	if wrapped.Keywords == nil {
		return nil, fmt.Errorf("failed to parse keywords: no keywords array")
	}
	return wrapped.Keywords, nil
}
