package docforge

import (
	"fmt"
	"os"

	"github.com/alnah/go-docforge/internal/yamlutil"
)

// LoadData binds the render payload from exactly one source: an inline
// document or a file path. Both sources accept YAML, and therefore
// JSON. The result is passed opaquely to the template unit; no schema
// is enforced here.
func LoadData(inline, file string) (map[string]any, error) {
	if (inline == "") == (file == "") {
		return nil, fmt.Errorf("%w: got inline=%t file=%t", ErrAmbiguousInput, inline != "", file != "")
	}

	raw := []byte(inline)
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		raw = content
	}

	var data map[string]any
	if err := yamlutil.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataParse, err)
	}
	return data, nil
}
