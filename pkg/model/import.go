package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/layerviz/layerviz/pkg/errors"
)

// ReadJSON decodes a JSON model from r and validates it.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A known shape dimension is zero or negative
//   - An input references an undeclared layer name
//
// Errors are wrapped with context describing which layer caused the
// problem. Use errors.Is or errors.GetCode to check for specific codes.
//
// The returned Model is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportJSON reads a model from a JSON file.
func ImportJSON(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return m, nil
}
