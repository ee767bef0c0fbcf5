package tablegen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Dictionary is an upstream text dictionary: category -> id -> text.
type Dictionary map[string]map[string]string

// Category returns the entries of cat, or an empty map.
func (d Dictionary) Category(cat string) map[string]string {
	if m, ok := d[cat]; ok {
		return m
	}
	return map[string]string{}
}

// Source loads a text dictionary.
//
// Postcondition: returns a non-nil Dictionary, or a non-nil error.
type Source interface {
	Load(ctx context.Context) (Dictionary, error)
}

// FileSource reads a text dictionary from a local JSON file.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

// NewFileSource returns a Source backed by the JSON document at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the dictionary.
func (f *FileSource) Load(_ context.Context) (Dictionary, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading text dictionary: %w", err)
	}
	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding text dictionary %s: %w", f.path, err)
	}
	if d == nil {
		d = Dictionary{}
	}
	return d, nil
}
