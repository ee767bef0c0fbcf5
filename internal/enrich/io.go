package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultOutputName is the output file name used when none is given.
const DefaultOutputName = "enriched_data.json"

var (
	// ErrReadInput is returned when the input document cannot be read.
	ErrReadInput = errors.New("reading input")
	// ErrDecodeInput is returned when the input is not a JSON array.
	ErrDecodeInput = errors.New("decoding input")
	// ErrWriteOutput is returned when the output document cannot be written.
	ErrWriteOutput = errors.New("writing output")
)

// ReadRecords decodes a JSON array of records from r. Numbers are kept as
// json.Number so large IDs round-trip exactly. Anything but whitespace after
// the array is rejected.
func ReadRecords(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeInput, err)
	}
	records, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be an array, got %T", ErrDecodeInput, doc)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after array", ErrDecodeInput)
	}
	return records, nil
}

// WriteRecords encodes records to w as indented JSON. Non-ASCII text is
// written as-is.
func WriteRecords(w io.Writer, records []any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []any{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// DefaultOutputPath returns the output path used when the caller gives none:
// DefaultOutputName next to the input file.
func DefaultOutputPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), DefaultOutputName)
}

// EnrichFile reads records from inputPath, enriches them, and writes the
// result to outputPath. An empty outputPath selects DefaultOutputPath.
//
// Postcondition: outputPath is only created once enrichment has succeeded.
func (e *Enricher) EnrichFile(ctx context.Context, inputPath, outputPath string) (Stats, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w %q: %w", ErrReadInput, inputPath, err)
	}
	records, err := ReadRecords(bytes.NewReader(raw))
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", inputPath, err)
	}
	out, stats, err := e.EnrichAll(ctx, records)
	if err != nil {
		return Stats{}, err
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, out); err != nil {
		return Stats{}, err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return Stats{}, fmt.Errorf("%w %q: %w", ErrWriteOutput, outputPath, err)
	}
	return stats, nil
}
