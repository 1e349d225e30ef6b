package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes records as a YAML sequence of mappings.
type YAMLWriter struct {
	w     *bufio.Writer
	items []Record
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		items: make([]Record, 0),
	}
}

// Begin is a no-op; column names travel with each record.
func (w *YAMLWriter) Begin(_ []string) error { return nil }

// Write buffers a single record.
func (w *YAMLWriter) Write(rec Record) error {
	w.items = append(w.items, rec)
	return nil
}

// Close writes the buffered records and flushes.
func (w *YAMLWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	if err := encoder.Encode(w.items); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
