package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// JSONWriter streams records as a JSON array.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	count  int
}

// NewJSONWriter creates a JSON writer. An empty indent writes compact output.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
	}
}

// Begin opens the array.
func (w *JSONWriter) Begin(_ []string) error {
	_, err := w.w.WriteString("[")
	return err
}

// Write appends a record to the array.
func (w *JSONWriter) Write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	sep := ","
	if w.count == 0 {
		sep = ""
	}
	if w.indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, w.indent, w.indent); err != nil {
			return err
		}
		data = buf.Bytes()
		sep += "\n" + w.indent
	}

	if _, err := w.w.WriteString(sep); err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.count++
	return nil
}

// Close terminates the array and flushes.
func (w *JSONWriter) Close() error {
	closing := "]\n"
	if w.indent != "" && w.count > 0 {
		closing = "\n]\n"
	}
	if _, err := w.w.WriteString(closing); err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one record per line.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Begin is a no-op; JSONL has no header.
func (w *JSONLWriter) Begin(_ []string) error { return nil }

// Write writes a single record as a JSON line.
func (w *JSONLWriter) Write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the buffer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
