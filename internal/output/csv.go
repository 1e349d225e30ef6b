package output

import (
	"encoding/csv"
	"io"
)

// CSVWriter writes delimited text: a header row, then one line per record.
type CSVWriter struct {
	out io.Writer
	w   *csv.Writer
}

// NewCSVWriter creates a delimited text writer.
func NewCSVWriter(w io.Writer, delimiter rune) *CSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	return &CSVWriter{out: w, w: cw}
}

// Begin writes the header row.
func (w *CSVWriter) Begin(names []string) error {
	return w.writeRow(names)
}

// Write writes a single record.
func (w *CSVWriter) Write(rec Record) error {
	return w.writeRow(rec.Strings())
}

// writeRow writes one line. A lone empty field is quoted, otherwise the
// line would be blank and readers would skip it.
func (w *CSVWriter) writeRow(fields []string) error {
	if len(fields) != 1 || fields[0] != "" {
		return w.w.Write(fields)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w.out, "\"\"\n")
	return err
}

// Close flushes buffered lines.
func (w *CSVWriter) Close() error {
	w.w.Flush()
	return w.w.Error()
}
