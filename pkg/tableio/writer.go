package tableio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmylchreest/tablewash/internal/output"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// WriteOptions configures serialization. The output is always UTF-8.
type WriteOptions struct {
	// Format selects the output format. Empty means CSV.
	Format output.Format

	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune

	// Indent is the JSON indentation. Empty means compact.
	Indent string
}

// Write serializes t to w: a header then one line or record per row.
func Write(w io.Writer, t *table.Table, opts WriteOptions) error {
	format := opts.Format
	if format == "" {
		format = output.FormatCSV
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	ow, err := output.NewWriter(w, format, output.WithDelimiter(delim), output.WithIndent(opts.Indent))
	if err != nil {
		return err
	}

	names := t.Names()
	if err := ow.Begin(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		row, err := t.Row(i)
		if err != nil {
			return err
		}
		if err := ow.Write(output.RecordFromRow(names, row)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return ow.Close()
}

// WriteFile serializes t to path. The data goes to a temporary file in the
// same directory that is renamed over path only once fully written.
func WriteFile(path string, t *table.Table, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, t, opts); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}
