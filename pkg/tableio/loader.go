// Package tableio reads delimited text into tables and writes them back out.
package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

var (
	// ErrSourceNotFound is returned when the input path does not resolve to a file.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDecodeFailure is returned when both the primary and fallback encodings fail.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrUnknownEncoding is returned for an encoding label with no known decoder.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInputTooLarge is returned when the source exceeds LoadOptions.MaxBytes.
	ErrInputTooLarge = errors.New("input too large")

	// ErrEmptySource is returned when the source has no header row.
	ErrEmptySource = errors.New("empty source")

	// ErrMalformedInput is returned when the delimited text cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")
)

// DefaultNAValues are the field values read as missing cells.
var DefaultNAValues = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "NULL", "null", "None",
	"#N/A", "<NA>", "-NaN", "-nan", "#NA",
	"1.#IND", "1.#QNAN", "-1.#IND", "-1.#QNAN", "#N/A N/A",
}

// LoadOptions configures how a source is decoded and parsed.
type LoadOptions struct {
	// Encoding is the primary encoding label, or "auto" to detect it.
	Encoding string

	// FallbackEncoding is tried once when the primary decoding fails.
	FallbackEncoding string

	// Delimiter separates fields. Zero means ','.
	Delimiter rune

	// NAValues are field values read as missing. Nil means DefaultNAValues.
	NAValues []string

	// MaxBytes bounds the source size. Zero means unlimited.
	MaxBytes int64
}

// DefaultLoadOptions returns UTF-8 with an ISO-8859-1 fallback.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Encoding:         "utf-8",
		FallbackEncoding: "iso-8859-1",
		Delimiter:        ',',
	}
}

// LoadInfo describes how a source was read.
type LoadInfo struct {
	Encoding     string `json:"encoding"`
	UsedFallback bool   `json:"used_fallback"`
	Bytes        int64  `json:"bytes"`
}

// LoadFile reads the delimited text file at path.
func LoadFile(path string, opts LoadOptions) (*table.Table, *LoadInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	if opts.MaxBytes > 0 && fi.Size() > opts.MaxBytes {
		return nil, nil, fmt.Errorf("%w: %s is %s, limit %s", ErrInputTooLarge, path,
			humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(opts.MaxBytes)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	logger.Debug("loading table", "path", path, "size", humanize.Bytes(uint64(fi.Size())))
	return Load(f, opts)
}

// Load decodes r and parses it as delimited text with a header row.
// Every column of the result is textual.
func Load(r io.Reader, opts LoadOptions) (*table.Table, *LoadInfo, error) {
	opts = withDefaults(opts)

	fallback, err := lookupEncoding(opts.FallbackEncoding)
	if err != nil {
		return nil, nil, err
	}

	data, err := readAll(r, opts.MaxBytes)
	if err != nil {
		return nil, nil, err
	}

	var primary textEncoding
	if strings.EqualFold(strings.TrimSpace(opts.Encoding), EncodingAuto) {
		primary = detectEncoding(data)
		logger.Debug("detected encoding", "encoding", primary.name)
	} else if primary, err = lookupEncoding(opts.Encoding); err != nil {
		return nil, nil, err
	}

	info := &LoadInfo{Encoding: primary.name, Bytes: int64(len(data))}
	text, err := primary.decode(data)
	if err != nil {
		logger.Warn("primary decoding failed, retrying with fallback",
			"encoding", primary.name,
			"fallback", fallback.name,
			"error", err)

		var fbErr error
		text, fbErr = fallback.decode(data)
		if fbErr != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v; %s: %v",
				ErrDecodeFailure, primary.name, err, fallback.name, fbErr)
		}
		info.Encoding = fallback.name
		info.UsedFallback = true
	}

	t, err := parse(text, opts)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("table loaded",
		"rows", t.NumRows(),
		"columns", t.NumCols(),
		"encoding", info.Encoding,
		"fallback", info.UsedFallback)
	return t, info, nil
}

func withDefaults(opts LoadOptions) LoadOptions {
	def := DefaultLoadOptions()
	if opts.Encoding == "" {
		opts.Encoding = def.Encoding
	}
	if opts.FallbackEncoding == "" {
		opts.FallbackEncoding = def.FallbackEncoding
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	if opts.NAValues == nil {
		opts.NAValues = DefaultNAValues
	}
	return opts
}

func readAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %s", ErrInputTooLarge, humanize.Bytes(uint64(limit)))
	}
	return data, nil
}

func parse(text string, opts LoadOptions) (*table.Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = opts.Delimiter
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	t, err := table.New(uniqueNames(header)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	na := make(map[string]bool, len(opts.NAValues))
	for _, v := range opts.NAValues {
		na[v] = true
	}

	row := make([]table.Cell, t.NumCols())
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		for i, field := range record {
			if na[field] {
				row[i] = table.Missing()
			} else {
				row[i] = table.Text(field)
			}
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
	}
	return t, nil
}

// uniqueNames fills blank header fields and suffixes repeated names with
// ".1", ".2" and so on, skipping suffixes already taken.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))

	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = name + "." + strconv.Itoa(counts[name])
		}
		used[candidate] = true
		names[i] = candidate
	}
	return names
}
