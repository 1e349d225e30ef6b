package tablewash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/internal/output"
	"github.com/jmylchreest/tablewash/pkg/sanitizer"
	"github.com/jmylchreest/tablewash/pkg/table"
	"github.com/jmylchreest/tablewash/pkg/tableio"
)

// Re-exported so callers can check failures with errors.Is without
// importing the lower-level packages.
var (
	ErrSourceNotFound       = tableio.ErrSourceNotFound
	ErrDecodeFailure        = tableio.ErrDecodeFailure
	ErrEmptyColumnStatistic = sanitizer.ErrEmptyColumnStatistic
	ErrUnexpectedProcessing = sanitizer.ErrUnexpectedProcessing
)

// Report describes one completed (or failed) run.
type Report struct {
	Input    string            `json:"input"`
	Output   string            `json:"output,omitempty"`
	Load     *tableio.LoadInfo `json:"load,omitempty"`
	Stats    *sanitizer.Stats  `json:"stats,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// String returns a human-readable summary.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input: %s", r.Input))
	if r.Load != nil {
		sb.WriteString(fmt.Sprintf(" (%s, %s", humanize.Bytes(uint64(r.Load.Bytes)), r.Load.Encoding))
		if r.Load.UsedFallback {
			sb.WriteString(" fallback")
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	if r.Output != "" {
		sb.WriteString(fmt.Sprintf("Output: %s\n", r.Output))
	}
	if r.Stats != nil {
		sb.WriteString(r.Stats.String())
	}
	return sb.String()
}

// Washer loads, sanitizes and writes tables. It holds no per-run state and
// may be shared by concurrent callers.
type Washer struct {
	config Config
	chain  *sanitizer.Chain
	load   tableio.LoadOptions
	write  tableio.WriteOptions
}

// New creates a Washer from the default configuration and opts.
func New(opts ...Option) (*Washer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chain, err := sanitizer.Standard(cfg.Sanitize)
	if err != nil {
		return nil, err
	}

	var maxBytes int64
	if cfg.MaxInputSize != "" {
		n, err := humanize.ParseBytes(cfg.MaxInputSize)
		if err != nil {
			return nil, fmt.Errorf("invalid max input size %q: %w", cfg.MaxInputSize, err)
		}
		maxBytes = int64(n)
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	delim := []rune(cfg.Delimiter)[0]

	return &Washer{
		config: cfg,
		chain:  chain,
		load: tableio.LoadOptions{
			Encoding:         cfg.Encoding,
			FallbackEncoding: cfg.FallbackEncoding,
			Delimiter:        delim,
			NAValues:         cfg.NAValues,
			MaxBytes:         maxBytes,
		},
		write: tableio.WriteOptions{
			Format:    format,
			Delimiter: delim,
			Indent:    cfg.Indent,
		},
	}, nil
}

// Validate checks field constraints and encoding labels.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := tableio.ValidateEncoding(c.Encoding, true); err != nil {
		return fmt.Errorf("invalid config: encoding: %w", err)
	}
	if err := tableio.ValidateEncoding(c.FallbackEncoding, false); err != nil {
		return fmt.Errorf("invalid config: fallback encoding: %w", err)
	}
	return nil
}

// Config returns the effective configuration.
func (w *Washer) Config() Config {
	return w.config
}

// LoadOptions returns the loader settings derived from the configuration.
func (w *Washer) LoadOptions() tableio.LoadOptions {
	return w.load
}

// Clean runs the sanitizer passes over t in place.
func (w *Washer) Clean(ctx context.Context, t *table.Table) (*sanitizer.Stats, error) {
	return w.chain.Run(ctx, t)
}

// Run loads input, cleans it and writes the result to out. Nothing is
// written unless every step before the write succeeds.
func (w *Washer) Run(ctx context.Context, input, out string) (*Report, error) {
	start := time.Now()
	report := &Report{Input: input}
	log := logger.With("input", input)

	t, info, err := tableio.LoadFile(input, w.load)
	if err != nil {
		return report, fmt.Errorf("load: %w", err)
	}
	report.Load = info
	if info.UsedFallback {
		log.Warn("input decoded with fallback encoding", "encoding", info.Encoding)
	}

	stats, err := w.Clean(ctx, t)
	report.Stats = stats
	if err != nil {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("clean: %w", err)
	}

	if err := tableio.WriteFile(out, t, w.write); err != nil {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("write: %w", err)
	}
	report.Output = out
	report.Duration = time.Since(start)

	logger.InfoContext(ctx, "sanitization complete",
		"input", input,
		"output", out,
		"rows_in", stats.InputRows,
		"cols_in", stats.InputColumns,
		"rows_out", stats.OutputRows,
		"cols_out", stats.OutputColumns,
		"duration", report.Duration)
	return report, nil
}
