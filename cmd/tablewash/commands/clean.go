package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/sanitizer"
	"github.com/jmylchreest/tablewash/pkg/tablewash"
)

const (
	defaultInput  = "dados_brutos_cliente.csv"
	defaultOutput = "dados_limpos_e_prontos.csv"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Sanitize a delimited-text table",
	Long: `Load a table, run the cleaning passes and write the result.

Passes run in a fixed order:
  prune      drop columns whose missing fraction exceeds --threshold
  impute     fill gaps with the median (numeric) or mode (text)
  coerce     mark columns numeric when every value parses as a number
  normalize  trim surrounding whitespace in text columns
  dedupe     remove rows that repeat an earlier row

Nothing is written if any step fails.

Examples:
  tablewash clean -i raw.csv -o clean.csv
  tablewash clean -i raw.csv -o clean.jsonl --format jsonl --stats
  tablewash clean -i legacy.csv --encoding auto --na-values "-,?"`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()

	// Files
	flags.StringP("input", "i", defaultInput, "input file")
	flags.StringP("output", "o", defaultOutput, "output file")

	// Pass settings
	flags.Float64("threshold", sanitizer.DefaultConfig().MissingThreshold, "drop columns whose missing fraction exceeds this (0-1)")

	// Input settings
	def := tablewash.DefaultConfig()
	flags.String("encoding", def.Encoding, "input encoding (WHATWG label or 'auto')")
	flags.String("fallback-encoding", def.FallbackEncoding, "encoding retried when the primary one fails")
	flags.String("delimiter", def.Delimiter, "field delimiter for input and CSV output")
	flags.StringSlice("na-values", nil, "values read as missing (default: common NA markers)")
	flags.String("max-input-size", "", "reject inputs larger than this (e.g. 512MB)")

	// Output settings
	flags.String("format", def.Format, "output format: csv, json, jsonl, yaml")
	flags.Bool("stats", false, "print run statistics to stdout")
	flags.String("stats-format", "text", "statistics format: text, json")

	bindCleanFlags()
}

// bindCleanFlags binds the clean flags into viper so config files and
// TABLEWASH_* variables can set them.
func bindCleanFlags() {
	flags := cleanCmd.Flags()
	_ = viper.BindPFlag("input", flags.Lookup("input"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("threshold", flags.Lookup("threshold"))
	_ = viper.BindPFlag("encoding", flags.Lookup("encoding"))
	_ = viper.BindPFlag("fallback_encoding", flags.Lookup("fallback-encoding"))
	_ = viper.BindPFlag("delimiter", flags.Lookup("delimiter"))
	_ = viper.BindPFlag("na_values", flags.Lookup("na-values"))
	_ = viper.BindPFlag("max_input_size", flags.Lookup("max-input-size"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
}

func runClean(cmd *cobra.Command, _ []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, err := tablewash.New(washerOptions()...)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	statsFormat, _ := cmd.Flags().GetString("stats-format")
	if statsFormat != "text" && statsFormat != "json" {
		return fmt.Errorf("unknown stats format: %s (use 'text' or 'json')", statsFormat)
	}

	input := viper.GetString("input")
	output := viper.GetString("output")
	logInfo("Cleaning %s -> %s", input, output)

	report, err := w.Run(ctx, input, output)
	if err != nil {
		logRunError(ctx, input, err)
		return err
	}

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		return printReport(report, statsFormat)
	}
	logInfo("Wrote %d rows x %d columns to %s",
		report.Stats.OutputRows, report.Stats.OutputColumns, output)
	return nil
}

// washerOptions maps the bound flag, env and config values onto library options.
func washerOptions() []tablewash.Option {
	opts := []tablewash.Option{
		tablewash.WithThreshold(viper.GetFloat64("threshold")),
		tablewash.WithEncoding(viper.GetString("encoding")),
		tablewash.WithFallbackEncoding(viper.GetString("fallback_encoding")),
		tablewash.WithDelimiter(viper.GetString("delimiter")),
		tablewash.WithMaxInputSize(viper.GetString("max_input_size")),
		tablewash.WithFormat(viper.GetString("format")),
	}
	if na := viper.GetStringSlice("na_values"); len(na) > 0 {
		opts = append(opts, tablewash.WithNAValues(na...))
	}
	return opts
}

// logRunError logs a failed run with the pass, column and row when known.
func logRunError(ctx context.Context, input string, err error) {
	var pe *sanitizer.PassError
	if errors.As(err, &pe) {
		attrs := []any{"input", input, "pass", pe.Pass}
		if pe.Column != "" {
			attrs = append(attrs, "column", pe.Column)
		}
		if pe.Row >= 0 {
			attrs = append(attrs, "row", pe.Row)
		}
		logger.ErrorContext(ctx, "sanitization failed", append(attrs, "error", pe.Err)...)
		return
	}
	logger.ErrorContext(ctx, "sanitization failed", "input", input, "error", err)
}

func printReport(report *tablewash.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err := fmt.Fprint(os.Stdout, report.String())
	return err
}
