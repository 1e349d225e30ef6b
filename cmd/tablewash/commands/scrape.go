package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/internal/output"
	"github.com/jmylchreest/tablewash/pkg/scrape"
	"github.com/jmylchreest/tablewash/pkg/tableio"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect a raw table from web pages",
	Long: `Fetch pages and extract one row per element matching --item.

Each --field is name=selector, evaluated inside the item. Append @attr to
read an attribute instead of the element text. A field that matches
nothing becomes a missing cell. The result is raw, textual input for
'tablewash clean'.

Examples:
  tablewash scrape -u "https://example.com/laptops" --item "div.product" \
      --field "name=h2.title" --field "price=span.price" -o raw.csv

  # Several pages with a random pause of up to 1.5s before each request
  tablewash scrape -u "https://example.com/p/1" -u "https://example.com/p/2" \
      --item "li.result" --field "title=a" --field "url=a@href" --delay 1.5s

  # Follow pagination for up to 10 pages
  tablewash scrape -u "https://example.com/search" --item "li.result" \
      --field "title=a" --next "a.next-page" --max-pages 10`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	flags.StringSliceP("url", "u", nil, "URL(s) to scrape (can be repeated)")
	flags.String("item", "", "CSS selector matching one element per row (required)")
	flags.StringArray("field", nil, "column as name=selector[@attr] (can be repeated)")

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "csv", "output format: csv, json, jsonl, yaml")

	flags.String("user-agent", "", "user agent (default: desktop Chrome)")
	flags.Duration("timeout", scrape.DefaultConfig().Timeout, "request timeout")
	flags.Duration("delay", 0, "maximum random pause before each request")
	flags.StringToString("header", nil, "extra request header as key=value (can be repeated)")

	// Pagination
	flags.String("next", "", "CSS selector for pagination next link")
	flags.Int("max-pages", 0, "max pages to visit (0=unlimited)")

	_ = scrapeCmd.MarkFlagRequired("item")
	_ = scrapeCmd.MarkFlagRequired("field")
}

func runScrape(cmd *cobra.Command, _ []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	urls, _ := cmd.Flags().GetStringSlice("url")
	if len(urls) == 0 {
		return cmd.Help()
	}

	item, _ := cmd.Flags().GetString("item")
	defs, _ := cmd.Flags().GetStringArray("field")
	fields := make([]scrape.Field, 0, len(defs))
	for _, def := range defs {
		f, err := scrape.ParseField(def)
		if err != nil {
			logger.Error("invalid field", "field", def, "error", err)
			return err
		}
		fields = append(fields, f)
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		logger.Error("invalid output format", "format", formatStr, "error", err)
		return err
	}

	userAgent, _ := cmd.Flags().GetString("user-agent")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delay, _ := cmd.Flags().GetDuration("delay")
	headers, _ := cmd.Flags().GetStringToString("header")
	next, _ := cmd.Flags().GetString("next")
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	collector := scrape.New(scrape.Config{
		UserAgent: userAgent,
		Timeout:   timeout,
		Headers:   headers,
		Delay:     delay,
		Next:      next,
		MaxPages:  maxPages,
	})

	start := time.Now()
	logInfo("Collecting from %d seed URL(s)", len(urls))
	t, err := collector.Collect(ctx, urls, item, fields)
	if err != nil {
		logger.Error("collection failed", "error", err)
		return err
	}

	opts := tableio.WriteOptions{Format: format, Indent: "  "}
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		err = tableio.Write(os.Stdout, t, opts)
	} else {
		err = tableio.WriteFile(outPath, t, opts)
	}
	if err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	logger.Info("collection complete",
		"rows", t.NumRows(),
		"missing", t.MissingCount(),
		"duration", time.Since(start))
	return nil
}
