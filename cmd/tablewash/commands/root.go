// Package commands implements the CLI commands for tablewash.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tablewash/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tablewash",
	Short: "Clean delimited-text tables for analysis",
	Long: `Tablewash turns a raw CSV export into an analysis-ready table.

It drops columns that are mostly empty, fills remaining gaps with the
column median or mode, detects numeric columns, trims text and removes
duplicate rows. Input that is not valid UTF-8 is retried as ISO-8859-1.

Examples:
  # Clean with the default file names
  tablewash clean

  # Clean a semicolon-separated export, keeping sparser columns
  tablewash clean -i export.csv -o clean.csv --delimiter ";" --threshold 0.95

  # Collect a raw table from a product listing
  tablewash scrape -u "https://example.com/laptops" --item "div.product" \
      --field "name=h2.title" --field "price=span.price" -o raw.csv

  # Show one cleaned row as a JSON record
  tablewash record -i clean.csv --row 0`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.tablewash.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	bindRootFlags()
}

// bindRootFlags binds the global flags into viper.
func bindRootFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tablewash")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. TABLEWASH_THRESHOLD
	viper.SetEnvPrefix("TABLEWASH")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger configures the process-wide logger from the global flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("using config file", "path", f)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
