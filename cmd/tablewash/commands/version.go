package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tablewash/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		}
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(version.Get().Version)
			return nil
		}
		fmt.Println(version.Full())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "print only the version number")
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
}
