// Package cmd provides the command-line interface of alertscope.
package cmd

import (
	"encoding/json"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
)

const spinnerInterval = 100 * time.Millisecond

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	outputJSON bool
}

// NewRootCmd creates the alertscope command with all subcommands
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "alertscope",
		Short: "Analyze batches of IDS alerts",
		Long: `Analyze a batch of IDS/IPS alert records.

Each alert is classified into a two-level threat taxonomy, counted by hour,
date and weekday, scanned for repeating signature sequences and summarized.
Results are written as CSV tables and a JSON, YAML or MessagePack report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file path (default: ./alertscope.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "Output in JSON format")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newTaxonomyCmd(opts))

	return rootCmd
}

func outputAsJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
