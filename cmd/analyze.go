package cmd

import (
	"fmt"
	"os"

	"alertscope/bootstrap"
	"alertscope/config"
	"alertscope/export"
	"alertscope/ingest"
	"alertscope/pipeline"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// analyzeOptions hold the analyze flags. Flags override the config file and
// environment only when set on the command line.
type analyzeOptions struct {
	input         string
	output        string
	format        string
	windows       []int
	source        string
	eventsKey     string
	noCSV         bool
	includeEvents bool
}

func newAnalyzeCmd(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an events document and export the results",
		Example: `  alertscope analyze --input events.json --output output
  alertscope analyze -i events.json --format yaml --window 2,4 --source main_category`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Events document (JSON or MessagePack)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Report format: json, yaml, msgpack")
	cmd.Flags().IntSliceVarP(&opts.windows, "window", "w", nil, "Pattern window lengths (comma separated)")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "Pattern tokens: signature, main_category, detailed_category")
	cmd.Flags().StringVar(&opts.eventsKey, "events-key", "", "Key of the events array in the document")
	cmd.Flags().BoolVar(&opts.noCSV, "no-csv", false, "Skip the CSV tables")
	cmd.Flags().BoolVar(&opts.includeEvents, "include-events", false, "Embed annotated events in the report")

	return cmd
}

// apply copies the flags that were set onto cfg
func (o *analyzeOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Path = o.input
	}
	if flags.Changed("output") {
		cfg.Output.Dir = o.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("window") {
		cfg.Analysis.WindowLengths = append([]int(nil), o.windows...)
	}
	if flags.Changed("source") {
		cfg.Analysis.PatternSource = o.source
	}
	if flags.Changed("events-key") {
		cfg.Input.EventsKey = o.eventsKey
	}
	if flags.Changed("no-csv") {
		cfg.Output.CSV = !o.noCSV
	}
	if flags.Changed("include-events") {
		cfg.Output.IncludeEvents = o.includeEvents
	}
}

func runAnalyze(cmd *cobra.Command, global *globalOptions, opts *analyzeOptions) error {
	cfg, sugar, err := setup(global)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()

	opts.apply(cmd, cfg)

	if err := bootstrap.CheckInput(cfg.Input.Path); err != nil {
		return err
	}
	outDir, err := bootstrap.EnsureOutputDir(cfg.Output.Dir, sugar)
	if err != nil {
		return err
	}
	cfg.Output.Dir = outDir

	p, err := pipeline.New(cfg.Pipeline(), sugar)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(cfg.Export(), sugar)
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if !global.outputJSON && !global.quiet {
		s = spinner.New(spinner.CharSets[14], spinnerInterval, spinner.WithWriter(os.Stderr))
		s.Suffix = " Analyzing events..."
		s.Start()
	}

	events, err := ingest.NewLoader(cfg.Input.EventsKey, sugar).LoadFile(cfg.Input.Path)
	var (
		res     *pipeline.Result
		written []string
	)
	if err == nil {
		res, err = p.Run(events)
	}
	if err == nil {
		written, err = exporter.Export(res)
	}

	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if global.outputJSON {
		return outputAsJSON(out, res.Report(cfg.Output.IncludeEvents))
	}
	if global.quiet {
		successColor.Fprintf(out, "Analyzed %d events, wrote %d files to %s\n", len(res.Events), len(written), outDir)
		return nil
	}
	renderReport(out, res, written)
	return nil
}

// setup loads the configuration and builds the logger. An explicit
// --log-level wins; --quiet and --json lower the configured level to warn.
func setup(global *globalOptions) (*config.Config, *zap.SugaredLogger, error) {
	bootLevel := global.logLevel
	if bootLevel == "" {
		bootLevel = "warn"
	}
	_, bootLog, err := bootstrap.InitLogger(bootLevel)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := bootstrap.InitConfig(global.configFile, bootLog)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	switch {
	case global.logLevel != "":
		level = global.logLevel
	case global.quiet || global.outputJSON:
		level = "warn"
	}

	_, sugar, err := bootstrap.InitLogger(level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, sugar, nil
}
