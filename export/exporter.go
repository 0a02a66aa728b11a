// Package export writes the results of an analysis run to disk: CSV tables
// for spreadsheets and one report document in JSON, YAML or MessagePack.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"alertscope/pipeline"

	"go.uber.org/zap"
)

// ReportBaseName is the report file name without extension
const ReportBaseName = "analysis_report"

// utf8BOM is written at the start of every CSV file
const utf8BOM = "\ufeff"

// Options configures an Exporter
type Options struct {
	// Dir is created when missing
	Dir    string
	Format Format
	// CSV enables the CSV tables
	CSV bool
	// IncludeEvents embeds the annotated events in the report document
	IncludeEvents bool
}

// Exporter writes run results into one directory
type Exporter struct {
	opts   Options
	logger *zap.SugaredLogger
}

// NewExporter creates an exporter. A nil logger disables logging.
func NewExporter(opts Options, logger *zap.SugaredLogger) (*Exporter, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Exporter{opts: opts, logger: logger}, nil
}

// Export writes all outputs of res and returns the written paths in order
func (e *Exporter) Export(res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	if e.opts.CSV {
		for _, t := range Tables(res) {
			path := filepath.Join(e.opts.Dir, t.Name)
			if err := writeTable(path, t); err != nil {
				return written, err
			}
			e.logger.Debugw("Table written", "path", path, "rows", len(t.Rows))
			written = append(written, path)
		}
	}

	path := filepath.Join(e.opts.Dir, ReportBaseName+e.opts.Format.Extension())
	if err := e.writeReport(path, res); err != nil {
		return written, err
	}
	written = append(written, path)

	e.logger.Infow("Results exported",
		"dir", e.opts.Dir,
		"files", len(written),
		"format", string(e.opts.Format))
	return written, nil
}

func (e *Exporter) writeReport(path string, res *pipeline.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	return WriteReport(f, res.Report(e.opts.IncludeEvents), e.opts.Format)
}

func writeTable(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", t.Name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", t.Name, cerr)
		}
	}()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.Name, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", t.Name, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.Name, err)
	}
	return nil
}
