// Command eventgen writes synthetic alert documents for alertscope.
//
//	go run ./tools/eventgen -scenario mixed -count 500 -days 7 -output events.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

type Config struct {
	Scenario string
	Count    int
	Days     int
	Invalid  float64
	Repeats  int
	Seed     int64
	Start    string
	Output   string
	Format   string
}

func main() {
	cfg := parseFlags()

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Scenario, "scenario", "random", "Scenario: random, beacon, mixed")
	flag.IntVar(&cfg.Count, "count", 200, "Number of background alerts")
	flag.IntVar(&cfg.Days, "days", 3, "Days covered by background alerts")
	flag.Float64Var(&cfg.Invalid, "invalid", 0.02, "Share of alerts with an unparsable timestamp")
	flag.IntVar(&cfg.Repeats, "repeats", 4, "Beacon cycle repetitions")
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.StringVar(&cfg.Start, "start", "", "Start date YYYY-MM-DD (default: days ago from today)")
	flag.StringVar(&cfg.Output, "output", "-", "Output file, - for stdout")
	flag.StringVar(&cfg.Format, "format", "json", "Output format: json, msgpack")

	flag.Parse()
	return cfg
}

func run(cfg *Config, stdout io.Writer) error {
	start := time.Now().UTC().AddDate(0, 0, -cfg.Days).Truncate(24 * time.Hour)
	if cfg.Start != "" {
		t, err := time.Parse("2006-01-02", cfg.Start)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		start = t
	}

	gen := NewAlertGenerator(cfg.Seed, start)

	var doc Document
	switch cfg.Scenario {
	case "random":
		doc.Events = gen.Random(cfg.Count, cfg.Days, cfg.Invalid)
	case "beacon":
		doc.Events = gen.Beacon(cfg.Repeats, time.Minute)
	case "mixed":
		doc.Events = gen.Mixed(cfg.Count, cfg.Days, cfg.Invalid, cfg.Repeats)
	default:
		return fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}

	w := stdout
	if cfg.Output != "-" && cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	return write(w, doc, cfg.Format)
}

func write(w io.Writer, doc Document, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
