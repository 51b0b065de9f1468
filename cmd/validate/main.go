package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"pinrex-validate/internal/store"
	"pinrex-validate/internal/sweep"
)

type config struct {
	patternsPath    string
	postalCodesPath string
	dbPath          string
	state           string
	workers         int
	color           bool
	verbose         bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.patternsPath, "patterns", "static/output.json", "Pattern document {\"regexes\": [...]} (.json, .yaml)")
	flag.StringVar(&cfg.postalCodesPath, "postal-codes", "static/input.json", "Postal code document {\"postalCodes\": [...]} (.json, .yaml)")
	flag.StringVar(&cfg.dbPath, "db", "", "SQLite database seeded by cmd/db; overrides -postal-codes")
	flag.StringVar(&cfg.state, "state", "", "Only use postal codes of this state (requires -db)")
	flag.IntVar(&cfg.workers, "workers", 1, "Number of partitions swept in parallel")
	flag.BoolVar(&cfg.color, "color", true, "Colorize the report when writing to a terminal")
	flag.BoolVar(&cfg.verbose, "v", false, "Print progress to stderr")
	flag.Parse()

	var progress func(string)
	if cfg.verbose {
		programStart := time.Now()
		progress = func(msg string) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", formatElapsed(time.Since(programStart)), msg)
		}
	}

	if err := run(cfg, os.Stdout, progress); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", sweep.Describe(err))
		os.Exit(1)
	}
}

// run loads both inputs, sweeps and writes the report to out. Nothing is
// written to out unless both inputs load and every pattern compiles.
func run(cfg config, out io.Writer, progress func(string)) error {
	if cfg.state != "" && cfg.dbPath == "" {
		return fmt.Errorf("-state requires -db")
	}

	patterns, err := sweep.LoadPatterns(cfg.patternsPath)
	if err != nil {
		return err
	}

	codes, err := loadPostalCodes(cfg)
	if err != nil {
		return err
	}

	if progress != nil {
		progress(fmt.Sprintf("Loaded %d patterns and %d postal codes", len(patterns), len(codes)))
	}

	result, err := sweep.Run(context.Background(), patterns, codes, sweep.Options{
		Workers:  cfg.workers,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	return sweep.NewReporter(out, cfg.color).Write(result)
}

func loadPostalCodes(cfg config) ([]int, error) {
	if cfg.dbPath == "" {
		return sweep.LoadPostalCodes(cfg.postalCodesPath)
	}

	source := "postal codes from " + cfg.dbPath
	if _, err := os.Stat(cfg.dbPath); err != nil {
		return nil, &sweep.LoadError{Source: source, Err: err}
	}

	db, err := store.InitDB(cfg.dbPath)
	if err != nil {
		return nil, &sweep.LoadError{Source: source, Err: err}
	}
	defer db.Close()

	var codes []int
	if cfg.state != "" {
		codes, err = store.LoadPostalCodesByState(db, cfg.state)
	} else {
		codes, err = store.LoadPostalCodes(db)
	}
	if err != nil {
		return nil, &sweep.LoadError{Source: source, Err: err}
	}

	return codes, nil
}

// formatElapsed formats a duration into a human-readable elapsed time string
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
