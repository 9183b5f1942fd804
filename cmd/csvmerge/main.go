// Command csvmerge merges multiple CSV files into a single output CSV.
//
// It parses flags (optionally seeded from a YAML profile), validates
// configuration, and runs the merge pipeline: discover → parse →
// transform → reconcile columns → concatenate → deduplicate → write.
//
// Exit status: 0 success (including "no files matched"), 1 a file could
// not be parsed, 2 configuration error or strict-mode schema mismatch,
// 3 output could not be written.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/csvmerge/internal/config"
	"github.com/backmassage/csvmerge/internal/csvio"
	"github.com/backmassage/csvmerge/internal/display"
	"github.com/backmassage/csvmerge/internal/logging"
	"github.com/backmassage/csvmerge/internal/merge"
	"github.com/backmassage/csvmerge/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap phase: the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Configuration problems exit 2 before
	// any file is read.
	cfg := config.DefaultConfig()
	profile, err := config.ApplyProfile(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csvmerge: %v\n", err)
		return 2
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "csvmerge: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "csvmerge: %v\n", err)
		return 2
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csvmerge: %v\n", err)
		return 2
	}
	defer log.Close()

	display.PrintBanner()
	log.Info("=== csvmerge v%s (%s) ===", version, commit)
	if profile != "" {
		log.Info("Profile: %s", profile)
	}
	log.Info("In:  %s (pattern %s)", cfg.InputDir, cfg.Pattern)
	log.Info("Out: %s", cfg.OutputPath)

	_, err = pipeline.Run(&cfg, log)
	if err != nil {
		log.Error("%v", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps pipeline errors onto the documented exit status contract.
func exitCode(err error) int {
	var parseErr *csvio.ParseError
	var writeErr *csvio.WriteError
	switch {
	case errors.Is(err, merge.ErrSchemaMismatch):
		return 2
	case errors.As(err, &parseErr):
		return 1
	case errors.As(err, &writeErr):
		return 3
	}
	return 1
}
