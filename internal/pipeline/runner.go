// Package pipeline orchestrates file discovery, per-file parsing and
// transformation, reconciliation, merging, deduplication, and output
// writing, with batch summary reporting.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/backmassage/csvmerge/internal/config"
	"github.com/backmassage/csvmerge/internal/csvio"
	"github.com/backmassage/csvmerge/internal/display"
	"github.com/backmassage/csvmerge/internal/logging"
	"github.com/backmassage/csvmerge/internal/merge"
	"github.com/backmassage/csvmerge/internal/table"
	"github.com/backmassage/csvmerge/internal/transform"
)

// Run is the top-level batch entry point: discover input files, parse and
// transform each strictly sequentially in sorted-path order, reconcile
// columns, concatenate, deduplicate, and write the output file.
//
// Hard failures (parse, schema mismatch, write) abort immediately and are
// returned for the caller to map onto the exit status contract. When no
// files match, Run logs the fact, writes nothing, and returns success.
func Run(cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	// Validate guaranteed these resolve.
	inEnc, _ := csvio.ResolveEncoding(cfg.Encoding)
	outEncName := cfg.OutputEncoding
	if outEncName == "" {
		outEncName = cfg.Encoding
	}
	outEnc, _ := csvio.ResolveEncoding(outEncName)
	delim := cfg.DelimiterRune()

	files, err := Discover(cfg.InputDir, cfg.Pattern, cfg.Recursive)
	if err != nil {
		return stats, err
	}
	files = ExcludeOutput(files, cfg.OutputPath)
	stats.FilesFound = len(files)

	if len(files) == 0 {
		log.Info("No CSV files found in %s matching %s. Nothing to do.", cfg.InputDir, cfg.Pattern)
		return stats, nil
	}

	logBatchHeader(cfg, log, &stats)

	opts := transform.Options{
		AddSource:         cfg.AddSource,
		OnlyProjects:      cfg.OnlyProjects,
		ExcludeProjects:   cfg.ExcludeProjects,
		RemoveIdentifying: cfg.RemoveIdentifying,
	}

	tables := make([]*table.Table, 0, len(files))
	for _, path := range files {
		log.Info("- %s", path)

		// Each file is fully read and released before the next one is
		// opened; large input sets never accumulate open descriptors.
		t, err := csvio.ReadFile(path, delim, inEnc)
		if err != nil {
			return stats, err
		}
		stats.RowsRead += t.Len()

		fileOpts := opts
		fileOpts.SourceName = filepath.Base(path)
		transform.Apply(t, fileOpts, log)

		log.Debug(cfg.Verbose, "  %d rows, %d columns after transform", t.Len(), len(t.Columns))
		tables = append(tables, t)
		stats.FilesMerged++
	}

	reconciled, err := merge.Reconcile(tables, cfg.Mode)
	if err != nil {
		return stats, err
	}

	merged := merge.Concat(reconciled)
	stats.DuplicatesRemoved = merge.Dedupe(merged, log)
	log.Info("Removed %d duplicate rows.", stats.DuplicatesRemoved)

	if err := csvio.WriteFile(cfg.OutputPath, merged, delim, outEnc); err != nil {
		return stats, err
	}
	stats.Wrote = true
	stats.RowsWritten = merged.Len()
	stats.Columns = len(merged.Columns)
	if fi, err := os.Stat(cfg.OutputPath); err == nil {
		stats.OutputBytes = fi.Size()
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d files. Reading...", stats.FilesFound)
	log.Debug(cfg.Verbose, "Mode: %s, delimiter: %q, encoding: %s", cfg.Mode, cfg.Delimiter, cfg.Encoding)

	if cfg.AddSource {
		log.Debug(cfg.Verbose, "Tagging rows with their source file")
	}
	if len(cfg.OnlyProjects) > 0 {
		log.Debug(cfg.Verbose, "Keeping only %d listed projects", len(cfg.OnlyProjects))
	} else if len(cfg.ExcludeProjects) > 0 {
		log.Debug(cfg.Verbose, "Excluding %d listed projects", len(cfg.ExcludeProjects))
	}
	if cfg.RemoveIdentifying {
		log.Debug(cfg.Verbose, "Removing identifying columns")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Success("Done. Wrote %d rows and %d columns (%s) to %s",
		stats.RowsWritten, stats.Columns,
		display.FormatBytes(stats.OutputBytes), cfg.OutputPath)
	if dropped := stats.RowsDropped(); dropped > 0 {
		log.Debug(cfg.Verbose, "%d input rows dropped by filtering and deduplication", dropped)
	}
}
