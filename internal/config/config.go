// Package config holds runtime configuration: defaults, the optional YAML
// profile, CLI flag parsing, and validation. Policy precedence (which
// fields force or clear others) is resolved here so the core packages
// receive plain resolved values.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/csvmerge/internal/csvio"
)

// --- Enum types for validated string fields ---

// Mode selects how differing column sets across input files are reconciled.
type Mode string

const (
	ModeUnion        Mode = "union"        // All columns from any file; missing cells blank (default).
	ModeIntersection Mode = "intersection" // Only columns common to all files.
	ModeStrict       Mode = "strict"       // Identical columns required; error otherwise.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [ApplyProfile], then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Input discovery.
	InputDir  string // Default: "SS".
	Pattern   string // Default: "*.csv".
	Recursive bool

	// Output.
	OutputPath     string // Default: "merged.csv".
	OutputEncoding string // Empty: use Encoding.

	// Delimited-text format.
	Delimiter string // Default: ",". Must be a single character.
	Encoding  string // Default: "utf-8". Also accepts "utf-8-sig", "cp1252", etc.

	// Merge policy.
	Mode            Mode
	AddSource       bool
	KeepIdentifying bool // --keep-identifying-info.

	// Project filters (raw comma-separated flag values).
	OnlyProjectsRaw    string
	ExcludeProjectsRaw string

	// Resolved by Validate from the raw lists and KeepIdentifying.
	OnlyProjects      map[string]struct{}
	ExcludeProjects   map[string]struct{}
	RemoveIdentifying bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults matching the documented
// CLI behavior. Used as the base before profile and flag overrides apply.
func DefaultConfig() Config {
	return Config{
		InputDir:   "SS",
		Pattern:    "*.csv",
		Recursive:  false,
		OutputPath: "merged.csv",
		Delimiter:  ",",
		Encoding:   "utf-8",
		Mode:       ModeUnion,
		AddSource:  false,
		ColorMode:  ColorAuto,
	}
}

// ParseProjectList splits a comma-separated list of project names into a
// set, trimming whitespace and dropping empty items.
func ParseProjectList(value string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and format fields, rejects mutually exclusive
// project filters, and resolves the derived policy fields (project sets
// and identifying-column removal). It must run before the pipeline.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeUnion, ModeIntersection, ModeStrict:
		// valid
	default:
		return errors.New("invalid mode (use 'union', 'intersection' or 'strict')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character (got %q)", c.Delimiter)
	}

	if _, err := csvio.ResolveEncoding(c.Encoding); err != nil {
		return err
	}
	if c.OutputEncoding != "" {
		if _, err := csvio.ResolveEncoding(c.OutputEncoding); err != nil {
			return err
		}
	}

	if _, err := filepath.Match(c.Pattern, "probe.csv"); err != nil {
		return fmt.Errorf("invalid pattern %q", c.Pattern)
	}

	if c.InputDir == "" {
		return errors.New("input directory must not be empty")
	}
	if c.OutputPath == "" {
		return errors.New("output path must not be empty")
	}

	c.OnlyProjects = ParseProjectList(c.OnlyProjectsRaw)
	c.ExcludeProjects = ParseProjectList(c.ExcludeProjectsRaw)
	if len(c.OnlyProjects) > 0 && len(c.ExcludeProjects) > 0 {
		return errors.New("use only one of --only-projects or --exclude-projects")
	}

	// Identifying columns are removed by default. Keeping an allow-list
	// implies keeping the column it filters on; an exclude-list implies
	// removing it.
	c.RemoveIdentifying = !c.KeepIdentifying
	if len(c.OnlyProjects) > 0 {
		c.RemoveIdentifying = false
	} else if len(c.ExcludeProjects) > 0 {
		c.RemoveIdentifying = true
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Only valid after
// Validate has accepted the config.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
