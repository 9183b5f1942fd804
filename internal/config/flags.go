package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into input, output, merge policy, project filters,
// display, and utility. Help/version trigger exit after printing.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag or bad enum value).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("csvmerge", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags

	defineInputFlags(fs, cfg)
	defineOutputFlags(fs, cfg)
	defineMergeFlags(fs, cfg)
	defineFilterFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if util.noColor {
		cfg.ColorMode = ColorNever
	} else if util.forceColor {
		cfg.ColorMode = ColorAlways
	}

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "csvmerge v"+version)
		os.Exit(0)
	}

	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	return nil
}

// utilityFlags holds flags applied after Parse or triggering exit.
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineInputFlags registers -i/--input, -p/--pattern, -r/--recursive.
func defineInputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.InputDir, "input", cfg.InputDir, "Folder containing CSV files")
	fs.StringVar(&cfg.InputDir, "i", cfg.InputDir, "Same as --input")
	fs.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Filename pattern to match")
	fs.StringVar(&cfg.Pattern, "p", cfg.Pattern, "Same as --pattern")
	fs.BoolVar(&cfg.Recursive, "recursive", cfg.Recursive, "Search input folder recursively")
	fs.BoolVar(&cfg.Recursive, "r", cfg.Recursive, "Same as --recursive")
}

// defineOutputFlags registers -o/--output and --output-encoding.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "Output CSV file path")
	fs.StringVar(&cfg.OutputPath, "o", cfg.OutputPath, "Same as --output")
	fs.StringVar(&cfg.OutputEncoding, "output-encoding", cfg.OutputEncoding, "Encoding for the output file (default: same as --encoding)")
}

// defineMergeFlags registers -m/--mode, -d/--delimiter, -e/--encoding,
// -s/--add-source, --keep-identifying-info.
func defineMergeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&modeValue{&cfg.Mode}, "mode", "Column handling: union | intersection | strict")
	fs.Var(&modeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.StringVar(&cfg.Delimiter, "delimiter", cfg.Delimiter, "CSV delimiter; use ';' for semicolon, etc.")
	fs.StringVar(&cfg.Delimiter, "d", cfg.Delimiter, "Same as --delimiter")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "File encoding; try 'utf-8-sig' or 'cp1252' if needed")
	fs.StringVar(&cfg.Encoding, "e", cfg.Encoding, "Same as --encoding")
	fs.BoolVar(&cfg.AddSource, "add-source", cfg.AddSource, "Add a 'source_file' column with the original filename")
	fs.BoolVar(&cfg.AddSource, "s", cfg.AddSource, "Same as --add-source")
	fs.BoolVar(&cfg.KeepIdentifying, "keep-identifying-info", cfg.KeepIdentifying, "Preserve identifying columns such as 'project_name'")
}

// defineFilterFlags registers --only-projects and --exclude-projects.
func defineFilterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OnlyProjectsRaw, "only-projects", cfg.OnlyProjectsRaw, "Comma-separated project_name values to keep (implies keeping identifying info)")
	fs.StringVar(&cfg.ExcludeProjectsRaw, "exclude-projects", cfg.ExcludeProjectsRaw, "Comma-separated project_name values to remove (implies removing identifying info)")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "csvmerge v" + version + " — merge multiple CSV files into one"},
		{"", ""},
		{"  csvmerge [OPTIONS]", ""},
		{"", ""},
		{"Input", ""},
		{"  -i, --input <dir>", "Folder containing CSV files (default: SS)"},
		{"  -p, --pattern <glob>", "Filename pattern to match (default: *.csv)"},
		{"  -r, --recursive", "Search input folder recursively"},
		{"", ""},
		{"Output", ""},
		{"  -o, --output <path>", "Output CSV file path (default: merged.csv)"},
		{"  --output-encoding <name>", "Encoding for the output file (default: input encoding)"},
		{"", ""},
		{"Merge policy", ""},
		{"  -m, --mode <name>", "union | intersection | strict (default: union)"},
		{"  -d, --delimiter <char>", "CSV delimiter (default: ,)"},
		{"  -e, --encoding <name>", "File encoding (default: utf-8; try utf-8-sig, cp1252)"},
		{"  -s, --add-source", "Add a source_file column with the original filename"},
		{"  --keep-identifying-info", "Preserve identifying columns such as project_name"},
		{"", ""},
		{"Project filters", ""},
		{"  --only-projects <a,b>", "Keep only rows with these project_name values"},
		{"  --exclude-projects <a,b>", "Remove rows with these project_name values"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the Mode enum can be used with flag.Var.

type modeValue struct{ p *Mode }

func (m *modeValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *modeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "union":
		*m.p = ModeUnion
	case "intersection":
		*m.p = ModeIntersection
	case "strict":
		*m.p = ModeStrict
	default:
		return fmt.Errorf("invalid mode %q (use 'union', 'intersection' or 'strict')", s)
	}
	return nil
}
