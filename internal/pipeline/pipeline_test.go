package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/csvmerge/internal/config"
	"github.com/backmassage/csvmerge/internal/csvio"
	"github.com/backmassage/csvmerge/internal/logging"
	"github.com/backmassage/csvmerge/internal/merge"
	"github.com/backmassage/csvmerge/internal/table"

	"golang.org/x/text/encoding/unicode"
)

// --- Discover tests ---

func TestDiscover_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x\n1\n")
	writeFile(t, dir, "b.csv", "x\n2\n")
	writeFile(t, dir, "notes.txt", "hello")
	os.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	writeFile(t, filepath.Join(dir, "sub"), "nested.csv", "x\n3\n")

	files, err := Discover(dir, "*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.csv", "b.csv"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v (non-recursive must skip subdirectories)", got, want)
	}
}

func TestDiscover_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.csv", "x\n1\n")
	os.MkdirAll(filepath.Join(dir, "2024", "q1"), 0o755)
	writeFile(t, filepath.Join(dir, "2024", "q1"), "deep.csv", "x\n2\n")

	files, err := Discover(dir, "*.csv", true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2 (recursive includes all depths)", len(files))
	}
}

func TestDiscover_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.csv", "a.csv", "b.csv"} {
		writeFile(t, dir, name, "x\n1\n")
	}

	files, err := Discover(dir, "*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}
}

func TestDiscover_PatternFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cost_jan.csv", "x\n1\n")
	writeFile(t, dir, "cost_feb.csv", "x\n2\n")
	writeFile(t, dir, "usage_jan.csv", "x\n3\n")

	files, err := Discover(dir, "cost_*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2", len(files))
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	files, err := Discover(filepath.Join(t.TempDir(), "nope"), "*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0 for a missing directory", len(files))
	}
}

func TestDiscover_DirectoriesNeverMatch(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "archive.csv"), 0o755)
	writeFile(t, dir, "real.csv", "x\n1\n")

	files, err := Discover(dir, "*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"real.csv"}) {
		t.Errorf("got %v, want [real.csv]", got)
	}
}

func TestExcludeOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x\n1\n")
	writeFile(t, dir, "merged.csv", "x\n9\n")

	files, err := Discover(dir, "*.csv", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	files = ExcludeOutput(files, filepath.Join(dir, "merged.csv"))
	if got := basenames(files); !sliceEqual(got, []string{"a.csv"}) {
		t.Errorf("got %v, want [a.csv] (output must not be its own input)", got)
	}
}

func TestExcludeOutput_NonexistentOutput(t *testing.T) {
	files := []string{"/data/a.csv"}
	got := ExcludeOutput(files, "/data/out/merged.csv")
	if len(got) != 1 {
		t.Errorf("got %d files, want 1", len(got))
	}
}

// --- Run tests ---

func TestRun_UnionWithSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n")
	writeFile(t, dir, "b.csv", "y,z\n3,4\n")

	cfg := testConfig(dir)
	cfg.AddSource = true
	got := runAndRead(t, cfg)

	wantCols := []string{"source_file", "x", "y", "z"}
	if !sliceEqual(got.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", got.Columns, wantCols)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if got.Cell(0, "x") != "1" || got.Cell(0, "y") != "2" || got.Cell(0, "z") != "" {
		t.Errorf("row 0 = %v", got.Rows[0])
	}
	if got.Cell(1, "x") != "" || got.Cell(1, "y") != "3" || got.Cell(1, "z") != "4" {
		t.Errorf("row 1 = %v", got.Rows[1])
	}
	if got.Cell(0, "source_file") != "a.csv" || got.Cell(1, "source_file") != "b.csv" {
		t.Errorf("source cells = %q, %q", got.Cell(0, "source_file"), got.Cell(1, "source_file"))
	}
}

func TestRun_Intersection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n")
	writeFile(t, dir, "b.csv", "y,z\n3,4\n")

	cfg := testConfig(dir)
	cfg.Mode = config.ModeIntersection
	got := runAndRead(t, cfg)

	if !sliceEqual(got.Columns, []string{"y"}) {
		t.Fatalf("columns = %v, want [y]", got.Columns)
	}
	if got.Len() != 2 || got.Cell(0, "y") != "2" || got.Cell(1, "y") != "3" {
		t.Errorf("rows = %v", got.Rows)
	}
}

func TestRun_StrictMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n")
	writeFile(t, dir, "b.csv", "y,z\n3,4\n")

	cfg := testConfig(dir)
	cfg.Mode = config.ModeStrict

	log := testLogger(t, cfg)
	_, err := Run(cfg, log)
	if !errors.Is(err, merge.ErrSchemaMismatch) {
		t.Fatalf("Run error = %v, want ErrSchemaMismatch", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("no output file may be written on schema mismatch")
	}
}

func TestRun_RemovesIdentifyingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "project_name,x\nproj,1\n")

	cfg := testConfig(dir) // RemoveIdentifying resolves true by default
	got := runAndRead(t, cfg)

	if !sliceEqual(got.Columns, []string{"x"}) {
		t.Fatalf("columns = %v, want [x]", got.Columns)
	}
	if got.Cell(0, "x") != "1" {
		t.Errorf("cell = %q, want 1", got.Cell(0, "x"))
	}
}

func TestRun_DeduplicatesByKey(t *testing.T) {
	dir := t.TempDir()
	key := strings.Join(merge.DedupeKey, ",")
	vals := "t1,t2,2024-01-01T00:00:00Z,2024-01-02T00:00:00Z,10,USD,compute,p1,o1"
	writeFile(t, dir, "a.csv", key+",note\n"+vals+",first\n"+vals+",second\n")

	cfg := testConfig(dir)
	log := testLogger(t, cfg)
	stats, err := Run(cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", stats.DuplicatesRemoved)
	}

	got := readOutput(t, cfg)
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1", got.Len())
	}
	if got.Cell(0, "note") != "first" {
		t.Errorf("surviving note = %q, want first", got.Cell(0, "note"))
	}
	// The ISO columns were present, so month helpers are derived too.
	if got.Cell(0, "start_month") != "2024-01 January" {
		t.Errorf("start_month = %q, want %q", got.Cell(0, "start_month"), "2024-01 January")
	}
}

func TestRun_NoFilesIsSuccess(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig(dir)
	log := testLogger(t, cfg)
	stats, err := Run(cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Wrote {
		t.Error("no output file may be written when nothing matched")
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("output file should not exist")
	}
}

func TestRun_ParseErrorAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n")
	writeFile(t, dir, "bad.csv", "x,y\n1,2,3,4\n")

	cfg := testConfig(dir)
	log := testLogger(t, cfg)
	_, err := Run(cfg, log)

	var pe *csvio.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Run error = %v, want *ParseError", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("no partial output may be written on parse failure")
	}
}

func TestRun_OnlyProjectsFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "project_name,x\nkeep,1\ndrop,2\nkeep,3\n")

	cfg := testConfig(dir)
	cfg.OnlyProjectsRaw = "keep"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	got := runAndRead(t, cfg)

	// only-projects implies keeping the identifying column.
	if !got.HasColumn("project_name") {
		t.Fatalf("columns = %v, want project_name kept", got.Columns)
	}
	if got.Len() != 2 {
		t.Errorf("rows = %d, want 2", got.Len())
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n")
	writeFile(t, dir, "b.csv", "y,z\n3,4\n")

	cfg := testConfig(dir)
	cfg.AddSource = true

	log := testLogger(t, cfg)
	if _, err := Run(cfg, log); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Run(cfg, log); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("two runs over the same inputs must produce byte-identical output")
	}
}

func TestRun_OutputExcludedFromInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x\n1\n")

	cfg := testConfig(dir)
	cfg.OutputPath = filepath.Join(dir, "merged.csv") // inside the input dir

	log := testLogger(t, cfg)
	if _, err := Run(cfg, log); err != nil {
		t.Fatal(err)
	}
	// Second run re-discovers the directory, now containing merged.csv;
	// the result must not change.
	stats, err := Run(cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesFound != 1 {
		t.Errorf("FilesFound = %d, want 1 (merged.csv must be excluded)", stats.FilesFound)
	}
}

// --- Helpers ---

func testConfig(inputDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputPath = filepath.Join(inputDir, "out", "merged.csv")
	cfg.ColorMode = config.ColorNever
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func runAndRead(t *testing.T, cfg *config.Config) *table.Table {
	t.Helper()
	log := testLogger(t, cfg)
	if _, err := Run(cfg, log); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return readOutput(t, cfg)
}

func readOutput(t *testing.T, cfg *config.Config) *table.Table {
	t.Helper()
	tbl, err := csvio.ReadFile(cfg.OutputPath, cfg.DelimiterRune(), unicode.UTF8)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return tbl
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
