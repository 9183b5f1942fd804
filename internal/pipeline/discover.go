package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discover returns the input files under inputDir whose base name matches
// pattern, sorted lexicographically for deterministic processing order.
// Non-recursive discovery matches direct children only; recursive
// discovery matches at any depth. Directories never match. A missing or
// unreadable input directory yields an empty result rather than an error,
// so "nothing to do" stays a success case.
func Discover(inputDir, pattern string, recursive bool) ([]string, error) {
	fi, err := os.Stat(inputDir)
	if err != nil || !fi.IsDir() {
		return nil, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ok, err := filepath.Match(pattern, d.Name())
			if err != nil {
				return err
			}
			if ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(inputDir, pattern))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ExcludeOutput removes the output file from the input set, so a previous
// merge result sitting inside the input directory is never consumed as
// input. Paths are compared in resolved absolute form; when resolution
// fails (e.g. the output does not exist yet) the raw paths are compared.
func ExcludeOutput(files []string, output string) []string {
	target := resolvePath(output)
	kept := files[:0]
	for _, f := range files {
		if resolvePath(f) != target {
			kept = append(kept, f)
		}
	}
	return kept
}

func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
