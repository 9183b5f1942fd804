package config

// Optional merge profile: a YAML file supplying defaults that CLI flags
// then override. Looked up at $CSVMERGE_PROFILE, falling back to
// .csvmerge.yaml in the working directory. A missing file is not an error;
// a malformed one is.

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfileFileName is the default profile location relative to the working
// directory.
const ProfileFileName = ".csvmerge.yaml"

// profileEnvVar overrides the profile location when set.
const profileEnvVar = "CSVMERGE_PROFILE"

// profileFile models the YAML document. Pointer fields distinguish "not
// set" from an explicit false/empty so the profile only touches what it
// names.
type profileFile struct {
	Input           string   `yaml:"input,omitempty"`
	Output          string   `yaml:"output,omitempty"`
	Pattern         string   `yaml:"pattern,omitempty"`
	Recursive       *bool    `yaml:"recursive,omitempty"`
	Delimiter       string   `yaml:"delimiter,omitempty"`
	Encoding        string   `yaml:"encoding,omitempty"`
	OutputEncoding  string   `yaml:"output_encoding,omitempty"`
	Mode            string   `yaml:"mode,omitempty"`
	AddSource       *bool    `yaml:"add_source,omitempty"`
	KeepIdentifying *bool    `yaml:"keep_identifying_info,omitempty"`
	OnlyProjects    []string `yaml:"only_projects,omitempty"`
	ExcludeProjects []string `yaml:"exclude_projects,omitempty"`
}

// ApplyProfile overlays profile values onto cfg. It must run after
// [DefaultConfig] and before [ParseFlags], so that flags passed on the
// command line still win. Returns the path of the profile that was
// applied, or "" when none exists.
func ApplyProfile(cfg *Config) (string, error) {
	path := os.Getenv(profileEnvVar)
	if path == "" {
		path = ProfileFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("profile %s: %w", path, err)
	}

	var p profileFile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("profile %s: %w", path, err)
	}

	if p.Input != "" {
		cfg.InputDir = p.Input
	}
	if p.Output != "" {
		cfg.OutputPath = p.Output
	}
	if p.Pattern != "" {
		cfg.Pattern = p.Pattern
	}
	if p.Recursive != nil {
		cfg.Recursive = *p.Recursive
	}
	if p.Delimiter != "" {
		cfg.Delimiter = p.Delimiter
	}
	if p.Encoding != "" {
		cfg.Encoding = p.Encoding
	}
	if p.OutputEncoding != "" {
		cfg.OutputEncoding = p.OutputEncoding
	}
	if p.Mode != "" {
		cfg.Mode = Mode(p.Mode)
	}
	if p.AddSource != nil {
		cfg.AddSource = *p.AddSource
	}
	if p.KeepIdentifying != nil {
		cfg.KeepIdentifying = *p.KeepIdentifying
	}
	if len(p.OnlyProjects) > 0 {
		cfg.OnlyProjectsRaw = strings.Join(p.OnlyProjects, ",")
	}
	if len(p.ExcludeProjects) > 0 {
		cfg.ExcludeProjectsRaw = strings.Join(p.ExcludeProjects, ",")
	}
	return path, nil
}
