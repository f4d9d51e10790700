// Package branding holds the names the tool presents itself under: the
// command name, the dot-directory under $HOME and the prefix of its
// environment variables. They are read from the embedded branding.yaml.
package branding

import (
	_ "embed"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

type identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
}

var fallback = identity{
	CLIName:     "venvctl",
	DisplayName: "venvctl",
	Description: "Manage a registry of Python virtual environments",
	HomeDir:     ".venvctl",
	EnvPrefix:   "VENVCTL",
}

var current = parse(rawBranding)

// parse reads data over the fallback. Fields that are missing or blank in
// data keep their fallback value.
func parse(data []byte) identity {
	var file identity
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fallback
	}
	id := fallback
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&id.CLIName, file.CLIName},
		{&id.DisplayName, file.DisplayName},
		{&id.Description, file.Description},
		{&id.HomeDir, file.HomeDir},
		{&id.EnvPrefix, file.EnvPrefix},
	} {
		if s := strings.TrimSpace(f.src); s != "" {
			*f.dst = s
		}
	}
	return id
}

func CLIName() string     { return current.CLIName }
func DisplayName() string { return current.DisplayName }
func Description() string { return current.Description }

// HomeDir is relative to the user's home directory.
func HomeDir() string { return current.HomeDir }

func EnvPrefix() string { return current.EnvPrefix }

// EnvVar names the environment variable for a config key suffix:
// EnvVar("registry_root") is "VENVCTL_REGISTRY_ROOT".
func EnvVar(suffix string) string {
	return current.EnvPrefix + "_" + strings.ToUpper(suffix)
}
