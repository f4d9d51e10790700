package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/venvctl-labs/venvctl/internal/branding"
	"go.yaml.in/yaml/v3"
)

const (
	fileName = "config"
	fileType = "yaml"

	// RegistryDir is the default registry directory name under Dir().
	RegistryDir = "venvs"
)

// Configuration keys.
const (
	KeyRegistryRoot       = "registry_root"
	KeyDefaultInterpreter = "default_interpreter"
	KeyProbeTimeout       = "probe_timeout"
	KeyVerifyTimeout      = "verify_timeout"
	KeyMinPython          = "min_python"
	KeyLogLevel           = "log_level"
	KeyFrameworkModule    = "framework.module"
	KeyFrameworkPackage   = "framework.package"
	KeyFrameworkIndexURL  = "framework.index_url"
	KeyFrameworkExtraArgs = "framework.extra_args"
)

// Defaults for the framework install. They reproduce the ROCm nightly build
// of PyTorch the tool was written for.
const (
	DefaultInterpreter      = "python3"
	DefaultProbeTimeout     = 5 * time.Second
	DefaultVerifyTimeout    = 10 * time.Second
	DefaultMinPython        = "3.8"
	DefaultLogLevel         = "warn"
	DefaultFrameworkModule  = "torch"
	DefaultFrameworkPackage = "torch"
	DefaultFrameworkIndex   = "https://download.pytorch.org/whl/nightly/rocm7.1"
)

// DefaultFrameworkExtraArgs are appended to the framework install command line.
var DefaultFrameworkExtraArgs = []string{"--no-build-isolation"}

// Keys lists every settable configuration key.
var Keys = []string{
	KeyRegistryRoot,
	KeyDefaultInterpreter,
	KeyProbeTimeout,
	KeyVerifyTimeout,
	KeyMinPython,
	KeyLogLevel,
	KeyFrameworkModule,
	KeyFrameworkPackage,
	KeyFrameworkIndexURL,
	KeyFrameworkExtraArgs,
}

// IsKey reports whether key is a known configuration key.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// listKeys hold string slices; Set splits their values on commas.
var listKeys = map[string]bool{
	KeyFrameworkExtraArgs: true,
}

// Framework describes the package whose presence is checked and, when
// missing, installed by check-pytorch.
type Framework struct {
	Module    string   // importable module name, e.g. "torch"
	Package   string   // installer package spec, e.g. "torch"
	IndexURL  string   // package index passed as --index-url
	ExtraArgs []string // trailing installer flags
}

// Config is the resolved configuration for one invocation.
type Config struct {
	RegistryRoot       string
	DefaultInterpreter string
	ProbeTimeout       time.Duration
	VerifyTimeout      time.Duration
	MinPython          string
	LogLevel           string
	Framework          Framework
}

// Dir returns the path to the venvctl config directory (~/.venvctl/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.venvctl/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// SetDefaults registers the built-in defaults with Viper.
func SetDefaults() {
	viper.SetDefault(KeyRegistryRoot, filepath.Join(Dir(), RegistryDir))
	viper.SetDefault(KeyDefaultInterpreter, DefaultInterpreter)
	viper.SetDefault(KeyProbeTimeout, DefaultProbeTimeout.String())
	viper.SetDefault(KeyVerifyTimeout, DefaultVerifyTimeout.String())
	viper.SetDefault(KeyMinPython, DefaultMinPython)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyFrameworkModule, DefaultFrameworkModule)
	viper.SetDefault(KeyFrameworkPackage, DefaultFrameworkPackage)
	viper.SetDefault(KeyFrameworkIndexURL, DefaultFrameworkIndex)
	viper.SetDefault(KeyFrameworkExtraArgs, DefaultFrameworkExtraArgs)
}

// Load initializes Viper to read from the config file and environment.
// An empty path selects FilePath(). A missing file is not an error; a file
// that fails schema validation is.
func Load(path string) error {
	if path == "" {
		path = FilePath()
	}

	SetDefaults()
	viper.SetConfigFile(path)
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return fmt.Errorf("validating config file %s: %w", path, err)
	}
	if !result.Valid {
		return &InvalidError{Path: path, Issues: result.Issues}
	}

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

// Current returns the typed configuration from Viper's merged view.
func Current() Config {
	return Config{
		RegistryRoot:       viper.GetString(KeyRegistryRoot),
		DefaultInterpreter: viper.GetString(KeyDefaultInterpreter),
		ProbeTimeout:       durationOr(viper.GetDuration(KeyProbeTimeout), DefaultProbeTimeout),
		VerifyTimeout:      durationOr(viper.GetDuration(KeyVerifyTimeout), DefaultVerifyTimeout),
		MinPython:          viper.GetString(KeyMinPython),
		LogLevel:           viper.GetString(KeyLogLevel),
		Framework: Framework{
			Module:    viper.GetString(KeyFrameworkModule),
			Package:   viper.GetString(KeyFrameworkPackage),
			IndexURL:  viper.GetString(KeyFrameworkIndexURL),
			ExtraArgs: viper.GetStringSlice(KeyFrameworkExtraArgs),
		},
	}
}

// Default returns the built-in configuration without consulting Viper.
func Default() Config {
	return Config{
		RegistryRoot:       filepath.Join(Dir(), RegistryDir),
		DefaultInterpreter: DefaultInterpreter,
		ProbeTimeout:       DefaultProbeTimeout,
		VerifyTimeout:      DefaultVerifyTimeout,
		MinPython:          DefaultMinPython,
		LogLevel:           DefaultLogLevel,
		Framework: Framework{
			Module:    DefaultFrameworkModule,
			Package:   DefaultFrameworkPackage,
			IndexURL:  DefaultFrameworkIndex,
			ExtraArgs: append([]string(nil), DefaultFrameworkExtraArgs...),
		},
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	if listKeys[key] {
		return strings.Join(viper.GetStringSlice(key), ",")
	}
	return viper.GetString(key)
}

// Set writes a config key-value pair to the config file. Only the file's own
// contents plus the new value are written; defaults, environment overrides
// and flags stay out of it. The result is checked against the schema first
// and nothing is written when it does not pass.
func Set(key, value string) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = FilePath()
	}

	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var v any = value
	if listKeys[key] {
		v = splitList(value)
	}
	file.Set(key, v)

	data, err := yaml.Marshal(file.AllSettings())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	result, err := Validate(data)
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if !result.Valid {
		return &InvalidError{Path: configFile, Issues: result.Issues}
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, v)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
