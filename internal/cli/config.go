package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/venvctl-labs/venvctl/internal/branding"
	"github.com/venvctl-labs/venvctl/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage user settings",
	Annotations: map[string]string{annotationRepairsConfig: "true"},
	Long: `Read and write venvctl configuration stored at ~/.venvctl/config.yaml.

Known keys:
  ` + strings.Join(sortedKeys(), "\n  ") + `

Every key can also be set through the environment, e.g. ` + branding.EnvVar("registry_root") + `
or ` + branding.EnvVar("framework_index_url") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. framework.extra_args takes a comma-separated list.

Only the file's own settings and the new value are written. The file is left
unchanged when the result would not be a valid configuration.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !config.IsKey(key) {
			return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(sortedKeys(), ", "))
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		current.out.Success("Set %s = %s", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKey(args[0]) {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	// Works on a file that fails validation.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		return nil
	},
}

func configFilePath() string {
	if configFile != "" {
		return configFile
	}
	return config.FilePath()
}

// validateConfigFile checks a config file against the schema.
func validateConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	result, err := config.Validate(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &config.InvalidError{Path: path, Issues: result.Issues}
	}
	return nil
}

func sortedKeys() []string {
	keys := append([]string(nil), config.Keys...)
	sort.Strings(keys)
	return keys
}
