package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Print an environment as one line of JSON",
	Long: `Print the environment's name, path, Python version and activation script
as a single line of JSON, for use by shell helpers.

When the environment does not exist nothing is printed and the exit
status is 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	s := current

	info, err := s.manager.Info(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if info == nil {
		return errSilent
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling environment info: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
