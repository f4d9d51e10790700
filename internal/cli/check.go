package cli

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check-pytorch <name>",
	Aliases: []string{"ensure-framework"},
	Short:   "Make sure the framework is installed in an environment",
	Long: `Check that the configured framework (PyTorch by default) imports in the
environment. When it does not, upgrade the environment's pip, install the
framework with the configured index and flags, and check again.

Only the environment's own installer is used; nothing outside the
environment directory is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ensureFramework(cmd, current, args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func ensureFramework(cmd *cobra.Command, s *session, name string) error {
	result, err := s.manager.EnsureFrameworkInstalled(cmd.Context(), name)
	if err != nil {
		return s.outcome(err)
	}

	module := s.cfg.Framework.Module
	if result.AlreadyInstalled {
		s.out.Success("%s %s is already installed in %q", module, result.Version, name)
		return nil
	}
	s.out.Success("Installed %s %s in %q", module, result.Version, name)
	return nil
}
