package cli

import (
	"github.com/spf13/cobra"
	"github.com/venvctl-labs/venvctl/internal/venv"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an environment",
	Long: `Delete the environment directory <name> and everything in it.

You are asked to type 'yes' before anything is removed; any other answer
leaves the environment untouched. --yes skips the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	s := current
	name := args[0]

	m := s.manager
	if deleteYes {
		m = s.managerWith(venv.WithConfirmer(venv.StaticConfirmer(true)))
	}

	if err := m.Delete(cmd.Context(), name); err != nil {
		return s.outcome(err)
	}
	s.out.Success("Deleted environment %q", name)
	return nil
}
