package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/venvctl-labs/venvctl/internal/venv"
)

var (
	createInterpreter   string
	createWithFramework bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new environment",
	Long: `Create a virtual environment named <name> in the registry using the venv
module of the selected interpreter (python3 unless --python or the
default_interpreter setting says otherwise).

An existing directory with the same name is never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createInterpreter, "python", "p", "", "Interpreter used to create the environment")
	createCmd.Flags().BoolVar(&createWithFramework, "with-framework", false, "Install the configured framework right after creation")
	// --interpreter is accepted as a synonym.
	createCmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "interpreter" {
			name = "python"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	s := current
	name := args[0]

	env, err := s.manager.Create(cmd.Context(), name, createInterpreter)
	if err != nil {
		return s.outcome(err)
	}

	s.out.Success("Created environment %q", env.Name)
	if env.PythonVersion != "" {
		s.out.Info("Python: %s", env.PythonVersion)
	}
	s.out.Info("Path: %s", env.Path)

	if createWithFramework {
		if err := ensureFramework(cmd, s, name); err != nil {
			return err
		}
	}

	s.out.Info("Activate it with:")
	s.out.Command("source " + venv.ActivatePath(env.Path))
	return nil
}
