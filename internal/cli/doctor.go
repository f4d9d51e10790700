package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/venvctl-labs/venvctl/internal/venv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the venvctl setup",
	Long: `Run diagnostic checks: the config file, the registry directory, the
default interpreter and the environments in the registry.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepairsConfig: "true"},
	RunE:        runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	s := current
	w := cmd.OutOrStdout()

	checkConfigFile(w)
	if ok := checkRegistry(w, s); ok {
		checkEnvironments(cmd, w, s)
	}
	checkInterpreter(cmd, w, s)
	return nil
}

func checkConfigFile(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := configFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [INFO] %s not found, using defaults\n", path)
		return
	}
	if err := validateConfigFile(path); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s is valid\n", path)
}

func checkRegistry(w io.Writer, s *session) bool {
	fmt.Fprintln(w, "Registry check:")
	root := s.manager.Root()
	exists, err := s.manager.RegistryState()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return false
	case !exists:
		fmt.Fprintf(w, "  [WARN] %s does not exist yet (created on first use)\n", root)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", root)
	return true
}

func checkEnvironments(cmd *cobra.Command, w io.Writer, s *session) {
	envs, err := s.manager.List(cmd.Context())
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] listing environments: %v\n", err)
		return
	}
	withFramework := 0
	for _, e := range envs {
		if e.FrameworkInstalled {
			withFramework++
		}
	}
	p := message.NewPrinter(language.English)
	fmt.Fprint(w, p.Sprintf("  [ OK ] %d environment(s), %d with %s\n", len(envs), withFramework, s.cfg.Framework.Module))
}

func checkInterpreter(cmd *cobra.Command, w io.Writer, s *session) {
	fmt.Fprintln(w, "Interpreter check:")
	interpreter := s.cfg.DefaultInterpreter
	line, err := s.manager.ProbeInterpreter(cmd.Context(), interpreter)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", interpreter, err)
		return
	}

	ok, err := venv.MeetsMinimum(line, s.cfg.MinPython)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] %s reports %q: %v\n", interpreter, line, err)
	case !ok:
		fmt.Fprintf(w, "  [WARN] %s is %s, older than %s\n", interpreter, venv.TrimPythonPrefix(line), s.cfg.MinPython)
	default:
		fmt.Fprintf(w, "  [ OK ] %s is %s\n", interpreter, venv.TrimPythonPrefix(line))
	}
}
