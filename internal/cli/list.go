package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/venvctl-labs/venvctl/internal/branding"
	"github.com/venvctl-labs/venvctl/internal/venv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List environments",
	Long: `List every environment in the registry with its Python version and
whether the configured framework is installed.

Directories without an interpreter are ignored. An environment whose
interpreter cannot be queried is skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list environments whose name matches a glob (e.g. 'torch-*')")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s := current

	envs, err := s.manager.ListMatching(cmd.Context(), listMatch)
	if err != nil {
		return s.outcome(err)
	}

	if listJSON {
		return printListJSON(cmd, envs)
	}

	if len(envs) == 0 && listMatch != "" {
		s.out.Info("No environments matching %q in %s", listMatch, s.manager.Root())
		return nil
	}
	if len(envs) == 0 {
		s.out.Info("No environments found in %s", s.manager.Root())
		s.out.Info("Create one with:")
		s.out.Command(branding.CLIName() + " create <name>")
		return nil
	}

	s.out.Header("Environments in " + s.manager.Root())
	if err := printListTable(cmd, s, envs); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	fmt.Fprintln(cmd.OutOrStdout())
	p.Fprintf(cmd.OutOrStdout(), "Total: %d environment(s)\n", len(envs))
	return nil
}

func printListTable(cmd *cobra.Command, s *session, envs []venv.Environment) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "NAME\tPYTHON\t%s\tPATH\n", strings.ToUpper(s.cfg.Framework.Module))
	for _, e := range envs {
		framework := "not installed"
		if e.FrameworkInstalled {
			framework = e.FrameworkVersion
			if framework == "" {
				framework = "installed"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.PythonVersion, framework, e.Path)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, envs []venv.Environment) error {
	if envs == nil {
		envs = []venv.Environment{}
	}
	data, err := json.MarshalIndent(envs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
