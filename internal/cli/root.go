package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/venvctl-labs/venvctl/internal/branding"
	"github.com/venvctl-labs/venvctl/internal/config"
	"github.com/venvctl-labs/venvctl/internal/console"
	"github.com/venvctl-labs/venvctl/internal/logger"
	"github.com/venvctl-labs/venvctl/internal/venv"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configFile   string
	registryRoot string
	verbose      bool
	noColor      bool
)

// managerOptions are appended to the options every command's Manager is
// built with. Tests use it to swap in an in-memory filesystem and runner.
var managerOptions []venv.Option

// session is what a command needs once flags and config are resolved.
type session struct {
	cfg     config.Config
	log     zerolog.Logger
	out     *console.Printer
	manager *venv.Manager
	opts    []venv.Option
}

var current *session

// errSilent makes the process exit non-zero without printing anything.
var errSilent = errors.New("silent failure")

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps a registry of Python virtual environments in one directory
and makes sure a machine-learning framework (PyTorch by default) is installed in them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	pf.StringVar(&registryRoot, "registry", "", "Registry directory holding the environments")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log subprocess invocations to stderr")
	pf.BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

// annotationRepairsConfig marks commands that must keep working when the
// config file fails validation, so it can be inspected and fixed.
const annotationRepairsConfig = "repairs-config"

func repairsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationRepairsConfig] == "true" {
			return true
		}
	}
	return false
}

// setup loads the configuration and wires the Manager for the command about
// to run.
func setup(cmd *cobra.Command, args []string) error {
	loadErr := config.Load(configFile)
	var invalid *config.InvalidError
	if loadErr != nil && !(errors.As(loadErr, &invalid) && repairsConfig(cmd)) {
		return loadErr
	}
	if err := viper.BindPFlag(config.KeyRegistryRoot, cmd.Flags().Lookup("registry")); err != nil {
		return err
	}

	cfg := config.Current()
	log := logger.Init(cmd.ErrOrStderr(), cfg.LogLevel, verbose)
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("config file ignored, using defaults")
	}
	out := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	opts := []venv.Option{
		venv.WithLogger(log),
		venv.WithReporter(out),
		venv.WithConfirmer(&venv.PromptConfirmer{
			In:    cmd.InOrStdin(),
			Out:   cmd.OutOrStdout(),
			Token: venv.DefaultConfirmToken,
		}),
	}
	opts = append(opts, managerOptions...)

	current = &session{
		cfg:     cfg,
		log:     log,
		out:     out,
		manager: venv.New(cfg, opts...),
		opts:    opts,
	}
	log.Debug().Str("registry", cfg.RegistryRoot).Str("command", cmd.Name()).Msg("starting")
	return nil
}

// managerWith returns a Manager like s.manager with extra options applied.
func (s *session) managerWith(extra ...venv.Option) *venv.Manager {
	opts := append(append([]venv.Option(nil), s.opts...), extra...)
	return venv.New(s.cfg, opts...)
}

// outcome converts an operation error into the command's result. Expected
// failures are printed and the command still succeeds; anything else is
// returned and ends the process with status 1.
func (s *session) outcome(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, venv.ErrCancelled):
		s.out.Info("Deletion cancelled")
		return nil
	case venv.IsExpected(err):
		s.out.Error("%v", err)
		return nil
	}
	return err
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errSilent) {
		console.Stdio(noColor).Error("%v", err)
	}
	return err
}
