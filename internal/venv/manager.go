package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/venvctl-labs/venvctl/internal/config"
	"github.com/venvctl-labs/venvctl/internal/runner"
)

// Reporter receives progress and warning lines while an operation runs.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopReporter struct{}

func (nopReporter) Info(string, ...any) {}
func (nopReporter) Warn(string, ...any) {}

// Environment is one managed environment as seen by List.
type Environment struct {
	Name               string `json:"name"`
	Path               string `json:"path"`
	PythonVersion      string `json:"python_version"`
	FrameworkInstalled bool   `json:"framework_installed"`
	FrameworkVersion   string `json:"framework_version,omitempty"`
}

// Info is the machine-readable record printed by the info command. The JSON
// keys are consumed by shell helpers and must stay stable.
type Info struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	PythonVersion  string `json:"python_version"`
	ActivateScript string `json:"activate_script"`
}

// Manager operates on the environments under one registry root.
type Manager struct {
	cfg     config.Config
	fs      afero.Fs
	runner  runner.Runner
	confirm Confirmer
	report  Reporter
	log     zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithFs sets the filesystem (useful for testing).
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithRunner sets the subprocess runner.
func WithRunner(r runner.Runner) Option {
	return func(m *Manager) {
		m.runner = r
	}
}

// WithConfirmer sets how deletions are confirmed.
func WithConfirmer(c Confirmer) Option {
	return func(m *Manager) {
		m.confirm = c
	}
}

// WithReporter sets where progress and warnings go.
func WithReporter(r Reporter) Option {
	return func(m *Manager) {
		m.report = r
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// New creates a Manager for cfg. Without options it uses the real
// filesystem, spawns real processes and prompts on stdin.
func New(cfg config.Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		confirm: &PromptConfirmer{In: os.Stdin, Out: os.Stdout, Token: DefaultConfirmToken},
		report:  nopReporter{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = runner.NewExecRunner(m.log)
	}
	return m
}

// Root returns the registry root directory.
func (m *Manager) Root() string {
	return m.cfg.RegistryRoot
}

// PathOf returns the directory of the named environment.
func (m *Manager) PathOf(name string) string {
	return filepath.Join(m.cfg.RegistryRoot, name)
}

// EnsureRegistry creates the registry root and its parents if needed.
func (m *Manager) EnsureRegistry() error {
	if err := m.fs.MkdirAll(m.cfg.RegistryRoot, 0755); err != nil {
		return fmt.Errorf("creating registry %s: %w", m.cfg.RegistryRoot, err)
	}
	return nil
}

// Exists reports whether anything occupies the named environment's path.
func (m *Manager) Exists(name string) (bool, error) {
	path := m.PathOf(name)
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return ok, nil
}

// RegistryState reports whether the registry root exists. An existing root
// that is not a directory is an error.
func (m *Manager) RegistryState() (bool, error) {
	info, err := m.fs.Stat(m.cfg.RegistryRoot)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return true, fmt.Errorf("%s is not a directory", m.cfg.RegistryRoot)
	}
	return true, nil
}

// isEnvironment reports whether dir holds an interpreter.
func (m *Manager) isEnvironment(dir string) bool {
	ok, err := afero.Exists(m.fs, InterpreterPath(dir))
	return err == nil && ok
}

// Create makes a new environment with interpreter's venv module. An empty
// interpreter selects the configured default. A failed creation is not
// cleaned up.
func (m *Manager) Create(ctx context.Context, name, interpreter string) (*Environment, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := m.EnsureRegistry(); err != nil {
		return nil, err
	}

	path := m.PathOf(name)
	exists, err := m.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q (%s)", ErrAlreadyExists, name, path)
	}

	if interpreter == "" {
		interpreter = m.cfg.DefaultInterpreter
	}

	m.report.Info("Creating environment %q with %s...", name, interpreter)
	cmd := runner.Command{Name: interpreter, Args: []string{"-m", "venv", path}, Stream: true}
	out, err := m.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}
	if !out.Success() {
		return nil, fmt.Errorf("%w: %s exited with status %d", ErrCreationFailed, cmd, out.ExitCode)
	}
	m.log.Debug().Str("env", name).Str("path", path).Msg("environment created")

	env := &Environment{Name: name, Path: path}
	version, err := m.probeVersion(ctx, path, m.cfg.ProbeTimeout)
	if err != nil {
		m.report.Warn("Could not read the Python version of %q: %v", name, err)
		return env, nil
	}
	env.PythonVersion = version
	return env, nil
}

// List returns every environment in the registry, sorted by name. An
// environment whose probes fail to run is reported as a warning and left out.
func (m *Manager) List(ctx context.Context) ([]Environment, error) {
	return m.ListMatching(ctx, "")
}

// ListMatching is List restricted to names matching the glob pattern. An
// empty pattern matches every name. Non-matching environments are not probed.
func (m *Manager) ListMatching(ctx context.Context, pattern string) ([]Environment, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if err := m.EnsureRegistry(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(m.fs, m.cfg.RegistryRoot)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", m.cfg.RegistryRoot, err)
	}

	var envs []Environment
	for _, entry := range entries {
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, entry.Name()); !ok {
				continue
			}
		}
		path := filepath.Join(m.cfg.RegistryRoot, entry.Name())
		// Stat rather than trust the entry so symlinked environments count.
		info, err := m.fs.Stat(path)
		if err != nil || !info.IsDir() || !m.isEnvironment(path) {
			continue
		}

		version, err := m.probeVersion(ctx, path, m.cfg.ProbeTimeout)
		if err != nil {
			m.report.Warn("Skipping %q: reading Python version: %v", entry.Name(), err)
			continue
		}
		installed, fwVersion, err := m.probeFramework(ctx, path, m.cfg.ProbeTimeout)
		if err != nil {
			m.report.Warn("Skipping %q: checking %s: %v", entry.Name(), m.cfg.Framework.Module, err)
			continue
		}

		envs = append(envs, Environment{
			Name:               entry.Name(),
			Path:               path,
			PythonVersion:      TrimPythonPrefix(version),
			FrameworkInstalled: installed,
			FrameworkVersion:   fwVersion,
		})
	}

	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs, nil
}

// Delete removes the named environment after the Confirmer approves.
// ErrCancelled is returned when it does not.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	path := m.PathOf(name)
	exists, err := m.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %q (%s)", ErrNotFound, name, path)
	}

	m.report.Warn("Delete environment %q? This cannot be undone.", name)
	m.report.Info("Path: %s", path)
	ok, err := m.confirm.Confirm(fmt.Sprintf("Type '%s' to confirm deletion: ", DefaultConfirmToken))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q was not deleted", ErrCancelled, name)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrDeletionFailed, name, err)
	}
	m.log.Debug().Str("env", name).Str("path", path).Msg("environment deleted")
	return nil
}

// Info returns the machine-readable record for name, or nil when the name is
// invalid, the directory is missing, or its interpreter cannot be run.
func (m *Manager) Info(ctx context.Context, name string) (*Info, error) {
	if ValidateName(name) != nil {
		return nil, nil
	}
	exists, err := m.Exists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	path := m.PathOf(name)
	// Only a probe that cannot run makes the environment absent. A non-zero
	// exit still yields a record, with whatever version line was printed.
	cmd := runner.Command{Name: InterpreterPath(path), Args: []string{"--version"}, Timeout: m.cfg.ProbeTimeout}
	out, err := m.runner.Run(ctx, cmd)
	if err != nil {
		m.log.Debug().Str("env", name).Err(err).Msg("info probe failed")
		return nil, nil
	}
	if !out.Success() {
		m.log.Debug().Str("env", name).Int("exit_code", out.ExitCode).Msg("info probe exited non-zero")
	}

	return &Info{
		Name:           name,
		Path:           path,
		PythonVersion:  out.FirstLine(),
		ActivateScript: ActivatePath(path),
	}, nil
}

// ProbeInterpreter returns the `--version` line of an arbitrary interpreter
// on the host, e.g. the default one used by Create.
func (m *Manager) ProbeInterpreter(ctx context.Context, interpreter string) (string, error) {
	if interpreter == "" {
		interpreter = m.cfg.DefaultInterpreter
	}
	return m.versionOf(ctx, interpreter, m.cfg.ProbeTimeout)
}

// probeVersion returns the raw `python --version` line of the environment.
func (m *Manager) probeVersion(ctx context.Context, envPath string, timeout time.Duration) (string, error) {
	return m.versionOf(ctx, InterpreterPath(envPath), timeout)
}

func (m *Manager) versionOf(ctx context.Context, interpreter string, timeout time.Duration) (string, error) {
	cmd := runner.Command{Name: interpreter, Args: []string{"--version"}, Timeout: timeout}
	out, err := m.runner.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", fmt.Errorf("%s exited with status %d", cmd, out.ExitCode)
	}
	// Interpreters older than 3.4 print the version on stderr.
	line := out.FirstLine()
	if line == "" {
		return "", fmt.Errorf("%s printed no version", cmd)
	}
	return line, nil
}

// probeFramework imports the framework module in the environment. A zero
// exit means it is installed; the last stdout line is its version. Only
// failures to run the probe are errors.
func (m *Manager) probeFramework(ctx context.Context, envPath string, timeout time.Duration) (bool, string, error) {
	out, err := m.runner.Run(ctx, m.frameworkProbe(envPath, timeout))
	if err != nil {
		return false, "", err
	}
	if !out.Success() {
		return false, "", nil
	}
	return true, out.LastLine(), nil
}

func (m *Manager) frameworkProbe(envPath string, timeout time.Duration) runner.Command {
	mod := m.cfg.Framework.Module
	script := fmt.Sprintf("import %s; print(%s.__version__)", mod, mod)
	return runner.Command{Name: InterpreterPath(envPath), Args: []string{"-c", script}, Timeout: timeout}
}

// frameworkLabel names the framework in messages.
func (m *Manager) frameworkLabel() string {
	if label := strings.TrimSpace(m.cfg.Framework.Package); label != "" {
		return label
	}
	return m.cfg.Framework.Module
}
