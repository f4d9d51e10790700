package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/venvctl-labs/venvctl/internal/config"
	"github.com/venvctl-labs/venvctl/internal/runner"
)

const testRoot = "/srv/venvs"

// fakeEnv is the simulated state of one environment's interpreter.
type fakeEnv struct {
	python     string // `--version` output; empty makes the probe exit 1
	framework  string // framework version; empty means the import fails
	versionErr error  // returned instead of running the version probe
	importErr  error  // returned instead of running the import probe
}

// fakeHost simulates python, venv and pip on top of an in-memory filesystem.
type fakeHost struct {
	t    *testing.T
	fs   afero.Fs
	envs map[string]*fakeEnv

	hostPython       string // version reported by newly created environments
	createExit       int
	createErr        error
	upgradeExit      int
	installExit      int
	installedVersion string // framework version after a successful install
}

func newFakeHost(t *testing.T, fs afero.Fs) *fakeHost {
	return &fakeHost{
		t:                t,
		fs:               fs,
		envs:             map[string]*fakeEnv{},
		hostPython:       "Python 3.11.9",
		installedVersion: "2.6.0.dev20241001+rocm7.1",
	}
}

// addEnv materialises an environment directory with an interpreter marker.
func (h *fakeHost) addEnv(name string, env *fakeEnv) string {
	h.t.Helper()
	path := filepath.Join(testRoot, name)
	require.NoError(h.t, h.fs.MkdirAll(filepath.Dir(InterpreterPath(path)), 0755))
	require.NoError(h.t, afero.WriteFile(h.fs, InterpreterPath(path), []byte("#!python"), 0755))
	require.NoError(h.t, afero.WriteFile(h.fs, filepath.Join(path, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0644))
	h.envs[path] = env
	return path
}

// envPathOf maps an executable inside an environment back to that environment.
func envPathOf(executable string) string {
	return filepath.Dir(filepath.Dir(executable))
}

func (h *fakeHost) handle(c runner.Command) (*runner.Output, error) {
	switch {
	case len(c.Args) == 3 && c.Args[0] == "-m" && c.Args[1] == "venv":
		if h.createErr != nil {
			return nil, h.createErr
		}
		if h.createExit != 0 {
			return runner.Exit(h.createExit, ""), nil
		}
		name := filepath.Base(c.Args[2])
		h.addEnv(name, &fakeEnv{python: h.hostPython})
		return runner.Exit(0, ""), nil

	case strings.HasSuffix(c.Name, filepath.Base(InterpreterPath("x"))):
		env, ok := h.envs[envPathOf(c.Name)]
		if !ok {
			return nil, fmt.Errorf("exec: %q: no such file or directory", c.Name)
		}
		if len(c.Args) == 1 && c.Args[0] == "--version" {
			if env.versionErr != nil {
				return nil, env.versionErr
			}
			if env.python == "" {
				return runner.Exit(1, ""), nil
			}
			return runner.Exit(0, env.python+"\n"), nil
		}
		if len(c.Args) == 2 && c.Args[0] == "-c" {
			if env.importErr != nil {
				return nil, env.importErr
			}
			if env.framework == "" {
				return &runner.Output{ExitCode: 1, Stderr: "ModuleNotFoundError: No module named 'torch'\n"}, nil
			}
			return runner.Exit(0, env.framework+"\n"), nil
		}

	case strings.HasSuffix(c.Name, filepath.Base(InstallerPath("x"))):
		env, ok := h.envs[envPathOf(c.Name)]
		if !ok {
			return nil, fmt.Errorf("exec: %q: no such file or directory", c.Name)
		}
		if len(c.Args) >= 3 && c.Args[1] == "--upgrade" {
			return runner.Exit(h.upgradeExit, ""), nil
		}
		if h.installExit != 0 {
			return runner.Exit(h.installExit, ""), nil
		}
		env.framework = h.installedVersion
		return runner.Exit(0, ""), nil
	}

	// Host interpreter probes (doctor).
	if len(c.Args) == 1 && c.Args[0] == "--version" {
		return runner.Exit(0, h.hostPython+"\n"), nil
	}
	h.t.Fatalf("unexpected command: %s", c)
	return nil, nil
}

// recordingReporter keeps every progress line for assertions.
type recordingReporter struct {
	infos []string
	warns []string
}

func (r *recordingReporter) Info(format string, args ...any) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Warn(format string, args ...any) {
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

type harness struct {
	m      *Manager
	fs     afero.Fs
	host   *fakeHost
	run    *runner.Fake
	report *recordingReporter
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.RegistryRoot = testRoot
	cfg.ProbeTimeout = 5 * time.Second
	cfg.VerifyTimeout = 10 * time.Second
	return cfg
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	host := newFakeHost(t, fs)
	run := &runner.Fake{Handler: host.handle}
	report := &recordingReporter{}

	all := append([]Option{
		WithFs(fs),
		WithRunner(run),
		WithReporter(report),
		WithConfirmer(StaticConfirmer(false)),
	}, opts...)

	return &harness{
		m:      New(testConfig(), all...),
		fs:     fs,
		host:   host,
		run:    run,
		report: report,
	}
}

// snapshot captures every file and its content under root.
func snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			files[path] = "<dir>"
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		files[path] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
