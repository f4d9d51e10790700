package venv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venvctl-labs/venvctl/internal/runner"
)

func TestEnsureFramework_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.m.EnsureFrameworkInstalled(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, h.run.Calls)
}

func TestEnsureFramework_AlreadyInstalledMakesNoChanges(t *testing.T) {
	h := newHarness(t)
	path := h.host.addEnv("envA", &fakeEnv{python: "Python 3.11.9", framework: "2.5.1"})

	result, err := h.m.EnsureFrameworkInstalled(context.Background(), "envA")
	require.NoError(t, err)
	assert.True(t, result.AlreadyInstalled)
	assert.Equal(t, "2.5.1", result.Version)

	require.Len(t, h.run.Calls, 1, "only the import probe runs")
	assert.Equal(t, InterpreterPath(path), h.run.Calls[0].Name)
	assert.Equal(t, testConfig().VerifyTimeout, h.run.Calls[0].Timeout)
	assert.Empty(t, h.run.CallsTo(InstallerPath(path)))
}

func TestEnsureFramework_InstallsWithEnvironmentInstaller(t *testing.T) {
	h := newHarness(t)
	path := h.host.addEnv("envA", &fakeEnv{python: "Python 3.11.9"})

	result, err := h.m.EnsureFrameworkInstalled(context.Background(), "envA")
	require.NoError(t, err)
	assert.False(t, result.AlreadyInstalled)
	assert.Equal(t, "2.6.0.dev20241001+rocm7.1", result.Version)

	require.Len(t, h.run.Calls, 4)
	probe, upgrade, install, verify := h.run.Calls[0], h.run.Calls[1], h.run.Calls[2], h.run.Calls[3]

	assert.Equal(t, InterpreterPath(path), probe.Name)

	assert.Equal(t, InstallerPath(path), upgrade.Name)
	assert.Equal(t, []string{"install", "--upgrade", "pip"}, upgrade.Args)
	assert.Zero(t, upgrade.Timeout)

	assert.Equal(t, InstallerPath(path), install.Name)
	assert.Equal(t, []string{
		"install", "torch",
		"--index-url", "https://download.pytorch.org/whl/nightly/rocm7.1",
		"--no-build-isolation",
	}, install.Args)
	assert.Zero(t, install.Timeout)
	assert.True(t, install.Stream)

	assert.Equal(t, InterpreterPath(path), verify.Name)
	assert.Equal(t, testConfig().VerifyTimeout, verify.Timeout)
}

func TestEnsureFramework_VerificationFails(t *testing.T) {
	h := newHarness(t)
	h.host.installedVersion = ""
	h.host.addEnv("envA", &fakeEnv{python: "Python 3.11.9"})

	_, err := h.m.EnsureFrameworkInstalled(context.Background(), "envA")
	require.ErrorIs(t, err, ErrVerificationFailed)

	assert.Len(t, h.run.Calls, 4, "probe, upgrade, install, verify")
}

func TestEnsureFramework_InstallerFailuresAbort(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(h *fakeHost)
		wantCalls int
	}{
		{"upgrade fails", func(h *fakeHost) { h.upgradeExit = 1 }, 2},
		{"install fails", func(h *fakeHost) { h.installExit = 1 }, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h.host)
			h.host.addEnv("envA", &fakeEnv{python: "Python 3.11.9"})

			_, err := h.m.EnsureFrameworkInstalled(context.Background(), "envA")
			require.ErrorIs(t, err, ErrInstallFailed)
			assert.Len(t, h.run.Calls, tt.wantCalls, "no retry and no verification")
		})
	}
}

func TestEnsureFramework_ProbeErrorStillInstalls(t *testing.T) {
	h := newHarness(t)
	env := &fakeEnv{python: "Python 3.11.9", importErr: runner.ErrTimeout}
	h.host.addEnv("envA", env)

	// The first probe times out; afterwards the import works.
	handler := h.run.Handler
	h.run.Handler = func(c runner.Command) (*runner.Output, error) {
		out, err := handler(c)
		env.importErr = nil
		return out, err
	}

	result, err := h.m.EnsureFrameworkInstalled(context.Background(), "envA")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Version)
	require.Len(t, h.report.warns, 2)
	assert.Contains(t, h.report.warns[0], "Could not check")
}

func TestEnsureFramework_CustomFramework(t *testing.T) {
	cfg := testConfig()
	cfg.Framework.Module = "jax"
	cfg.Framework.Package = "jax[cuda12]"
	cfg.Framework.IndexURL = ""
	cfg.Framework.ExtraArgs = []string{"--pre"}

	m := New(cfg)
	path := m.PathOf("envA")

	assert.Equal(t, []string{"install", "jax[cuda12]", "--pre"}, m.installCommand(path).Args)
	assert.Equal(t, []string{"-c", "import jax; print(jax.__version__)"}, m.frameworkProbe(path, cfg.VerifyTimeout).Args)
}
