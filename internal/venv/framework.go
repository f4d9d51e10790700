package venv

import (
	"context"
	"fmt"
	"strings"

	"github.com/venvctl-labs/venvctl/internal/runner"
)

// FrameworkResult is the outcome of EnsureFrameworkInstalled.
type FrameworkResult struct {
	Version          string
	AlreadyInstalled bool
}

// EnsureFrameworkInstalled makes sure the configured framework imports in
// the named environment. When it already does, nothing is changed. Otherwise
// the environment's installer is upgraded, the framework is installed once
// with the configured index and flags, and the import is checked again.
func (m *Manager) EnsureFrameworkInstalled(ctx context.Context, name string) (*FrameworkResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := m.PathOf(name)
	exists, err := m.Exists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNotFound, name, path)
	}

	label := m.frameworkLabel()
	m.report.Info("Checking %s in %q...", label, name)

	installed, version, err := m.probeFramework(ctx, path, m.cfg.VerifyTimeout)
	switch {
	case err != nil:
		m.report.Warn("Could not check %s: %v", label, err)
	case installed:
		return &FrameworkResult{Version: version, AlreadyInstalled: true}, nil
	}

	install := m.installCommand(path)
	m.report.Warn("%s is not installed, installing it now", label)
	m.report.Info("Install command: %s", install)

	m.report.Info("Upgrading pip...")
	if err := m.runInstaller(ctx, m.upgradeCommand(path)); err != nil {
		return nil, err
	}

	m.report.Info("Installing %s (this can take several minutes)...", label)
	if err := m.runInstaller(ctx, install); err != nil {
		return nil, err
	}

	installed, version, err = m.probeFramework(ctx, path, m.cfg.VerifyTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if !installed || version == "" {
		return nil, fmt.Errorf("%w: import %s failed in %q", ErrVerificationFailed, m.cfg.Framework.Module, name)
	}

	m.log.Debug().Str("env", name).Str("version", version).Msg("framework installed")
	return &FrameworkResult{Version: version}, nil
}

// upgradeCommand upgrades the environment's own installer.
func (m *Manager) upgradeCommand(envPath string) runner.Command {
	return runner.Command{
		Name:   InstallerPath(envPath),
		Args:   []string{"install", "--upgrade", "pip"},
		Stream: true,
	}
}

// installCommand installs the framework with the environment's own installer.
func (m *Manager) installCommand(envPath string) runner.Command {
	fw := m.cfg.Framework
	args := []string{"install", fw.Package}
	if strings.TrimSpace(fw.IndexURL) != "" {
		args = append(args, "--index-url", fw.IndexURL)
	}
	args = append(args, fw.ExtraArgs...)
	return runner.Command{Name: InstallerPath(envPath), Args: args, Stream: true}
}

func (m *Manager) runInstaller(ctx context.Context, cmd runner.Command) error {
	out, err := m.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	if !out.Success() {
		return fmt.Errorf("%w: %s exited with status %d", ErrInstallFailed, cmd, out.ExitCode)
	}
	return nil
}
