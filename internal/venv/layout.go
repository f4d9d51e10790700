package venv

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Relative locations inside an environment directory.
const (
	binDirUnix     = "bin"
	binDirWindows  = "Scripts"
	interpreterExe = "python"
	installerExe   = "pip3"
	activateScript = "activate"
)

func binDir() string {
	if runtime.GOOS == "windows" {
		return binDirWindows
	}
	return binDirUnix
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// InterpreterPath returns the environment's interpreter. Its presence is what
// makes a directory an environment.
func InterpreterPath(envPath string) string {
	return filepath.Join(envPath, binDir(), exe(interpreterExe))
}

// InstallerPath returns the environment's own package installer.
func InstallerPath(envPath string) string {
	return filepath.Join(envPath, binDir(), exe(installerExe))
}

// ActivatePath returns the environment's shell activation script.
func ActivatePath(envPath string) string {
	return filepath.Join(envPath, binDir(), activateScript)
}

// ValidateName rejects names that are not a single, plain directory name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q must not start with '-'", ErrInvalidName, name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q has leading or trailing whitespace", ErrInvalidName, name)
	}
	return nil
}
