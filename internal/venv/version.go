package venv

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// preRelease matches CPython's pre-release spelling (3.13.0rc1, 3.14.0a2).
var preRelease = regexp.MustCompile(`^(\d+\.\d+\.\d+)(a|b|rc)(\d+)$`)

// TrimPythonPrefix turns "Python 3.11.4" into "3.11.4".
func TrimPythonPrefix(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Python "))
}

// ParsePythonVersion parses the output line of `python --version`.
func ParsePythonVersion(line string) (*semver.Version, error) {
	raw := TrimPythonPrefix(line)
	// Source builds report e.g. "3.12.0+".
	normalized := strings.TrimSuffix(raw, "+")
	if m := preRelease.FindStringSubmatch(normalized); m != nil {
		normalized = m[1] + "-" + m[2] + m[3]
	}
	v, err := semver.NewVersion(normalized)
	if err != nil {
		return nil, fmt.Errorf("parsing python version %q: %w", raw, err)
	}
	return v, nil
}

// MeetsMinimum reports whether the `python --version` line is at least min
// (e.g. "3.8"). Pre-releases of min itself do not count as meeting it.
func MeetsMinimum(line, min string) (bool, error) {
	v, err := ParsePythonVersion(line)
	if err != nil {
		return false, err
	}
	floor, err := semver.NewVersion(min)
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", min, err)
	}
	return !v.LessThan(floor), nil
}
