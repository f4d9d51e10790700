// Package venv manages a flat registry of Python virtual environments.
//
// The registry is a directory; every immediate subdirectory that contains an
// interpreter at the conventional relative path (bin/python, or
// Scripts\python.exe on Windows) is an environment. Nothing else is
// persisted: versions and installed packages are probed from the
// environment's own interpreter every time they are needed.
//
// Manager performs all filesystem access through an afero.Fs and all
// subprocess calls through a runner.Runner, so both can be replaced in tests.
// Mutations of an environment only ever run that environment's own installer.
package venv
