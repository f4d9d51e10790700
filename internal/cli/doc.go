// Package cli defines the Cobra command tree for the venvctl CLI. Each file
// in this package registers one top-level command (create, list, delete,
// etc.) with the root command. Commands delegate to internal/venv for the
// registry operations and only handle flag parsing, output formatting, and
// user interaction.
package cli
