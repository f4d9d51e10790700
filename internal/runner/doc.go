// Package runner abstracts subprocess execution behind the Runner interface.
// ExecRunner spawns real processes with os/exec; Fake replays scripted results
// so callers can be tested without touching the host.
package runner
