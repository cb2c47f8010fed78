package cmd

import (
	"errors"

	"github.com/Alia5/autotyper/internal/typer"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitUnexpected = 1
	ExitConfig     = 2
	ExitBackend    = 3
	ExitKeystrokes = 4
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		ce *typer.ConfigError
		be *typer.BackendUnavailableError
		ke *typer.KeystrokeFailuresError
	)
	switch {
	case errors.As(err, &ce):
		return ExitConfig
	case errors.As(err, &be):
		return ExitBackend
	case errors.As(err, &ke):
		return ExitKeystrokes
	default:
		return ExitUnexpected
	}
}
