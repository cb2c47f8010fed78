package typer

import (
	"errors"
	"fmt"

	"github.com/Alia5/autotyper/internal/backend"
)

// ConfigError is a bad argument, override or layout/backend name. It is
// always reported before anything is typed.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Configf returns a ConfigError with a formatted message.
func Configf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// BackendUnavailableError reports that no backend could be activated,
// or that the selected one failed to open.
type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string { return "backend unavailable: " + e.Err.Error() }
func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// Tried lists the backends that were attempted, when known.
func (e *BackendUnavailableError) Tried() []backend.Attempt {
	var ue *backend.UnavailableError
	if errors.As(e.Err, &ue) {
		return ue.Tried
	}
	return nil
}

// KeystrokeFailure records one character that could not be typed. Only
// its position is kept; Err may describe the keys involved and must not
// be logged.
type KeystrokeFailure struct {
	Pos    int
	Reason string
	Err    error
}

func (f KeystrokeFailure) Error() string {
	return fmt.Sprintf("position %d: %s", f.Pos, f.Reason)
}

func (f KeystrokeFailure) Unwrap() error { return f.Err }

// KeystrokeFailuresError is returned by Report.Err when at least one
// character failed.
type KeystrokeFailuresError struct {
	Failures []KeystrokeFailure
}

func (e *KeystrokeFailuresError) Error() string {
	if len(e.Failures) == 1 {
		return "1 character failed to type (" + e.Failures[0].Error() + ")"
	}
	return fmt.Sprintf("%d characters failed to type", len(e.Failures))
}
