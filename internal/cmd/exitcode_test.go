package cmd_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Alia5/autotyper/internal/backend"
	"github.com/Alia5/autotyper/internal/cmd"
	"github.com/Alia5/autotyper/internal/typer"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	type testCase struct {
		name     string
		err      error
		expected int
	}

	testCases := []testCase{
		{name: "success", err: nil, expected: cmd.ExitOK},
		{name: "config", err: typer.Configf("bad"), expected: cmd.ExitConfig},
		{name: "wrapped config", err: fmt.Errorf("load: %w", typer.Configf("bad")), expected: cmd.ExitConfig},
		{name: "backend", err: &typer.BackendUnavailableError{Err: &backend.UnavailableError{}}, expected: cmd.ExitBackend},
		{name: "keystrokes", err: typer.Report{Failed: 1, Failures: []typer.KeystrokeFailure{{Pos: 3}}}.Err(), expected: cmd.ExitKeystrokes},
		{name: "other", err: errors.New("boom"), expected: cmd.ExitUnexpected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cmd.ExitCode(tc.err))
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := map[int]bool{}
	for _, c := range []int{cmd.ExitOK, cmd.ExitUnexpected, cmd.ExitConfig, cmd.ExitBackend, cmd.ExitKeystrokes} {
		assert.False(t, codes[c], "duplicate exit code %d", c)
		codes[c] = true
	}
}
