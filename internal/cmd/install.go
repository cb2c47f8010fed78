package cmd

import "log/slog"

// Install grants the input group access to /dev/uinput.
type Install struct{}

func (i *Install) Run(logger *slog.Logger) error {
	return install(logger)
}

// Uninstall removes what Install wrote.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}
