//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errInstallPlatform = errors.New("install only applies to Linux; other platforms need no setup")

func install(*slog.Logger) error { return errInstallPlatform }

func uninstall(*slog.Logger) error { return errInstallPlatform }
