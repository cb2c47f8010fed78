//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	udevRulePath    = "/etc/udev/rules.d/60-autotyper-uinput.rules"
	modulesLoadPath = "/etc/modules-load.d/autotyper.conf"
)

const udevRule = `# Installed by autotyper: lets members of the input group create virtual keyboards.
KERNEL=="uinput", SUBSYSTEM=="misc", GROUP="input", MODE="0660", OPTIONS+="static_node=uinput"
`

func install(logger *slog.Logger) error {
	if err := os.WriteFile(udevRulePath, []byte(udevRule), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(modulesLoadPath, []byte("uinput\n"), 0o644); err != nil {
		return err
	}

	steps := [][]string{
		{"modprobe", "uinput"},
		{"udevadm", "control", "--reload-rules"},
		{"udevadm", "trigger", "--subsystem-match=misc", "--sysname-match=uinput"},
	}
	for _, args := range steps {
		if err := run(args[0], args[1:]...); err != nil {
			return err
		}
	}

	logger.Info("uinput access rule installed", "rule", udevRulePath)
	if user := os.Getenv("SUDO_USER"); user != "" {
		logger.Info("Add the user to the input group and log in again", "command", "usermod -aG input "+user)
	} else {
		logger.Info("Add your user to the input group and log in again", "command", "usermod -aG input <user>")
	}
	return nil
}

func uninstall(logger *slog.Logger) error {
	var errs []error

	for _, p := range []string{udevRulePath, modulesLoadPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if err := run("udevadm", "control", "--reload-rules"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Info("uinput access rule removed", "rule", udevRulePath)
	return nil
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
