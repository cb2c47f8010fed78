//go:build linux

package backend

import (
	"fmt"
	"os"

	"github.com/bendahl/uinput"
	"golang.org/x/sys/unix"
)

func probeUInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s is missing, load the uinput module (sudo modprobe uinput): %w", path, err)
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Errorf("no write access to %s, run `autotyper install` or use sudo: %w", path, err)
	}
	return nil
}

func createUInput(path, name string) (keyDevice, error) {
	kb, err := uinput.CreateKeyboard(path, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard on %s: %w", path, err)
	}
	return kb, nil
}
