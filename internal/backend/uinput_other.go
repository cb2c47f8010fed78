//go:build !linux

package backend

import "errors"

var errUInputPlatform = errors.New("uinput is only available on Linux")

func probeUInput(string) error { return errUInputPlatform }

func createUInput(string, string) (keyDevice, error) { return nil, errUInputPlatform }
