//go:build cgo

package backend

import "github.com/go-vgo/robotgo"

type robotgoDriver struct{}

func (robotgoDriver) TypeStr(s string) { robotgo.TypeStr(s) }

func (robotgoDriver) KeyTap(key string, mods []string) error {
	args := make([]any, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func defaultAutomationDriver() automationDriver { return robotgoDriver{} }
