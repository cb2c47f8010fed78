//go:build !cgo

package backend

func defaultAutomationDriver() automationDriver { return nil }
