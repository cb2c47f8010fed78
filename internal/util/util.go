//go:build !windows

package util

// IsRunFromGUI reports whether the process was started by double-clicking
// it. Only Windows can tell; elsewhere it is always false.
func IsRunFromGUI() bool { return false }

// PauseIfRunFromGUI keeps a double-clicked console window open so the
// result can be read. It does nothing outside Windows.
func PauseIfRunFromGUI() {}
