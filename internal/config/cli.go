// Package config defines the root command line of autotyper.
package config

import (
	"github.com/Alia5/autotyper/internal/cmd"
	"github.com/Alia5/autotyper/internal/log"
)

// CLI is parsed by Kong. Flags can also come from environment variables
// and from JSON, YAML or TOML config files.
type CLI struct {
	Config string     `help:"Config file to load before the default locations" env:"AUTOTYPER_CONFIG" placeholder:"PATH"`
	Log    log.Config `embed:"" prefix:"log."`

	Type      cmd.Type          `cmd:"" default:"withargs" help:"Prompt for a secret and type it into the focused window (default)"`
	Layouts   cmd.Layouts       `cmd:"" help:"List built-in keyboard layouts"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Install   cmd.Install       `cmd:"" help:"Allow the input group to use /dev/uinput (Linux, needs root)"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the /dev/uinput access rule (Linux, needs root)"`
}
