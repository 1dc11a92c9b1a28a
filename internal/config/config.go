// Package config defines the CLI structure and configuration for NetPad.
package config

import (
	"github.com/Alia5/NetPad/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"NETPAD_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"NETPAD_LOG_FILE"`
	RawFile string `help:"Raw frame log file path (default: none)" env:"NETPAD_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Config string `help:"Configuration file (JSON, YAML or TOML)" env:"NETPAD_CONFIG" type:"path"`
	Log    `embed:"" prefix:"log."`

	Send     cmd.Send     `cmd:"" help:"Stream controller state to a receiver"`
	Receive  cmd.Receive  `cmd:"" help:"Replay a sender's controller state into a virtual device"`
	Variants cmd.Variants `cmd:"" help:"List the frame variants"`
	Defaults cmd.Defaults `cmd:"" help:"Print a configuration file with the default settings"`
}
