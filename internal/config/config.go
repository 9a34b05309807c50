// Package config handles application configuration and setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// File represents the content of a TOML config file. Unset values keep
// the option defaults.
//
// Example:
//
//	speed = 600
//	color = "green"
//	rendering_char = "#"
//	key_hold_ms = 200
//	state_file = "pong.state"
//
//	[keypad]
//	keys = ["x", "1", "2", "3", "q", "w", "e", "a", "s", "d", "z", "c", "4", "r", "f", "v"]
type File struct {
	Speed         int    `toml:"speed"`
	Color         string `toml:"color"`
	RenderingChar string `toml:"rendering_char"`
	KeyHoldMs     int    `toml:"key_hold_ms"`
	StateFile     string `toml:"state_file"`
	Keypad        Keypad `toml:"keypad"`
}

// Keypad configures the keyboard keys of the 16 keypad keys.
type Keypad struct {
	Keys []string `toml:"keys"`
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Load parses the TOML config file at the given path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key '%s' in config file %s", undecoded[0], path)
	}
	return &f, nil
}

// Apply copies all values that are set in the config file to the options.
// Options whose command line flag was set explicitly are not changed.
func (f *File) Apply(opts *options.Program, explicit map[string]bool) {
	if f.Speed != 0 && !explicit["speed"] {
		opts.Speed = f.Speed
	}
	if f.Color != "" && !explicit["color"] {
		opts.Color = f.Color
	}
	if f.RenderingChar != "" && !explicit["char"] {
		opts.RenderingChar = f.RenderingChar
	}
	if f.KeyHoldMs != 0 && !explicit["hold"] {
		opts.KeyHold = time.Duration(f.KeyHoldMs) * time.Millisecond
	}
	if f.StateFile != "" && !explicit["state"] {
		opts.StateFile = f.StateFile
	}
	if len(f.Keypad.Keys) > 0 {
		opts.Keys = append([]string(nil), f.Keypad.Keys...)
	}
}

// errInvalidOption is wrapped by all option validation errors.
var errInvalidOption = errors.New("invalid option")

// Validate checks the emulation options for consistency.
func Validate(opts options.Emulation) error {
	if opts.Speed <= 0 {
		return fmt.Errorf("%w: speed must be a positive integer, got %d", errInvalidOption, opts.Speed)
	}
	if opts.Speed > options.MaxSpeed {
		return fmt.Errorf("%w: speed must not exceed %d, got %d", errInvalidOption, options.MaxSpeed, opts.Speed)
	}
	if !isValidColor(opts.Color) {
		return fmt.Errorf("%w: unsupported color '%s'", errInvalidOption, opts.Color)
	}
	if len([]rune(opts.RenderingChar)) != 1 {
		return fmt.Errorf("%w: rendering character must be a single character, got '%s'",
			errInvalidOption, opts.RenderingChar)
	}
	if opts.KeyHold <= 0 {
		return fmt.Errorf("%w: key hold duration must be positive, got %s", errInvalidOption, opts.KeyHold)
	}
	return validateKeys(opts.Keys)
}

func isValidColor(color string) bool {
	for _, valid := range options.Colors {
		if color == valid {
			return true
		}
	}
	return false
}

func validateKeys(keys []string) error {
	if _, err := keypad.NewMap(keys); err != nil {
		return fmt.Errorf("%w: %w", errInvalidOption, err)
	}
	return nil
}
