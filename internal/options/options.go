// Package options contains the program options.
package options

import "time"

// Default option values.
const (
	DefaultSpeed         = 450 // cycles per second
	MaxSpeed             = 1_000_000
	DefaultColor         = "white"
	DefaultRenderingChar = "█"
	DefaultKeyHold       = 150 * time.Millisecond
)

// Parameters contains file path options.
type Parameters struct {
	Input     string `flag:"rom" usage:"ROM file to run"`
	Config    string `flag:"c" usage:"TOML config file"`
	StateFile string `flag:"state" usage:"file to save and load machine snapshots (F5/F9)"`
}

// Flags contains behavior options.
type Flags struct {
	Disasm bool `flag:"disasm" usage:"print a disassembly of the ROM and exit"`
	Cycles int  `flag:"cycles" usage:"run headless for the given number of cycles and print the screen"`
	Debug  bool `flag:"debug" usage:"enable debug logging including an instruction trace"`
	Quiet  bool `flag:"q" usage:"quiet mode"`
}

// Emulation contains options that control the machine host.
type Emulation struct {
	Speed         int           `flag:"speed" usage:"cycles executed per second"`
	Color         string        `flag:"color" usage:"rendering color: white, red, green, yellow, blue, magenta, cyan"`
	RenderingChar string        `flag:"char" usage:"character used to render set pixels"`
	KeyHold       time.Duration `flag:"hold" usage:"duration a key stays pressed after its last key event"`
	Keys          []string      // keypad key for each of the 16 hex keys
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	Emulation
}

// DefaultKeys is the 4x4 keyboard grid mapped to the keypad keys 0-F.
var DefaultKeys = []string{
	"1", "2", "3", "4",
	"q", "w", "e", "r",
	"a", "s", "d", "f",
	"z", "x", "c", "v",
}

// New returns program options with default values.
func New() Program {
	return Program{
		Emulation: Emulation{
			Speed:         DefaultSpeed,
			Color:         DefaultColor,
			RenderingChar: DefaultRenderingChar,
			KeyHold:       DefaultKeyHold,
			Keys:          append([]string(nil), DefaultKeys...),
		},
	}
}

// Colors lists the supported rendering colors.
var Colors = []string{"white", "red", "green", "yellow", "blue", "magenta", "cyan"}
