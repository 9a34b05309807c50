// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags, merges them with the optional config
// file and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ExitOnError)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}

	if opts.Config != "" {
		file, err := config.Load(opts.Config)
		if err != nil {
			return opts, err
		}
		file.Apply(&opts, explicitFlags(flags))
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <rom file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{
			msg: fmt.Sprintf("Only one ROM file can be run, got %d", len(args)),
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Color = strings.ToLower(opts.Color)
	for i, key := range opts.Keys {
		opts.Keys[i] = strings.ToLower(key)
	}

	if opts.Cycles < 0 {
		return fmt.Errorf("cycles must not be negative, got %d", opts.Cycles)
	}
	if opts.Disasm && opts.Cycles > 0 {
		return fmt.Errorf("options -disasm and -cycles can not be combined")
	}

	return config.Validate(opts.Emulation)
}

// explicitFlags returns the names of all flags that were set on the command line.
func explicitFlags(flags *flag.FlagSet) map[string]bool {
	explicit := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	return explicit
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "rom", "", "name of the ROM file to run")
	flags.StringVar(&opts.Config, "c", "", "name of the TOML config file to load")
	flags.StringVar(&opts.StateFile, "state", "", "file to save snapshots to with F5 and load them from with F9")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly of the ROM and exit")
	flags.IntVar(&opts.Cycles, "cycles", 0, "run the given number of cycles without a terminal and print the screen")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging and an instruction trace")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&opts.Speed, "speed", options.DefaultSpeed, "cycles executed per second")
	flags.StringVar(&opts.Color, "color", options.DefaultColor,
		"rendering color of set pixels ("+strings.Join(options.Colors, "/")+")")
	flags.StringVar(&opts.RenderingChar, "char", options.DefaultRenderingChar, "character that renders set pixels")
	flags.DurationVar(&opts.KeyHold, "hold", options.DefaultKeyHold,
		"duration a key stays pressed after its last key event")
}

