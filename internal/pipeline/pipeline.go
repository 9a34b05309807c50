// Package pipeline orchestrates loading a ROM and running it in the selected mode.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Screen is an interactive screen that has to be released after use.
type Screen interface {
	runner.Screen
	Close()
}

// ScreenFactory creates the interactive screen for the given options.
type ScreenFactory func(opts options.Program) (Screen, error)

// Pipeline orchestrates the complete workflow from ROM file to output.
type Pipeline struct {
	logger    *log.Logger
	detector  *detector.Detector
	loader    *loader.Loader
	newScreen ScreenFactory
}

// New creates a new pipeline that uses the terminal for interactive runs.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:    logger,
		detector:  detector.New(logger),
		loader:    loader.New(),
		newScreen: newTerminal,
	}
}

// Execute loads the ROM and disassembles it, runs it headless or runs it
// interactively, depending on the options. Text output of the disassembler
// and headless mode is written to writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) error {
	if p.detector.Mismatch(opts.Input) {
		p.logger.Warn("File extension indicates a ROM of a different system", log.String("file", opts.Input))
	}

	program, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	p.printInfo(opts, program)

	if opts.Disasm {
		if err := disasm.Write(writer, program, chip8.ProgramStart); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}
		return nil
	}

	r, err := runner.New(p.logger, opts, program)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	if opts.Cycles > 0 {
		if err := r.RunHeadless(opts.Cycles, display.NewText(writer, renderingRune(opts))); err != nil {
			return fmt.Errorf("running headless: %w", err)
		}
		return nil
	}

	screen, err := p.newScreen(opts)
	if err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Close()

	return r.Run(ctx, screen)
}

func (p *Pipeline) printInfo(opts options.Program, program []byte) {
	if opts.Quiet {
		return
	}

	mode := "interactive"
	switch {
	case opts.Disasm:
		mode = "disassembly"
	case opts.Cycles > 0:
		mode = "headless"
	}

	p.logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("mode", mode),
	)
}

func newTerminal(opts options.Program) (Screen, error) {
	terminal, err := display.NewTerminal(opts.Color, renderingRune(opts))
	if err != nil {
		return nil, fmt.Errorf("creating terminal: %w", err)
	}
	return terminal, nil
}

// renderingRune returns the first character of the rendering option.
func renderingRune(opts options.Program) rune {
	for _, r := range opts.RenderingChar {
		return r
	}
	return []rune(options.DefaultRenderingChar)[0]
}
