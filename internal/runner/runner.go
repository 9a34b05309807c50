// Package runner drives the CHIP-8 machine in real time and connects it to
// the host display and keyboard.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoStateFile is returned when saving or loading a snapshot without a
// configured state file.
var ErrNoStateFile = errors.New("no state file configured")

// Screen is the interactive host surface the runner renders to and receives
// key events from.
type Screen interface {
	display.Renderer
	ShowText(lines []string) error
	Events() <-chan display.Event
}

type state int

const (
	statePrep state = iota // start screen shown, waiting for the user to start
	stateLoop              // executing cycles
)

// Runner owns a machine and the program it runs.
type Runner struct {
	logger  *log.Logger
	opts    options.Program
	program []byte

	machine *chip8.Machine
	keys    *keypad.Map
	tracker *keypad.Tracker
	state   state
	trace   bool
}

// Option configures a Runner.
type Option func(*config)

type config struct {
	now            func() time.Time
	machineOptions []chip8.Option
}

// WithClock sets the time source used for key release tracking.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithMachineOptions passes options to the created machine.
func WithMachineOptions(opts ...chip8.Option) Option {
	return func(c *config) {
		c.machineOptions = append(c.machineOptions, opts...)
	}
}

// New creates a runner with a machine that has the program loaded.
func New(logger *log.Logger, opts options.Program, program []byte, runnerOptions ...Option) (*Runner, error) {
	var cfg config
	for _, opt := range runnerOptions {
		opt(&cfg)
	}

	keys, err := keypad.NewMap(opts.Keys)
	if err != nil {
		return nil, fmt.Errorf("creating keypad mapping: %w", err)
	}

	r := &Runner{
		logger:  logger,
		opts:    opts,
		program: program,
		machine: chip8.New(cfg.machineOptions...),
		keys:    keys,
		tracker: keypad.NewTracker(opts.KeyHold, cfg.now),
		trace:   opts.Debug,
	}
	if err := r.machine.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return r, nil
}

// Machine returns the machine driven by the runner.
func (r *Runner) Machine() *chip8.Machine {
	return r.machine
}

// Restart resets the machine and loads the program again.
func (r *Runner) Restart() error {
	r.machine.Reset()
	r.tracker.Reset()
	if err := r.machine.LoadProgram(r.program); err != nil {
		return fmt.Errorf("reloading program: %w", err)
	}
	r.logger.Debug("Machine restarted")
	return nil
}

// Run shows the start screen and then executes cycles at the configured speed
// until the context is cancelled, the user quits or the screen closes its
// event channel.
func (r *Runner) Run(ctx context.Context, screen Screen) error {
	interval, err := tickInterval(r.opts.Speed)
	if err != nil {
		return err
	}

	events := screen.Events()
	if err := screen.ShowText(HelpText(r.opts)); err != nil {
		return fmt.Errorf("showing start screen: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case evt, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := r.handleEvent(evt, screen)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case <-ticker.C:
			if r.state != stateLoop {
				continue
			}
			if err := r.Cycle(screen); err != nil {
				return err
			}
		}
	}
}

// tickInterval returns the ticker period for the given cycles per second.
// Speeds above one cycle per nanosecond are clamped to the shortest period.
func tickInterval(speed int) (time.Duration, error) {
	if speed <= 0 {
		return 0, fmt.Errorf("invalid speed %d", speed)
	}
	return max(time.Second/time.Duration(speed), time.Nanosecond), nil
}

// RunHeadless executes the given number of cycles without pacing and renders
// the final framebuffer.
func (r *Runner) RunHeadless(cycles int, renderer display.Renderer) error {
	for range cycles {
		r.step()
	}
	if err := renderer.Render(r.machine.Video()); err != nil {
		return fmt.Errorf("rendering screen: %w", err)
	}
	r.machine.ClearDrawFlag()
	return nil
}

// Cycle releases expired keys, executes one instruction and renders the
// framebuffer if it changed.
func (r *Runner) Cycle(renderer display.Renderer) error {
	r.step()

	if !r.machine.DrawFlag() {
		return nil
	}
	if err := renderer.Render(r.machine.Video()); err != nil {
		return fmt.Errorf("rendering screen: %w", err)
	}
	r.machine.ClearDrawFlag()
	return nil
}

func (r *Runner) step() {
	for _, key := range r.tracker.Expire() {
		r.machine.SetKey(key, false)
	}

	if r.trace {
		pc := r.machine.PC()
		word := uint16(r.machine.ReadMemory(pc))<<8 | uint16(r.machine.ReadMemory(pc+1))
		r.logger.Debug("Executing instruction",
			log.Hex("address", pc),
			log.String("code", disasm.Decode(pc, word).Code()))
	}

	if err := r.machine.Step(); err != nil {
		r.logDiagnostic(err)
	}
}

// logDiagnostic reports a non-fatal execution anomaly, the machine keeps running.
func (r *Runner) logDiagnostic(err error) {
	var diag *chip8.Diagnostic
	if !errors.As(err, &diag) {
		r.logger.Warn("Execution anomaly", log.Err(err))
		return
	}

	r.logger.Warn("Execution anomaly",
		log.String("context", diag.Family),
		log.Hex("opcode", diag.Opcode),
		log.Hex("address", diag.Address),
		log.Err(diag.Err))
}

func (r *Runner) handleEvent(evt display.Event, screen Screen) (bool, error) {
	switch evt.Action {
	case display.ActionQuit:
		return true, nil

	case display.ActionStart:
		if r.state == statePrep {
			r.state = stateLoop
			return false, r.renderCurrent(screen)
		}

	case display.ActionRestart:
		if err := r.Restart(); err != nil {
			return false, err
		}
		r.state = stateLoop
		return false, r.renderCurrent(screen)

	case display.ActionSave:
		if err := r.SaveState(); err != nil {
			r.logger.Warn("Saving snapshot failed", log.Err(err))
		}

	case display.ActionLoad:
		if err := r.LoadState(); err != nil {
			r.logger.Warn("Loading snapshot failed", log.Err(err))
		}

	case display.ActionKey:
		r.pressKey(evt.Ch)
	}
	return false, nil
}

func (r *Runner) renderCurrent(renderer display.Renderer) error {
	if err := renderer.Render(r.machine.Video()); err != nil {
		return fmt.Errorf("rendering screen: %w", err)
	}
	r.machine.ClearDrawFlag()
	return nil
}

func (r *Runner) pressKey(ch rune) {
	key, ok := r.keys.Key(ch)
	if !ok {
		return
	}
	r.tracker.Press(key)
	r.machine.SetKey(key, true)
}

// SaveState writes a snapshot of the machine to the state file.
func (r *Runner) SaveState() error {
	if r.opts.StateFile == "" {
		return ErrNoStateFile
	}

	data, err := chip8.MarshalSnapshot(r.machine.Snapshot())
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.opts.StateFile, data, 0o600); err != nil {
		return fmt.Errorf("writing state file %s: %w", r.opts.StateFile, err)
	}

	r.logger.Debug("Snapshot saved", log.String("file", r.opts.StateFile))
	return nil
}

// LoadState restores the machine from the snapshot in the state file.
func (r *Runner) LoadState() error {
	if r.opts.StateFile == "" {
		return ErrNoStateFile
	}

	data, err := os.ReadFile(r.opts.StateFile)
	if err != nil {
		return fmt.Errorf("reading state file %s: %w", r.opts.StateFile, err)
	}
	snapshot, err := chip8.UnmarshalSnapshot(data)
	if err != nil {
		return fmt.Errorf("decoding state file %s: %w", r.opts.StateFile, err)
	}
	if err := r.machine.Restore(snapshot); err != nil {
		return fmt.Errorf("restoring state file %s: %w", r.opts.StateFile, err)
	}

	r.logger.Debug("Snapshot loaded", log.String("file", r.opts.StateFile))
	return nil
}
