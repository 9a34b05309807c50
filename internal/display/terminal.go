package display

import (
	"fmt"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/chip8"
)

var colors = map[string]termbox.Attribute{
	"white":   termbox.ColorWhite,
	"red":     termbox.ColorRed,
	"green":   termbox.ColorGreen,
	"yellow":  termbox.ColorYellow,
	"blue":    termbox.ColorBlue,
	"magenta": termbox.ColorMagenta,
	"cyan":    termbox.ColorCyan,
}

// Terminal renders the framebuffer to the terminal and reports key events.
type Terminal struct {
	foreground termbox.Attribute
	on         rune

	pollEvent func() termbox.Event
	events    chan Event
	done      chan struct{} // closed when polling ended
	mu        sync.Mutex
	polling   bool
}

// NewTerminal initializes the terminal. Close must be called to restore it.
func NewTerminal(color string, on rune) (*Terminal, error) {
	foreground, ok := colors[color]
	if !ok {
		return nil, fmt.Errorf("unsupported color '%s'", color)
	}

	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)

	return newTerminal(foreground, on, termbox.PollEvent), nil
}

func newTerminal(foreground termbox.Attribute, on rune, pollEvent func() termbox.Event) *Terminal {
	return &Terminal{
		foreground: foreground,
		on:         on,
		pollEvent:  pollEvent,
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
}

// Render draws every set pixel as the rendering character.
func (t *Terminal) Render(video []byte) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("clearing terminal: %w", err)
	}

	for y := range chip8.Height {
		for x := range chip8.Width {
			if video[y*chip8.Width+x] == chip8.PixelOn {
				termbox.SetCell(x, y, t.on, t.foreground, termbox.ColorDefault)
			}
		}
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("flushing terminal: %w", err)
	}
	return nil
}

// ShowText clears the terminal and prints the lines.
func (t *Terminal) ShowText(lines []string) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("clearing terminal: %w", err)
	}

	for y, line := range lines {
		x := 0
		for _, ch := range line {
			termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
			x++
		}
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("flushing terminal: %w", err)
	}
	return nil
}

// Events returns the channel of translated key events. The terminal is polled
// in a goroutine that ends when the terminal is closed. Events are dropped while
// the channel buffer is full.
func (t *Terminal) Events() <-chan Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.polling {
		t.polling = true
		go t.poll()
	}
	return t.events
}

// poll must never block outside of pollEvent, Close relies on
// termbox.Interrupt reaching it. A terminal error ends polling with a quit event.
func (t *Terminal) poll() {
	defer close(t.done)
	defer close(t.events)

	for {
		evt := t.pollEvent()
		switch evt.Type {
		case termbox.EventInterrupt:
			return
		case termbox.EventError:
			t.send(Event{Action: ActionQuit})
			return
		case termbox.EventKey:
			if event, ok := translateEvent(evt); ok {
				t.send(event)
			}
		}
	}
}

func (t *Terminal) send(event Event) {
	select {
	case t.events <- event:
	default:
	}
}

// Close stops the event polling and restores the terminal.
func (t *Terminal) Close() {
	t.mu.Lock()
	polling := t.polling
	t.polling = false
	t.mu.Unlock()

	if polling {
		t.stopPolling()
	}
	termbox.Close()
}

// stopPolling interrupts the poll goroutine unless it already ended after an error.
func (t *Terminal) stopPolling() {
	select {
	case <-t.done:
		return
	default:
	}

	interrupted := make(chan struct{})
	go func() {
		termbox.Interrupt()
		close(interrupted)
	}()

	select {
	case <-t.done:
	case <-interrupted:
	}
}

// translateEvent maps a termbox key event to a host event.
func translateEvent(evt termbox.Event) (Event, bool) {
	switch evt.Key {
	case termbox.KeyEnter:
		return Event{Action: ActionStart}, true
	case termbox.KeyCtrlR:
		return Event{Action: ActionRestart}, true
	case termbox.KeyF5:
		return Event{Action: ActionSave}, true
	case termbox.KeyF9:
		return Event{Action: ActionLoad}, true
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return Event{Action: ActionQuit}, true
	}

	if evt.Ch == 0 {
		return Event{}, false
	}
	return Event{Action: ActionKey, Ch: evt.Ch}, true
}
