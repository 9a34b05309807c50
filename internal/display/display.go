// Package display renders the CHIP-8 framebuffer and provides host input events.
package display

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Renderer outputs a framebuffer of chip8.Width x chip8.Height pixels,
// one byte per pixel in row-major order.
type Renderer interface {
	Render(video []byte) error
}

// Action is a host command derived from a key event.
type Action int

// Host actions.
const (
	ActionKey     Action = iota // a character key, possibly mapped to the keypad
	ActionStart                 // leave the start screen
	ActionRestart               // reset the machine and reload the program
	ActionSave                  // save a machine snapshot
	ActionLoad                  // restore a machine snapshot
	ActionQuit                  // stop the emulation
)

// Event is a key event translated to a host action.
type Event struct {
	Action Action
	Ch     rune // character for ActionKey
}

// Text renders the framebuffer as lines of characters.
type Text struct {
	writer io.Writer
	on     rune
}

// NewText returns a text renderer that uses the given character for set pixels
// and a space for cleared pixels.
func NewText(writer io.Writer, on rune) *Text {
	return &Text{
		writer: writer,
		on:     on,
	}
}

// Render writes one line per framebuffer row.
func (t *Text) Render(video []byte) error {
	if len(video) != chip8.Width*chip8.Height {
		return fmt.Errorf("unexpected framebuffer size %d", len(video))
	}

	buf := bufio.NewWriter(t.writer)
	for y := range chip8.Height {
		for x := range chip8.Width {
			ch := ' '
			if video[y*chip8.Width+x] == chip8.PixelOn {
				ch = t.on
			}
			if _, err := buf.WriteRune(ch); err != nil {
				return fmt.Errorf("writing pixel: %w", err)
			}
		}
		if err := buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing line end: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
