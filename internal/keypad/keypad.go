// Package keypad maps keyboard input to the 16 keys of the CHIP-8 hex keypad.
package keypad

import (
	"errors"
	"fmt"
	"time"
	"unicode"
)

// KeyCount is the number of keypad keys.
const KeyCount = 16

// ErrInvalidMapping is returned for keyboard mappings that do not cover every
// keypad key exactly once.
var ErrInvalidMapping = errors.New("invalid keypad mapping")

// Map translates keyboard characters to keypad keys.
type Map struct {
	keys map[rune]int
}

// NewMap returns a mapping where keys[i] is the keyboard character of keypad key i.
// Characters are matched case-insensitive.
func NewMap(keys []string) (*Map, error) {
	if len(keys) != KeyCount {
		return nil, fmt.Errorf("%w: expected %d keys, got %d", ErrInvalidMapping, KeyCount, len(keys))
	}

	m := &Map{
		keys: make(map[rune]int, KeyCount),
	}
	for i, key := range keys {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("%w: key %X is '%s'", ErrInvalidMapping, i, key)
		}

		ch := unicode.ToLower(runes[0])
		if _, ok := m.keys[ch]; ok {
			return nil, fmt.Errorf("%w: '%c' is mapped more than once", ErrInvalidMapping, ch)
		}
		m.keys[ch] = i
	}
	return m, nil
}

// Key returns the keypad key for a keyboard character.
func (m *Map) Key(ch rune) (int, bool) {
	key, ok := m.keys[unicode.ToLower(ch)]
	return key, ok
}

// Tracker derives key releases from a stream of key press events. Terminals only
// report key presses and auto repeats, so a key is considered released once no
// event for it arrived within the hold duration.
type Tracker struct {
	hold    time.Duration
	now     func() time.Time
	last    [KeyCount]time.Time
	pressed [KeyCount]bool
}

// NewTracker returns a tracker using the given hold duration. If now is nil,
// time.Now is used.
func NewTracker(hold time.Duration, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		hold: hold,
		now:  now,
	}
}

// Press records a key press event.
func (t *Tracker) Press(key int) {
	if key < 0 || key >= KeyCount {
		return
	}
	t.last[key] = t.now()
	t.pressed[key] = true
}

// Pressed returns whether the key is currently considered pressed.
func (t *Tracker) Pressed(key int) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return t.pressed[key]
}

// Expire releases all keys whose hold duration elapsed and returns them.
func (t *Tracker) Expire() []int {
	now := t.now()

	var released []int
	for key, pressed := range t.pressed {
		if pressed && now.Sub(t.last[key]) >= t.hold {
			t.pressed[key] = false
			released = append(released, key)
		}
	}
	return released
}

// Reset releases all keys without reporting them.
func (t *Tracker) Reset() {
	t.pressed = [KeyCount]bool{}
}
