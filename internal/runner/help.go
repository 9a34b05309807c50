package runner

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
)

// HelpText returns the lines of the start screen, including the keypad layout
// of the configured keys.
func HelpText(opts options.Program) []string {
	lines := []string{
		"ROM loaded, ready.",
		"",
		"Press [ENTER] to START the emulation.",
		"Press [CTRL] + [R] to RESTART the emulation.",
	}
	if opts.StateFile != "" {
		lines = append(lines, fmt.Sprintf("Press [F5] to save and [F9] to load a snapshot (%s).", opts.StateFile))
	}
	lines = append(lines,
		"Press [ESC] to QUIT.",
		"",
		fmt.Sprintf("The display needs a terminal of at least %dx%d characters.", chip8.Width, chip8.Height),
		"",
		"controls:",
	)
	return append(lines, keyGrid(opts.Keys)...)
}

// keyGrid formats the keys as 4 rows of 4 keys.
func keyGrid(keys []string) []string {
	const columns = 4

	var rows []string
	for start := 0; start < len(keys); start += columns {
		end := min(start+columns, len(keys))
		cells := make([]string, 0, columns)
		for _, key := range keys[start:end] {
			cells = append(cells, fmt.Sprintf("[ %s ]", strings.ToUpper(key)))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return rows
}
