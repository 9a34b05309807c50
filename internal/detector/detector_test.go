package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name         string
		inputFile    string
		wantSystem   arch.System
		wantMismatch bool
	}{
		{
			name:       "detect from .ch8 extension",
			inputFile:  "pong.ch8",
			wantSystem: arch.CHIP8System,
		},
		{
			name:       "detect from .c8 extension",
			inputFile:  "roms/PONG.C8",
			wantSystem: arch.CHIP8System,
		},
		{
			name:         "detect from .nes extension",
			inputFile:    "game.nes",
			wantSystem:   arch.NES,
			wantMismatch: true,
		},
		{
			name:       "unknown extension",
			inputFile:  "game.bin",
			wantSystem: "",
		},
		{
			name:       "no extension",
			inputFile:  "PONG",
			wantSystem: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSystem, d.Detect(tt.inputFile))
			assert.Equal(t, tt.wantMismatch, d.Mismatch(tt.inputFile))
		})
	}
}
