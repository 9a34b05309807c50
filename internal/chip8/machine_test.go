package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// newMachine returns a machine with the given instruction words loaded at the program start.
func newMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()

	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}

	m := New(WithRandom(func() byte { return 0xFF }))
	assert.NoError(t, m.LoadProgram(program))
	return m
}

// step executes n cycles and fails the test on any diagnostic.
func step(t *testing.T, m *Machine, n int) {
	t.Helper()
	for range n {
		assert.NoError(t, m.Step())
	}
}

func TestNew(t *testing.T) {
	m := New()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.Index())
	assert.Equal(t, 0, m.StackPointer())
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.False(t, m.DrawFlag())
	assert.Equal(t, byte(0xF0), m.ReadMemory(FontStart))
	assert.Equal(t, byte(0x80), m.ReadMemory(uint16(FontStart+len(font)-1)))
}

func TestMachine_Reset(t *testing.T) {
	m := newMachine(t, 0x6A42, 0xA123, 0x2300)
	step(t, m, 3)
	m.SetKey(3, true)
	m.WriteMemory(FontStart, 0x00)

	m.Reset()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, byte(0), m.Register(0xA))
	assert.Equal(t, uint16(0), m.Index())
	assert.Equal(t, 0, m.StackPointer())
	assert.False(t, m.Key(3))
	assert.Equal(t, uint16(0), m.Opcode())
	assert.Equal(t, byte(0xF0), m.ReadMemory(FontStart), "font table must be seeded again")
	assert.Equal(t, byte(0x6A), m.ReadMemory(ProgramStart), "program memory must be kept")
}

func TestMachine_SeedFont(t *testing.T) {
	m := New()
	m.SeedFont()
	m.SeedFont()

	for i, b := range font {
		assert.Equal(t, b, m.ReadMemory(uint16(FontStart+i)))
	}
	assert.Equal(t, byte(0), m.ReadMemory(FontStart-1))
	assert.Equal(t, byte(0), m.ReadMemory(uint16(FontStart+len(font))))
}

func TestMachine_LoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty program", 0, false},
		{"small program", 4, false},
		{"maximum size", MaxProgramSize, false},
		{"one byte too large", MaxProgramSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := make([]byte, tt.size)
			for i := range program {
				program[i] = byte(i + 1)
			}

			m := New()
			err := m.LoadProgram(program)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrProgramTooLarge))
				assert.Equal(t, byte(0), m.ReadMemory(ProgramStart))
				return
			}

			assert.NoError(t, err)
			if tt.size > 0 {
				assert.Equal(t, byte(1), m.ReadMemory(ProgramStart))
				assert.Equal(t, byte(tt.size), m.ReadMemory(uint16(ProgramStart+tt.size-1)))
			}
		})
	}
}

func TestMachine_MemoryBounds(t *testing.T) {
	m := New()

	m.WriteMemory(MemorySize, 0x12)
	assert.Equal(t, byte(0), m.ReadMemory(MemorySize))
	assert.Equal(t, byte(0), m.ReadMemory(0xFFFF))

	m.WriteMemory(MemorySize-1, 0x34)
	assert.Equal(t, byte(0x34), m.ReadMemory(MemorySize-1))
}

func TestMachine_Keypad(t *testing.T) {
	m := New()

	m.SetKey(0xF, true)
	assert.True(t, m.Key(0xF))

	m.SetKey(0xF, false)
	assert.False(t, m.Key(0xF))

	m.SetKey(KeyCount, true)
	assert.False(t, m.Key(KeyCount))
	assert.False(t, m.Key(-1))
}

func TestMachine_DrawFlag(t *testing.T) {
	m := newMachine(t, 0x00E0)
	step(t, m, 1)

	assert.True(t, m.DrawFlag())
	m.ClearDrawFlag()
	assert.False(t, m.DrawFlag())
}

func TestMachine_Registers(t *testing.T) {
	m := newMachine(t, 0x6001, 0x6F02)
	step(t, m, 2)

	regs := m.Registers()
	assert.Equal(t, byte(1), regs[0])
	assert.Equal(t, byte(2), regs[FlagRegister])

	regs[0] = 9
	assert.Equal(t, byte(1), m.Register(0), "registers must be returned as copy")
	assert.Equal(t, byte(0), m.Register(RegisterCount))
}
