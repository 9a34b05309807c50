package chip8

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStep_FetchAdvancesProgramCounter(t *testing.T) {
	m := newMachine(t, 0x6012)
	step(t, m, 1)

	assert.Equal(t, uint16(ProgramStart+2), m.PC())
	assert.Equal(t, uint16(0x6012), m.Opcode())
}

func TestStep_EndToEndAddImm(t *testing.T) {
	m := newMachine(t,
		0x6005, // set V0, 5
		0x70FA, // add V0, 250
	)
	step(t, m, 2)

	assert.Equal(t, byte(255), m.Register(0))
	assert.Equal(t, byte(0), m.Register(FlagRegister))
}

func TestStep_AddImmWrapsWithoutFlag(t *testing.T) {
	m := newMachine(t, 0x6FAA, 0x60FF, 0x7002)
	step(t, m, 3)

	assert.Equal(t, byte(1), m.Register(0))
	assert.Equal(t, byte(0xAA), m.Register(FlagRegister), "add-imm must not touch VF")
}

func TestStep_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		x, y   byte
		op     uint16
		result byte
		flag   byte
	}{
		{"set", 0x12, 0x34, 0x8010, 0x34, 0xEE},
		{"or", 0xF0, 0x0F, 0x8011, 0xFF, 0xEE},
		{"and", 0xF3, 0x3F, 0x8012, 0x33, 0xEE},
		{"xor", 0xFF, 0x0F, 0x8013, 0xF0, 0xEE},
		{"add without carry", 100, 155, 0x8014, 255, 0},
		{"add with carry", 200, 56, 0x8014, 0, 1},
		{"add with carry wraps", 0xFF, 0xFF, 0x8014, 0xFE, 1},
		{"sub without borrow", 10, 3, 0x8015, 7, 1},
		{"sub with borrow", 3, 10, 0x8015, 249, 0},
		{"sub equal values", 5, 5, 0x8015, 0, 0},
		{"shift right odd", 0x05, 0, 0x8016, 0x02, 1},
		{"shift right even", 0x04, 0, 0x8016, 0x02, 0},
		{"subn without borrow", 3, 10, 0x8017, 7, 1},
		{"subn with borrow", 10, 3, 0x8017, 249, 0},
		{"subn equal values", 5, 5, 0x8017, 0, 0},
		{"shift left high bit", 0x81, 0, 0x801E, 0x02, 1},
		{"shift left no high bit", 0x41, 0, 0x801E, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t,
				0x6000|uint16(tt.x),
				0x6100|uint16(tt.y),
				0x6FEE,
				tt.op,
			)
			step(t, m, 4)

			assert.Equal(t, tt.result, m.Register(0))
			assert.Equal(t, tt.y, m.Register(1))
			assert.Equal(t, tt.flag, m.Register(FlagRegister))
		})
	}
}

func TestStep_FlagRegisterAsOperand(t *testing.T) {
	tests := []struct {
		name string
		vf   byte
		v1   byte
		op   uint16
		flag byte
	}{
		{"add with carry", 0xF0, 0x20, 0x8F14, 1},
		{"add without carry", 0x10, 0x20, 0x8F14, 0},
		{"sub without borrow", 0x20, 0x10, 0x8F15, 1},
		{"sub with borrow", 0x10, 0x20, 0x8F15, 0},
		{"shift right", 0x03, 0, 0x8F06, 1},
		{"subn without borrow", 0x10, 0x20, 0x8F17, 1},
		{"shift left", 0x80, 0, 0x8F0E, 1},
		{"shift left clear", 0x40, 0, 0x8F0E, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t,
				0x6F00|uint16(tt.vf),
				0x6100|uint16(tt.v1),
				tt.op,
			)
			step(t, m, 3)

			assert.Equal(t, tt.flag, m.Register(FlagRegister))
		})
	}
}

func TestStep_Skips(t *testing.T) {
	tests := []struct {
		name    string
		op      uint16
		skipped bool
	}{
		{"skip-eq-imm taken", 0x3005, true},
		{"skip-eq-imm not taken", 0x3006, false},
		{"skip-ne-imm taken", 0x4006, true},
		{"skip-ne-imm not taken", 0x4005, false},
		{"skip-eq-reg taken", 0x5010, true},
		{"skip-eq-reg not taken", 0x5020, false},
		{"skip-ne-reg taken", 0x9020, true},
		{"skip-ne-reg not taken", 0x9010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t,
				0x6005, // V0 = 5
				0x6105, // V1 = 5
				0x6207, // V2 = 7
				tt.op,
			)
			step(t, m, 4)

			expected := uint16(ProgramStart + 8)
			if tt.skipped {
				expected += 2
			}
			assert.Equal(t, expected, m.PC())
		})
	}
}

func TestStep_JumpAndCall(t *testing.T) {
	m := newMachine(t,
		0x1206, // jump $206
		0x0000,
		0x0000,
		0x220A, // call $20A
		0x0000,
		0x00EE, // return
	)

	step(t, m, 1)
	assert.Equal(t, uint16(0x206), m.PC())

	step(t, m, 1)
	assert.Equal(t, uint16(0x20A), m.PC())
	assert.Equal(t, 1, m.StackPointer())

	step(t, m, 1)
	assert.Equal(t, uint16(0x208), m.PC())
	assert.Equal(t, 0, m.StackPointer())
}

func TestStep_JumpOffset(t *testing.T) {
	m := newMachine(t, 0x6010, 0xB300)
	step(t, m, 2)

	assert.Equal(t, uint16(0x310), m.PC())
}

func TestStep_StackOverflow(t *testing.T) {
	// every call targets the call itself, so each step nests one level deeper
	m := newMachine(t, 0x2200)
	step(t, m, StackSize)
	assert.Equal(t, StackSize, m.StackPointer())

	err := m.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, m.StackPointer())
	assert.Equal(t, uint16(ProgramStart+2), m.PC(), "failed call must not jump")

	var diag *Diagnostic
	assert.True(t, errors.As(err, &diag))
	assert.Equal(t, uint16(0x2200), diag.Opcode)
	assert.Equal(t, uint16(ProgramStart), diag.Address)
}

func TestStep_StackUnderflow(t *testing.T) {
	m := newMachine(t, 0x00EE, 0x6001)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, m.StackPointer())
	assert.Equal(t, uint16(ProgramStart+2), m.PC())

	step(t, m, 1)
	assert.Equal(t, byte(1), m.Register(0))
}

func TestStep_UnknownOpcode(t *testing.T) {
	m := newMachine(t, 0x6A07, 0xFA15, 0x8AB9)
	step(t, m, 2)
	before := m.Registers()

	err := m.Step()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, uint16(ProgramStart+6), m.PC())
	assert.Equal(t, before, m.Registers())
	assert.Equal(t, byte(5), m.DelayTimer(), "timer ticks on every cycle")
	assert.ErrorContains(t, err, "[0x8000]: 0x8ab9")
}

func TestStep_MachineCodeRoutine(t *testing.T) {
	m := newMachine(t, 0x0123)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMachineCodeRoutine))
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
}

func TestStep_SystemFamilyLowNibble(t *testing.T) {
	tests := []struct {
		name string
		word uint16
	}{
		{"zero word", 0x0000},
		{"low nibble 0", 0x0010},
		{"high byte set", 0x00F0},
	}

	for _, tt := range tests {
		t.Run("clear display "+tt.name, func(t *testing.T) {
			m := newMachine(t, tt.word)
			m.video[0] = PixelOn

			step(t, m, 1)
			assert.Equal(t, byte(PixelOff), m.video[0])
			assert.True(t, m.DrawFlag())
			assert.Equal(t, uint16(ProgramStart+2), m.PC())
		})
	}

	for _, word := range []uint16{0x001E, 0x00FE} {
		t.Run(fmt.Sprintf("return 0x%04X", word), func(t *testing.T) {
			m := newMachine(t,
				0x2204, // call $204
				0x0000,
				word,
			)
			step(t, m, 1)
			assert.Equal(t, 1, m.StackPointer())

			step(t, m, 1)
			assert.Equal(t, 0, m.StackPointer())
			assert.Equal(t, uint16(0x202), m.PC())
		})
	}
}

func TestStep_SetIndexAndAddIndex(t *testing.T) {
	tests := []struct {
		name  string
		index uint16
		value byte
		want  uint16
		flag  byte
	}{
		{"inside address space", 0x300, 0x10, 0x310, 0},
		{"reaches last address", 0xFF0, 0x0F, 0xFFF, 0},
		{"exceeds address space", 0xFF0, 0x10, 0x1000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t,
				0xA000|tt.index,
				0x6300|uint16(tt.value),
				0xF31E,
			)
			step(t, m, 3)

			assert.Equal(t, tt.want, m.Index())
			assert.Equal(t, tt.flag, m.Register(FlagRegister))
		})
	}
}

func TestStep_RandAnd(t *testing.T) {
	m := New(WithRandom(func() byte { return 0xA5 }))
	assert.NoError(t, m.LoadProgram([]byte{0xC4, 0x0F}))
	step(t, m, 1)

	assert.Equal(t, byte(0x05), m.Register(4))
}

func TestStep_Keys(t *testing.T) {
	tests := []struct {
		name    string
		op      uint16
		pressed bool
		skipped bool
	}{
		{"skip-key-pressed with key down", 0xE59E, true, true},
		{"skip-key-pressed with key up", 0xE59E, false, false},
		{"skip-key-not-pressed with key down", 0xE5A1, true, false},
		{"skip-key-not-pressed with key up", 0xE5A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, 0x650B, tt.op)
			m.SetKey(0xB, tt.pressed)
			step(t, m, 2)

			expected := uint16(ProgramStart + 4)
			if tt.skipped {
				expected += 2
			}
			assert.Equal(t, expected, m.PC())
		})
	}
}

func TestStep_KeyOutOfRange(t *testing.T) {
	m := newMachine(t, 0x6520, 0xE5A1)
	step(t, m, 2)

	assert.Equal(t, uint16(ProgramStart+6), m.PC(), "keys beyond F are never pressed")
}

func TestStep_WaitKey(t *testing.T) {
	m := newMachine(t, 0xF30A, 0x6001)

	step(t, m, 1)
	assert.Equal(t, uint16(ProgramStart), m.PC())
	step(t, m, 1)
	assert.Equal(t, uint16(ProgramStart), m.PC())

	m.SetKey(0xC, true)
	m.SetKey(0x7, true)
	step(t, m, 1)
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
	assert.Equal(t, byte(0x7), m.Register(3), "lowest pressed key wins")
}

func TestStep_DelayTimer(t *testing.T) {
	m := newMachine(t,
		0x6003, // V0 = 3
		0xF015, // delay = V0
		0xF107, // V1 = delay
		0x1206, // loop
	)

	step(t, m, 2)
	assert.Equal(t, byte(2), m.DelayTimer(), "set then decremented in the same cycle")

	step(t, m, 1)
	assert.Equal(t, byte(2), m.Register(1))
	assert.Equal(t, byte(1), m.DelayTimer())

	step(t, m, 5)
	assert.Equal(t, byte(0), m.DelayTimer())
}

func TestStep_SoundTimer(t *testing.T) {
	m := newMachine(t, 0x6004, 0xF018)
	step(t, m, 2)

	assert.Equal(t, byte(3), m.SoundTimer())
}

func TestStep_FontChar(t *testing.T) {
	m := newMachine(t, 0x620A, 0xF229)
	step(t, m, 2)

	assert.Equal(t, uint16(FontStart+5*0xA), m.Index())
	assert.Equal(t, byte(0xF0), m.ReadMemory(m.Index()))
}

func TestStep_BCD(t *testing.T) {
	tests := []struct {
		value byte
		want  [3]byte
	}{
		{255, [3]byte{2, 5, 5}},
		{128, [3]byte{1, 2, 8}},
		{42, [3]byte{0, 4, 2}},
		{7, [3]byte{0, 0, 7}},
		{0, [3]byte{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("value %d", tt.value), func(t *testing.T) {
			m := newMachine(t, 0xA300, 0x6700|uint16(tt.value), 0xF733)
			step(t, m, 3)

			for i, digit := range tt.want {
				assert.Equal(t, digit, m.ReadMemory(uint16(0x300+i)))
			}
			assert.Equal(t, uint16(0x300), m.Index())
		})
	}
}

func TestStep_RegDumpAndLoad(t *testing.T) {
	m := newMachine(t,
		0x6011, // V0 = $11
		0x6122, // V1 = $22
		0x6233, // V2 = $33
		0x6344, // V3 = $44
		0xA400, // I = $400
		0xF255, // dump V0-V2
	)
	step(t, m, 6)

	assert.Equal(t, byte(0x11), m.ReadMemory(0x400))
	assert.Equal(t, byte(0x22), m.ReadMemory(0x401))
	assert.Equal(t, byte(0x33), m.ReadMemory(0x402))
	assert.Equal(t, byte(0x00), m.ReadMemory(0x403), "registers past X are not written")
	assert.Equal(t, uint16(0x403), m.Index())

	m2 := newMachine(t, 0xA400, 0xF165)
	m2.WriteMemory(0x400, 0xAB)
	m2.WriteMemory(0x401, 0xCD)
	m2.WriteMemory(0x402, 0xEF)
	step(t, m2, 2)

	assert.Equal(t, byte(0xAB), m2.Register(0))
	assert.Equal(t, byte(0xCD), m2.Register(1))
	assert.Equal(t, byte(0x00), m2.Register(2))
	assert.Equal(t, uint16(0x402), m2.Index())
}

func TestStep_RegDumpPastMemoryEnd(t *testing.T) {
	m := newMachine(t, 0x60AA, 0xAFFE, 0xFF55)
	step(t, m, 3)

	assert.Equal(t, byte(0xAA), m.ReadMemory(0xFFE))
	assert.Equal(t, uint16(0xFFE+16), m.Index())
}

func TestStep_FetchPastMemoryEnd(t *testing.T) {
	// V0 = $FF, jump to $F01 + V0 = $1000
	m := newMachine(t, 0x60FF, 0xBF01)
	step(t, m, 2)
	assert.Equal(t, uint16(0x1000), m.PC())

	// memory past the end reads as 0x0000, which decodes as clear display
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0), m.Opcode())
	assert.Equal(t, uint16(0x1002), m.PC())
	assert.True(t, m.DrawFlag())
}
