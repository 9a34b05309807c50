package chip8

import (
	"fmt"
	"math/rand/v2"
)

// CHIP-8 machine layout constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where programs are loaded and execution starts.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into program memory.
	MaxProgramSize = MemorySize - ProgramStart

	// Width and Height are the framebuffer dimensions in pixels.
	Width  = 64
	Height = 32

	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, the register that receives carry, borrow,
	// shift and collision flags.
	FlagRegister = 0xF

	// StackSize is the number of return addresses the stack can hold.
	StackSize = 16

	// KeyCount is the number of keys of the hex keypad.
	KeyCount = 16

	// PixelOn and PixelOff are the only values a framebuffer pixel can hold.
	PixelOn  = 0xFF
	PixelOff = 0x00
)

// Machine contains the complete state of a CHIP-8 virtual machine.
// It is not safe for concurrent use, the host serializes Step calls with keypad
// updates and framebuffer reads.
type Machine struct {
	memory    [MemorySize]byte
	registers [RegisterCount]byte
	index     uint16
	pc        uint16

	stack [StackSize]uint16
	sp    uint8

	delayTimer byte
	soundTimer byte

	video    [Width * Height]byte
	keypad   [KeyCount]bool
	drawFlag bool

	opcode uint16

	random func() byte
}

// Option configures a Machine.
type Option func(*Machine)

// WithRandom sets the byte source used by the random instruction.
func WithRandom(fn func() byte) Option {
	return func(m *Machine) {
		m.random = fn
	}
}

// New returns a machine with cleared memory, the font table seeded and all
// registers reset.
func New(options ...Option) *Machine {
	m := &Machine{
		random: randomByte,
	}
	for _, opt := range options {
		opt(m)
	}
	m.Reset()
	return m
}

func randomByte() byte {
	return byte(rand.UintN(256))
}

// Reset zeroes the registers, timers, stack, framebuffer and keypad and sets the
// program counter to the program start. The font table is seeded again, any other
// memory content is kept.
func (m *Machine) Reset() {
	m.registers = [RegisterCount]byte{}
	m.index = 0
	m.pc = ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.delayTimer = 0
	m.soundTimer = 0
	m.video = [Width * Height]byte{}
	m.keypad = [KeyCount]bool{}
	m.drawFlag = false
	m.opcode = 0
	m.SeedFont()
}

// LoadProgram copies the program image into memory starting at ProgramStart.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the limit of %d bytes",
			ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.memory[ProgramStart:], program)
	return nil
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// Register returns the value of register Vn. Out of range indexes return 0.
func (m *Machine) Register(n int) byte {
	if n < 0 || n >= RegisterCount {
		return 0
	}
	return m.registers[n]
}

// Registers returns a copy of all general purpose registers.
func (m *Machine) Registers() [RegisterCount]byte {
	return m.registers
}

// StackPointer returns the number of used stack entries.
func (m *Machine) StackPointer() int {
	return int(m.sp)
}

// Opcode returns the most recently fetched instruction word.
func (m *Machine) Opcode() uint16 {
	return m.opcode
}

// DelayTimer returns the current value of the delay timer.
func (m *Machine) DelayTimer() byte {
	return m.delayTimer
}

// SoundTimer returns the current value of the sound timer.
func (m *Machine) SoundTimer() byte {
	return m.soundTimer
}

// ReadMemory returns the byte at the given address. Addresses outside of the
// memory return 0.
func (m *Machine) ReadMemory(address uint16) byte {
	if int(address) >= MemorySize {
		return 0
	}
	return m.memory[address]
}

// WriteMemory sets the byte at the given address. Writes outside of the memory
// are dropped.
func (m *Machine) WriteMemory(address uint16, value byte) {
	if int(address) >= MemorySize {
		return
	}
	m.memory[address] = value
}

// Video returns the framebuffer, one byte per pixel in row-major order.
// The returned slice aliases the machine state and must only be read between steps.
func (m *Machine) Video() []byte {
	return m.video[:]
}

// Pixel returns whether the pixel at the given coordinate is set.
func (m *Machine) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return m.video[y*Width+x] == PixelOn
}

// DrawFlag returns whether the framebuffer changed since the flag was last cleared.
func (m *Machine) DrawFlag() bool {
	return m.drawFlag
}

// ClearDrawFlag marks the framebuffer content as consumed.
func (m *Machine) ClearDrawFlag() {
	m.drawFlag = false
}

// SetKey sets the pressed state of a keypad key. Out of range keys are ignored.
func (m *Machine) SetKey(key int, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	m.keypad[key] = pressed
}

// Key returns whether a keypad key is pressed. Out of range keys are never pressed.
func (m *Machine) Key(key int) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return m.keypad[key]
}
