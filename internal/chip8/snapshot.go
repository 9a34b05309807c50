package chip8

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a serializable copy of the complete machine state.
type Snapshot struct {
	Memory     []byte   `cbor:"1,keyasint"`
	Registers  []byte   `cbor:"2,keyasint"`
	Index      uint16   `cbor:"3,keyasint"`
	PC         uint16   `cbor:"4,keyasint"`
	Stack      []uint16 `cbor:"5,keyasint"`
	SP         uint8    `cbor:"6,keyasint"`
	DelayTimer byte     `cbor:"7,keyasint"`
	SoundTimer byte     `cbor:"8,keyasint"`
	Video      []byte   `cbor:"9,keyasint"`
	Opcode     uint16   `cbor:"10,keyasint"`
}

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("chip8: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// Snapshot returns a copy of the machine state. The keypad state is not part of
// a snapshot as it is owned by the host input adapter.
func (m *Machine) Snapshot() *Snapshot {
	return &Snapshot{
		Memory:     append([]byte(nil), m.memory[:]...),
		Registers:  append([]byte(nil), m.registers[:]...),
		Index:      m.index,
		PC:         m.pc,
		Stack:      append([]uint16(nil), m.stack[:]...),
		SP:         m.sp,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
		Video:      append([]byte(nil), m.video[:]...),
		Opcode:     m.opcode,
	}
}

// Restore replaces the machine state with the snapshot content and sets the
// draw flag so that the host renders the restored framebuffer.
func (m *Machine) Restore(s *Snapshot) error {
	switch {
	case len(s.Memory) != MemorySize:
		return fmt.Errorf("%w: memory size %d", ErrInvalidSnapshot, len(s.Memory))
	case len(s.Registers) != RegisterCount:
		return fmt.Errorf("%w: register count %d", ErrInvalidSnapshot, len(s.Registers))
	case len(s.Stack) != StackSize:
		return fmt.Errorf("%w: stack size %d", ErrInvalidSnapshot, len(s.Stack))
	case int(s.SP) > StackSize:
		return fmt.Errorf("%w: stack pointer %d", ErrInvalidSnapshot, s.SP)
	case len(s.Video) != Width*Height:
		return fmt.Errorf("%w: video size %d", ErrInvalidSnapshot, len(s.Video))
	}

	copy(m.memory[:], s.Memory)
	copy(m.registers[:], s.Registers)
	m.index = s.Index
	m.pc = s.PC
	copy(m.stack[:], s.Stack)
	m.sp = s.SP
	m.delayTimer = s.DelayTimer
	m.soundTimer = s.SoundTimer
	copy(m.video[:], s.Video)
	m.opcode = s.Opcode
	m.drawFlag = true
	return nil
}

// MarshalSnapshot serializes a snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	data, err := snapshotEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot deserializes a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return &s, nil
}
