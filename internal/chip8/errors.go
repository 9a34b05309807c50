package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a program image does not fit into program memory.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrUnknownOpcode is reported for instruction words that match no instruction.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrStackOverflow is reported for a call while all stack entries are in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is reported for a return while the stack is empty.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMachineCodeRoutine is reported for calls to native machine code routines,
	// which are not supported by this interpreter.
	ErrMachineCodeRoutine = errors.New("machine code routine not supported")
	// ErrInvalidSnapshot is returned when a snapshot does not describe a valid machine state.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Diagnostic describes a non-fatal anomaly that occurred while executing an instruction.
// The machine keeps running, the host decides whether to log, halt or reset.
type Diagnostic struct {
	Err     error  // one of the sentinel errors of this package
	Opcode  uint16 // instruction word that caused the anomaly
	Address uint16 // address the instruction word was fetched from
	Family  string // decode group of the instruction word
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[%s]: 0x%04x at $%03X: %s", d.Family, d.Opcode, d.Address, d.Err)
}

// Unwrap returns the sentinel error of the diagnostic.
func (d *Diagnostic) Unwrap() error {
	return d.Err
}
