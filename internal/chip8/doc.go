// Package chip8 implements the CHIP-8 virtual machine.
//
// # Machine Layout
//
// The machine owns a 4KB byte addressable memory:
//   - 0x000-0x1FF: Interpreter area, the font table is stored at FontStart (0x50)
//   - ProgramStart-0xFFF: Program image and data area
//
// Besides memory it holds 16 general purpose 8-bit registers V0-VF, where VF doubles as
// the flag register for carry, borrow, shift and collision results, a 16-bit index
// register I, a program counter, a 16 entry return stack, a delay and a sound timer,
// a 64x32 framebuffer with one byte per pixel and the state of the 16 key keypad.
//
// # Execution
//
// The machine performs no I/O and has no internal scheduling. A host calls Step at a
// cadence of its choice. Each step fetches one big-endian instruction word, advances
// the program counter, decodes the word into an Instruction and executes it. Both
// timers are decremented once per executed step.
//
// Between steps the host may update the keypad with SetKey, and read the framebuffer
// with Video when DrawFlag reports a change, clearing it with ClearDrawFlag afterwards.
//
// # Diagnostics
//
// Anomalies such as unknown opcodes or stack overflows never halt the machine. Step
// returns them as *Diagnostic errors that wrap one of the sentinel errors of this
// package, the faulting instruction is skipped.
//
// # Usage Example
//
//	m := chip8.New()
//	if err := m.LoadProgram(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	for {
//		if err := m.Step(); err != nil {
//			logger.Warn("Execution anomaly", log.Err(err))
//		}
//		if m.DrawFlag() {
//			render(m.Video())
//			m.ClearDrawFlag()
//		}
//	}
package chip8
