// Package disasm converts CHIP-8 instruction words into assembly listings.
// It is used for program listings and for tracing executed instructions.
package disasm

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Line is a single disassembled instruction.
type Line struct {
	Address  uint16
	Word     uint16
	Name     string // instruction mnemonic, empty for unknown words
	Operands string
}

// Known returns whether the instruction word matched an instruction.
func (l Line) Known() bool {
	return l.Name != ""
}

// Code returns the assembly code of the instruction without address and opcode bytes.
func (l Line) Code() string {
	switch {
	case !l.Known():
		return fmt.Sprintf(".word $%04X", l.Word)
	case l.Operands == "":
		return l.Name
	default:
		return fmt.Sprintf("%s %s", l.Name, l.Operands)
	}
}

// String returns the listing representation of the line.
func (l Line) String() string {
	return fmt.Sprintf("$%03X: %04X  %s", l.Address, l.Word, l.Code())
}

// Decode disassembles the instruction word located at the given address.
func Decode(address, word uint16) Line {
	line := Line{
		Address: address,
		Word:    word,
	}

	ins := lookup(word)
	if ins == nil {
		return line
	}
	line.Name = ins.Name
	line.Operands = formatInstruction(ins.Name, word)
	return line
}

// Program disassembles a program image that is loaded at the base address.
// A trailing odd byte is output as an unknown word padded with zero.
func Program(program []byte, base uint16) []Line {
	lines := make([]Line, 0, (len(program)+1)/opcodeSize)
	for i := 0; i < len(program); i += opcodeSize {
		word := uint16(program[i]) << 8
		if i+1 < len(program) {
			word |= uint16(program[i+1])
		}
		lines = append(lines, Decode(base+uint16(i), word))
	}
	return lines
}

// Write writes the listing of a program image loaded at the base address.
func Write(w io.Writer, program []byte, base uint16) error {
	for _, line := range Program(program, base) {
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return fmt.Errorf("writing listing line: %w", err)
		}
	}
	return nil
}

// lookup identifies the instruction of a word using the mask and value
// patterns of the opcode table.
func lookup(word uint16) *chip8.Instruction {
	firstNibble := (word & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// formatInstruction formats the operands of a CHIP-8 instruction.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJumpInstruction(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompareInstruction(opcode)
	case chip8.LdName:
		return formatLoadInstruction(opcode)
	case chip8.AddName:
		return formatAddInstruction(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", registerX(opcode))
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
	}
	return fmt.Sprintf("$%03X", opcode&0x0FFF)
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	if opcode&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return fmt.Sprintf("$%03X", opcode&0x0FFF)
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	default:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	}
}

// formatLoadInstruction formats all load variants, including the timer,
// key, font, BCD and register block transfers of the F group.
func formatLoadInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	}

	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	default:
		return fmt.Sprintf("I, V%X", x)
	}
}

// registerX extracts the X register nibble from a CHIP-8 opcode.
func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// registerY extracts the Y register nibble from a CHIP-8 opcode.
func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
