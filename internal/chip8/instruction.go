package chip8

// Op identifies one of the instruction variants of the CHIP-8 instruction set.
type Op uint8

// Instruction variants, named after their effect. The comment lists the opcode pattern.
const (
	OpUnknown           Op = iota // any pattern not covered below
	OpSys                         // 0nnn, low nibble other than 0 and E
	OpClearDisplay                // 0nn0, canonically 00E0
	OpReturn                      // 0nnE, canonically 00EE
	OpJump                        // 1nnn
	OpCall                        // 2nnn
	OpSkipEqImm                   // 3xnn
	OpSkipNeImm                   // 4xnn
	OpSkipEqReg                   // 5xy0
	OpSetImm                      // 6xnn
	OpAddImm                      // 7xnn
	OpSetReg                      // 8xy0
	OpOr                          // 8xy1
	OpAnd                         // 8xy2
	OpXor                         // 8xy3
	OpAddReg                      // 8xy4
	OpSubReg                      // 8xy5
	OpShiftRight                  // 8xy6
	OpSubnReg                     // 8xy7
	OpShiftLeft                   // 8xyE
	OpSkipNeReg                   // 9xy0
	OpSetIndex                    // Annn
	OpJumpOffset                  // Bnnn
	OpRandAnd                     // Cxnn
	OpDraw                        // Dxyn
	OpSkipKeyPressed              // Ex9E
	OpSkipKeyNotPressed           // ExA1
	OpGetDelay                    // Fx07
	OpWaitKey                     // Fx0A
	OpSetDelay                    // Fx15
	OpSetSound                    // Fx18
	OpAddIndex                    // Fx1E
	OpFontChar                    // Fx29
	OpBCD                         // Fx33
	OpRegDump                     // Fx55
	OpRegLoad                     // Fx65
)

var opNames = [...]string{
	OpUnknown:           "unknown",
	OpSys:               "sys",
	OpClearDisplay:      "clear-display",
	OpReturn:            "return",
	OpJump:              "jump",
	OpCall:              "call",
	OpSkipEqImm:         "skip-eq-imm",
	OpSkipNeImm:         "skip-ne-imm",
	OpSkipEqReg:         "skip-eq-reg",
	OpSetImm:            "set-imm",
	OpAddImm:            "add-imm",
	OpSetReg:            "set-reg",
	OpOr:                "or",
	OpAnd:               "and",
	OpXor:               "xor",
	OpAddReg:            "add-reg",
	OpSubReg:            "sub-reg",
	OpShiftRight:        "shift-right",
	OpSubnReg:           "subn-reg",
	OpShiftLeft:         "shift-left",
	OpSkipNeReg:         "skip-ne-reg",
	OpSetIndex:          "set-index",
	OpJumpOffset:        "jump-offset",
	OpRandAnd:           "rand-and",
	OpDraw:              "draw",
	OpSkipKeyPressed:    "skip-key-pressed",
	OpSkipKeyNotPressed: "skip-key-not-pressed",
	OpGetDelay:          "get-delay",
	OpWaitKey:           "wait-key",
	OpSetDelay:          "set-delay",
	OpSetSound:          "set-sound",
	OpAddIndex:          "add-index",
	OpFontChar:          "font-char",
	OpBCD:               "bcd",
	OpRegDump:           "reg-dump",
	OpRegLoad:           "reg-load",
}

// String returns the name of the instruction variant.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// Instruction is a decoded instruction word with its operand fields extracted.
type Instruction struct {
	Op   Op
	Word uint16

	X   uint8  // register index from bits 8-11
	Y   uint8  // register index from bits 4-7
	N   uint8  // low nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits
}

// Decode maps an instruction word to its instruction variant. It has no side effects,
// words that do not match any pattern decode to OpUnknown.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Word: word,
		X:    uint8(word>>8) & 0x0F,
		Y:    uint8(word>>4) & 0x0F,
		N:    uint8(word) & 0x0F,
		NN:   uint8(word),
		NNN:  word & 0x0FFF,
	}
	ins.Op = decodeOp(word, ins.N)
	return ins
}

func decodeOp(word uint16, n uint8) Op {
	switch word >> 12 {
	case 0x0:
		return decodeSystem(n)
	case 0x1:
		return OpJump
	case 0x2:
		return OpCall
	case 0x3:
		return OpSkipEqImm
	case 0x4:
		return OpSkipNeImm
	case 0x5:
		return OpSkipEqReg
	case 0x6:
		return OpSetImm
	case 0x7:
		return OpAddImm
	case 0x8:
		return decodeArithmetic(n)
	case 0x9:
		return OpSkipNeReg
	case 0xA:
		return OpSetIndex
	case 0xB:
		return OpJumpOffset
	case 0xC:
		return OpRandAnd
	case 0xD:
		return OpDraw
	case 0xE:
		return decodeKey(n)
	default:
		return decodeMisc(word, n)
	}
}

// decodeSystem selects the 0nnn variant by the low nibble only, so any word
// ending in 0 clears the display and any word ending in E returns.
func decodeSystem(n uint8) Op {
	switch n {
	case 0x0:
		return OpClearDisplay
	case 0xE:
		return OpReturn
	default:
		return OpSys
	}
}

// decodeArithmetic selects the 8xyN variant by the low nibble only.
func decodeArithmetic(n uint8) Op {
	switch n {
	case 0x0:
		return OpSetReg
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddReg
	case 0x5:
		return OpSubReg
	case 0x6:
		return OpShiftRight
	case 0x7:
		return OpSubnReg
	case 0xE:
		return OpShiftLeft
	default:
		return OpUnknown
	}
}

func decodeKey(n uint8) Op {
	switch n {
	case 0xE:
		return OpSkipKeyPressed
	case 0x1:
		return OpSkipKeyNotPressed
	default:
		return OpUnknown
	}
}

// decodeMisc selects the Fx variant by the low nibble, the x5 group is
// further distinguished by the third nibble.
func decodeMisc(word uint16, n uint8) Op {
	switch n {
	case 0x7:
		return OpGetDelay
	case 0xA:
		return OpWaitKey
	case 0x5:
		switch word & 0x00F0 {
		case 0x0010:
			return OpSetDelay
		case 0x0050:
			return OpRegDump
		case 0x0060:
			return OpRegLoad
		default:
			return OpUnknown
		}
	case 0x8:
		return OpSetSound
	case 0xE:
		return OpAddIndex
	case 0x9:
		return OpFontChar
	case 0x3:
		return OpBCD
	default:
		return OpUnknown
	}
}

// family returns a short description of the decode group of a word,
// used as context in diagnostics.
func family(word uint16) string {
	switch word >> 12 {
	case 0x0:
		return "0x0000"
	case 0x8:
		return "0x8000"
	case 0xE:
		return "0xE000"
	case 0xF:
		if word&0x000F == 0x5 {
			return "0xF000 > 0x0005"
		}
		return "0xF000"
	default:
		return "root"
	}
}
