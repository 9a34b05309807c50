package chip8

// instructionSize is the size of an instruction word in bytes.
const instructionSize = 2

// Step executes a single fetch-decode-execute cycle and decrements the timers.
// A returned error is a *Diagnostic describing a non-fatal anomaly, the machine
// stays usable and the next Step continues with the following instruction.
func (m *Machine) Step() error {
	address := m.pc
	m.opcode = m.fetch()
	m.pc += instructionSize

	err := m.execute(Decode(m.opcode))

	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}

	if err != nil {
		return &Diagnostic{
			Err:     err,
			Opcode:  m.opcode,
			Address: address,
			Family:  family(m.opcode),
		}
	}
	return nil
}

// fetch reads the big-endian instruction word at the program counter.
func (m *Machine) fetch() uint16 {
	return uint16(m.ReadMemory(m.pc))<<8 | uint16(m.ReadMemory(m.pc+1))
}

// skipIf advances the program counter over the next instruction if cond is true.
func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc += instructionSize
	}
}

// execute applies the instruction to the machine state. Flags are computed from
// the operand values before the instruction and written to VF last, so an
// instruction that uses VF as operand still leaves the flag in VF.
//
//nolint:funlen,cyclop,gocyclo // one case per instruction variant
func (m *Machine) execute(ins Instruction) error {
	v := &m.registers
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpSys:
		return ErrMachineCodeRoutine

	case OpClearDisplay:
		m.video = [Width * Height]byte{}
		m.drawFlag = true

	case OpReturn:
		if m.sp == 0 {
			return ErrStackUnderflow
		}
		m.sp--
		m.pc = m.stack[m.sp]

	case OpJump:
		m.pc = ins.NNN

	case OpCall:
		if int(m.sp) == StackSize {
			return ErrStackOverflow
		}
		m.stack[m.sp] = m.pc
		m.sp++
		m.pc = ins.NNN

	case OpSkipEqImm:
		m.skipIf(v[x] == ins.NN)

	case OpSkipNeImm:
		m.skipIf(v[x] != ins.NN)

	case OpSkipEqReg:
		m.skipIf(v[x] == v[y])

	case OpSkipNeReg:
		m.skipIf(v[x] != v[y])

	case OpSetImm:
		v[x] = ins.NN

	case OpAddImm:
		v[x] += ins.NN

	case OpSetReg:
		v[x] = v[y]

	case OpOr:
		v[x] |= v[y]

	case OpAnd:
		v[x] &= v[y]

	case OpXor:
		v[x] ^= v[y]

	case OpAddReg:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = byte(sum)
		v[FlagRegister] = boolToFlag(sum > 0xFF)

	case OpSubReg:
		flag := boolToFlag(v[x] > v[y])
		v[x] -= v[y]
		v[FlagRegister] = flag

	case OpShiftRight:
		flag := v[x] & 0x01
		v[x] >>= 1
		v[FlagRegister] = flag

	case OpSubnReg:
		flag := boolToFlag(v[y] > v[x])
		v[x] = v[y] - v[x]
		v[FlagRegister] = flag

	case OpShiftLeft:
		flag := v[x] >> 7
		v[x] <<= 1
		v[FlagRegister] = flag

	case OpSetIndex:
		m.index = ins.NNN

	case OpJumpOffset:
		m.pc = ins.NNN + uint16(v[0])

	case OpRandAnd:
		v[x] = m.random() & ins.NN

	case OpDraw:
		m.draw(v[x], v[y], ins.N)

	case OpSkipKeyPressed:
		m.skipIf(m.Key(int(v[x])))

	case OpSkipKeyNotPressed:
		m.skipIf(!m.Key(int(v[x])))

	case OpGetDelay:
		v[x] = m.delayTimer

	case OpWaitKey:
		m.waitKey(x)

	case OpSetDelay:
		m.delayTimer = v[x]

	case OpSetSound:
		m.soundTimer = v[x]

	case OpAddIndex:
		sum := uint32(m.index) + uint32(v[x])
		m.index = uint16(sum)
		v[FlagRegister] = boolToFlag(sum > 0xFFF)

	case OpFontChar:
		m.index = FontStart + glyphSize*uint16(v[x])

	case OpBCD:
		value := v[x]
		m.WriteMemory(m.index, value/100)
		m.WriteMemory(m.index+1, value/10%10)
		m.WriteMemory(m.index+2, value%10)

	case OpRegDump:
		for i := uint16(0); i <= uint16(x); i++ {
			m.WriteMemory(m.index+i, v[i])
		}
		m.index += uint16(x) + 1

	case OpRegLoad:
		for i := uint16(0); i <= uint16(x); i++ {
			v[i] = m.ReadMemory(m.index + i)
		}
		m.index += uint16(x) + 1

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// waitKey stores the lowest pressed key in Vx. Without a pressed key the program
// counter is rewound so that the next step executes the same instruction again.
func (m *Machine) waitKey(x uint8) {
	for key, pressed := range m.keypad {
		if pressed {
			m.registers[x] = byte(key)
			return
		}
	}
	m.pc -= instructionSize
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
