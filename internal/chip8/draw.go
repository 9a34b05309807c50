package chip8

// spriteWidth is the width of every sprite row in pixels.
const spriteWidth = 8

// draw XORs a sprite of the given height, read from memory at the index register,
// onto the framebuffer. The origin wraps around the screen, the sprite body does not:
// pixels are addressed linearly, so columns past the right edge continue on the next
// row, and pixels past the end of the framebuffer are dropped.
// VF is set to 1 if any set pixel gets cleared, otherwise to 0.
func (m *Machine) draw(vx, vy, height byte) {
	xPos := int(vx) % Width
	yPos := int(vy) % Height

	var collision byte
	for row := range int(height) {
		spriteByte := m.ReadMemory(m.index + uint16(row))

		for col := range spriteWidth {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}

			pixel := (yPos+row)*Width + xPos + col
			if pixel >= len(m.video) {
				continue
			}

			if m.video[pixel] == PixelOn {
				collision = 1
			}
			m.video[pixel] ^= PixelOn
		}
	}

	m.registers[FlagRegister] = collision
	m.drawFlag = true
}
