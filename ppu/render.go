package ppu

// renderDot runs one dot of a visible scanline: a pixel for dots
// 1-256 and the fetch-side scroll register arithmetic when rendering
// is on.
func (p *PPU) renderDot() {
	if p.dot >= 1 && p.dot <= 256 {
		p.bgOpaque = false
		if p.mask&MASK_SHOW_BG > 0 {
			p.renderBackgroundPixel()
		}
		if p.mask&MASK_SHOW_SPRITES > 0 {
			p.renderSpritePixel()
		}
	}

	if p.renderingEnabled() {
		p.advanceScroll()
	}
}

// advanceScroll performs the per-dot bookkeeping on v: coarse X
// steps every 8 fetch dots, fine Y steps at dot 256, and the
// horizontal bits restore from t at dot 257.
func (p *PPU) advanceScroll() {
	fetching := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if fetching && p.dot&7 == 0 {
		p.v.incrementX()
	}

	if p.dot == 256 {
		p.v.incrementY()
	}

	if p.dot == 257 {
		p.v.copyX(p.t)
	}
}

// renderBackgroundPixel computes the background colour for the
// current dot from the nametable, attribute and pattern data and
// writes it to the framebuffer. Colour index 0 is transparent and
// falls through to the universal background at $3F00.
func (p *PPU) renderBackgroundPixel() {
	x := p.dot - 1
	y := p.scanline

	tileX := x / 8
	tileY := y / 8

	// Each nametable is 32x30 tiles.
	tile := p.vramRead(uint16(NAMETABLE_0 + tileY*32 + tileX))

	// Attribute table byte for this 4x4 tile block; each 2x2 tile
	// quadrant selects one of four 2-bit palette numbers.
	attr := p.vramRead(uint16(ATTRIBUTE_0 + (tileY/4)*8 + tileX/4))
	shift := uint8((tileY%4)/2*4 + (tileX%4)/2*2)
	palette := (attr >> shift) & 0x03

	base := uint16(PATTERN_TABLE_0)
	if p.ctrl&CTRL_BACKROUND_PATTERN_ADDR > 0 {
		base = PATTERN_TABLE_1
	}
	patternAddr := base + uint16(tile)*16 + uint16(y%8)

	plane0 := p.vramRead(patternAddr)
	plane1 := p.vramRead(patternAddr + 8)

	bit := uint8(7 - x%8)
	px := (plane1>>bit&1)<<1 | plane0>>bit&1

	var color uint8
	if px == 0 {
		color = p.vramRead(PALETTE_RAM)
	} else {
		color = p.vramRead(PALETTE_RAM | uint16(palette)<<2 | uint16(px))
		p.bgOpaque = true
	}

	p.frame[y*NES_RES_WIDTH+x] = compose(color)
}

// renderSpritePixel walks OAM front to back and draws the first
// sprite with an opaque pixel under the current dot. A sprite with
// behind-background priority loses to an opaque background pixel,
// but a sprite 0 overlap still registers the hit.
func (p *PPU) renderSpritePixel() {
	x := p.dot - 1
	y := p.scanline

	height := 8
	if p.ctrl&CTRL_SPRITE_SIZE > 0 {
		height = 16
	}

	for i := 0; i < OAM_SIZE/4; i++ {
		spriteY := p.oamData[i*4]
		tile := p.oamData[i*4+1]
		attr := p.oamData[i*4+2]
		spriteX := p.oamData[i*4+3]

		// OAM stores screen_y - 1.
		row := y - (int(spriteY) + 1)
		if row < 0 || row >= height {
			continue
		}

		col := x - int(spriteX)
		if col < 0 || col >= 8 {
			continue
		}

		palette := attr & 0x03
		behind := attr&0x20 > 0
		flipH := attr&0x40 > 0
		flipV := attr&0x80 > 0

		if flipV {
			row = height - 1 - row
		}

		var patternAddr uint16
		if height == 16 {
			// Bit 0 of the tile id selects the pattern table;
			// the top tile is tile&0xFE and the bottom its
			// neighbour.
			table := uint16(PATTERN_TABLE_0)
			if tile&0x01 > 0 {
				table = PATTERN_TABLE_1
			}
			num := uint16(tile & 0xFE)
			if row >= 8 {
				num += 1
				row -= 8
			}
			patternAddr = table + num*16 + uint16(row)
		} else {
			base := uint16(PATTERN_TABLE_0)
			if p.ctrl&CTRL_SPRITE_PATTERN_ADDR > 0 {
				base = PATTERN_TABLE_1
			}
			patternAddr = base + uint16(tile)*16 + uint16(row)
		}

		plane0 := p.vramRead(patternAddr)
		plane1 := p.vramRead(patternAddr + 8)

		bit := uint8(7 - col)
		if flipH {
			bit = uint8(col)
		}
		px := (plane1>>bit&1)<<1 | plane0>>bit&1

		if px == 0 {
			continue
		}

		// The first opaque sprite pixel owns this dot.
		if i == 0 && p.bgOpaque && x != 255 {
			p.status |= STATUS_SPRITE_0_HIT
		}

		if !(behind && p.bgOpaque) {
			color := p.vramRead(0x3F10 + uint16(palette)*4 + uint16(px))
			p.frame[y*NES_RES_WIDTH+x] = compose(color)
		}

		break
	}
}
