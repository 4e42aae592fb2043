package ppu

import (
	"famigo/nesrom"
)

const (
	PATTERN_TABLE_0 = 0x0000
	PATTERN_TABLE_1 = 0x1000
	NAMETABLE_0     = 0x2000
	ATTRIBUTE_0     = 0x23C0
	PALETTE_RAM     = 0x3F00
)

// ntMirror folds a $2000-$3EFF address into the 2KB of nametable
// RAM, honouring the cartridge's mirroring mode.
// https://www.nesdev.org/wiki/Mirroring#Nametable_Mirroring
func (p *PPU) ntMirror(addr uint16) uint16 {
	a := addr & 0x0FFF

	switch p.m.MirroringMode() {
	case nesrom.MIRROR_HORIZONTAL:
		if a >= 0x800 {
			return 0x400 + (a-0x800)%0x400
		}
		return a % 0x400
	case nesrom.MIRROR_VERTICAL:
		return a % 0x800
	}

	panic("unknown mirroring mode")
}

// paletteIndex maps a $3F00-$3FFF address into palette RAM. The
// sprite backdrop entries $3F10/$3F14/$3F18/$3F1C alias their
// background counterparts, on reads and writes both.
func paletteIndex(addr uint16) uint16 {
	i := addr & 0x001F
	switch i {
	case 0x10, 0x14, 0x18, 0x1C:
		i -= 0x10
	}

	return i
}

// vramRead reads a byte from PPU address space: CHR below $2000,
// nametable RAM through $3EFF, palette RAM above.
func (p *PPU) vramRead(addr uint16) uint8 {
	addr &= 0x3FFF

	switch {
	case addr < NAMETABLE_0:
		return p.m.ChrRead(addr)
	case addr < PALETTE_RAM:
		return p.vram[p.ntMirror(addr)]
	default:
		return p.palRAM[paletteIndex(addr)]
	}
}

func (p *PPU) vramWrite(addr uint16, val uint8) {
	addr &= 0x3FFF

	switch {
	case addr < NAMETABLE_0:
		p.m.ChrWrite(addr, val)
	case addr < PALETTE_RAM:
		p.vram[p.ntMirror(addr)] = val
	default:
		p.palRAM[paletteIndex(addr)] = val
	}
}

func (p *PPU) vramIncrement() {
	if p.ctrl&CTRL_VRAM_ADD_INCREMENT > 0 {
		p.v.add(CTRL_INCR_DOWN)
	} else {
		p.v.add(CTRL_INCR_ACROSS)
	}
}

// dataRead implements the $2007 read path. Non-palette reads return
// the previous buffered byte; palette reads are immediate but still
// refill the buffer from the mirrored nametable address underneath.
func (p *PPU) dataRead() uint8 {
	addr := p.v.addr()

	var data uint8
	if addr >= PALETTE_RAM {
		data = p.vramRead(addr)
		p.bufferData = p.vramRead(addr & 0x2FFF)
	} else {
		data = p.bufferData
		p.bufferData = p.vramRead(addr)
	}

	p.vramIncrement()
	return data
}

// dataWrite implements the $2007 write path.
func (p *PPU) dataWrite(val uint8) {
	p.vramWrite(p.v.addr(), val)
	p.vramIncrement()
}
