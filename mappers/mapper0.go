package mappers

import (
	"famigo/nesrom"
)

func init() {
	RegisterMapper(0, &mapper0{
		baseMapper: &baseMapper{id: 0, name: "NROM"},
	})
}

// mapper0 (NROM) is the simplest cartridge layout: one fixed 16 or
// 32 KiB PRG bank at $8000 and one 8 KiB CHR bank. 16 KiB carts
// mirror their single bank into the upper half of the window.
type mapper0 struct {
	*baseMapper
	chrRAM []uint8 // allocated when the cart ships no CHR ROM
}

func (m *mapper0) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	if r.ChrSize() == 0 {
		m.chrRAM = make([]uint8, nesrom.CHR_BLOCK_SIZE)
	} else {
		m.chrRAM = nil
	}
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	offset := uint32(addr - 0x8000)
	if m.rom.PrgSize() == nesrom.PRG_BLOCK_SIZE {
		offset &= 0x3FFF // mirror the single 16 KiB bank
	}
	return m.rom.PrgRead(offset)
}

func (m *mapper0) PrgWrite(addr uint16, val uint8) {
	// PRG is ROM on NROM boards.
}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	if m.chrRAM != nil {
		return m.chrRAM[addr%uint16(len(m.chrRAM))]
	}
	return m.rom.ChrRead(uint32(addr) % uint32(m.rom.ChrSize()))
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	// Writes only land when the board carries CHR RAM.
	if m.chrRAM != nil {
		m.chrRAM[addr%uint16(len(m.chrRAM))] = val
	}
}
