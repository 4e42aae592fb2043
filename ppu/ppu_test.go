package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famigo/mappers"
	"famigo/nesrom"
)

func testPPU() *PPU {
	return New(mappers.NewDummy())
}

// clockFrame runs one whole frame's worth of dots.
func clockFrame(p *PPU) {
	for i := 0; i < DOTS_PER_SCANLINE*SCANLINES_PER_FRAME; i++ {
		p.Clock()
	}
}

// clockTo runs the PPU up to (scanline, dot).
func clockTo(p *PPU, scanline, dot int) {
	for p.scanline != scanline || p.dot != dot {
		p.Clock()
	}
}

func TestInitialState(t *testing.T) {
	p := testPPU()

	assert.Equal(t, SCANLINE_PRE_RENDER, p.Scanline())
	assert.Equal(t, 0, p.Dot())
	assert.Equal(t, uint8(0xA0), p.status)
	assert.False(t, p.wLatch)
}

func TestVBlankRisesOncePerFrame(t *testing.T) {
	p := testPPU()

	edges := 0
	prev := p.status&STATUS_VERTICAL_BLANK > 0
	for i := 0; i < DOTS_PER_SCANLINE*SCANLINES_PER_FRAME; i++ {
		p.Clock()
		cur := p.status&STATUS_VERTICAL_BLANK > 0
		if cur && !prev {
			edges += 1
			assert.Equal(t, SCANLINE_VBLANK_START, p.scanline)
			assert.Equal(t, 2, p.dot) // the flag went up on dot 1, just clocked past
		}
		prev = cur
	}

	assert.Equal(t, 1, edges)
	assert.True(t, p.FrameDone())
}

func TestNMIOnlyWhenEnabled(t *testing.T) {
	p := testPPU()

	clockFrame(p)
	assert.False(t, p.TakeNMI(), "NMI raised with PPUCTRL bit 7 off")

	p.WriteReg(PPUCTRL, CTRL_GENERATE_NMI)
	clockFrame(p)
	assert.True(t, p.TakeNMI())
	assert.False(t, p.TakeNMI(), "TakeNMI must clear the line")
}

func TestStatusReadClearsVBlankOutsideVBlankOnly(t *testing.T) {
	p := testPPU()
	clockTo(p, SCANLINE_VBLANK_START, 2)

	// Reads during the VBlank lines report the flag but leave it.
	got := p.ReadReg(PPUSTATUS)
	assert.NotZero(t, got&STATUS_VERTICAL_BLANK)
	assert.NotZero(t, p.status&STATUS_VERTICAL_BLANK)

	// A read on the pre-render line (before dot 1 clears it) takes
	// the flag down.
	clockTo(p, SCANLINE_PRE_RENDER, 0)
	got = p.ReadReg(PPUSTATUS)
	assert.NotZero(t, got&STATUS_VERTICAL_BLANK)
	assert.Zero(t, p.status&STATUS_VERTICAL_BLANK)
}

func TestPreRenderClearsFlags(t *testing.T) {
	p := testPPU()
	p.status |= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW

	clockTo(p, SCANLINE_PRE_RENDER, 2)
	assert.Zero(t, p.status&(STATUS_VERTICAL_BLANK|STATUS_SPRITE_0_HIT|STATUS_SPRITE_OVERFLOW))
}

func TestStatusReadResetsWriteToggle(t *testing.T) {
	p := testPPU()

	p.WriteReg(PPUADDR, 0x12) // first write
	p.ReadReg(PPUSTATUS)      // resets the toggle

	p.WriteReg(PPUADDR, 0x23)
	p.WriteReg(PPUADDR, 0x45)
	assert.Equal(t, uint16(0x2345), p.v.addr())
}

func TestCtrlWritesNametableBits(t *testing.T) {
	p := testPPU()

	p.WriteReg(PPUCTRL, 0x03)
	assert.Equal(t, uint16(0x0C00), p.t.data&0x0C00)

	p.WriteReg(PPUCTRL, 0x00)
	assert.Zero(t, p.t.data&0x0C00)
}

func TestScrollWrites(t *testing.T) {
	p := testPPU()

	p.WriteReg(PPUSCROLL, 0x7D) // 0b01111_101
	assert.Equal(t, uint16(0x0F), p.t.coarseX())
	assert.Equal(t, uint8(0x05), p.fineX)

	p.WriteReg(PPUSCROLL, 0x5E) // 0b01011_110
	assert.Equal(t, uint16(0x0B), p.t.coarseY())
	assert.Equal(t, uint16(0x06), p.t.fineY())
}

func TestDataReadWrite(t *testing.T) {
	p := testPPU()

	p.WriteReg(PPUADDR, 0x21)
	p.WriteReg(PPUADDR, 0x08)
	p.WriteReg(PPUDATA, 0x42)
	p.WriteReg(PPUDATA, 0x43) // auto-increment lands this at $2109

	p.WriteReg(PPUADDR, 0x21)
	p.WriteReg(PPUADDR, 0x08)
	p.ReadReg(PPUDATA) // stale buffer
	assert.Equal(t, uint8(0x42), p.ReadReg(PPUDATA))
	assert.Equal(t, uint8(0x43), p.ReadReg(PPUDATA))
}

func TestDataIncrementBy32(t *testing.T) {
	p := testPPU()
	p.WriteReg(PPUCTRL, CTRL_VRAM_ADD_INCREMENT)

	p.WriteReg(PPUADDR, 0x20)
	p.WriteReg(PPUADDR, 0x00)
	p.WriteReg(PPUDATA, 0x42)
	assert.Equal(t, uint16(0x2020), p.v.addr())
}

func TestPaletteAlias(t *testing.T) {
	p := testPPU()

	for _, i := range []uint16{0, 4, 8, 12} {
		p.vramWrite(0x3F10+i, uint8(0x20+i))
		assert.Equal(t, uint8(0x20+i), p.vramRead(0x3F00+i), "0x3F1%x must alias 0x3F0%x", i, i)

		p.vramWrite(0x3F00+i, uint8(0x30+i))
		assert.Equal(t, uint8(0x30+i), p.vramRead(0x3F10+i))
	}

	// The full range mirrors every 32 bytes.
	p.vramWrite(0x3F01, 0x17)
	assert.Equal(t, uint8(0x17), p.vramRead(0x3FE1))
}

func TestPaletteReadUnbuffered(t *testing.T) {
	p := testPPU()
	p.vramWrite(0x3F00, 0x2A)

	p.WriteReg(PPUADDR, 0x3F)
	p.WriteReg(PPUADDR, 0x00)

	// Palette reads skip the buffer but still refill it from the
	// nametable address underneath the palette window.
	p.vram[p.ntMirror(0x2F00)] = 0x55
	assert.Equal(t, uint8(0x2A), p.ReadReg(PPUDATA))
	assert.Equal(t, uint8(0x55), p.bufferData)
}

func TestOAMAddrData(t *testing.T) {
	p := testPPU()

	p.WriteReg(OAMADDR, 0x10)
	p.WriteReg(OAMDATA, 0xAA)
	p.WriteReg(OAMDATA, 0xBB)

	assert.Equal(t, uint8(0xAA), p.oamData[0x10])
	assert.Equal(t, uint8(0xBB), p.oamData[0x11])

	p.WriteReg(OAMADDR, 0x10)
	assert.Equal(t, uint8(0xAA), p.ReadReg(OAMDATA))
	// Reads don't advance the address.
	assert.Equal(t, uint8(0xAA), p.ReadReg(OAMDATA))
}

func TestWriteOnlyRegistersReadZero(t *testing.T) {
	p := testPPU()

	for _, reg := range []uint16{PPUCTRL, PPUMASK, OAMADDR, PPUSCROLL, PPUADDR} {
		assert.Zero(t, p.ReadReg(reg), "register 0x%04x", reg)
	}
}

func TestRegisterMirroring(t *testing.T) {
	p := testPPU()

	// $3456 decodes as $2006.
	p.WriteReg(0x3456, 0x21)
	p.WriteReg(0x3456, 0x08)
	assert.Equal(t, uint16(0x2108), p.v.addr())
}

func TestNametableMirroring(t *testing.T) {
	dm := mappers.NewDummy()
	p := New(dm)

	cases := []struct {
		a      uint16 // address to write
		val    uint8  // value to write
		mm     uint8  // mirroring mode
		wantAp uint16 // aliased address to validate, in addition to the original
	}{
		{0x2000, 0xF1, nesrom.MIRROR_VERTICAL, 0x2800},
		{0x20FF, 0x1F, nesrom.MIRROR_VERTICAL, 0x28FF},
		{0x2801, 0xE3, nesrom.MIRROR_VERTICAL, 0x2001},
		{0x240F, 0xD1, nesrom.MIRROR_VERTICAL, 0x2C0F},
		{0x2C1E, 0xCC, nesrom.MIRROR_VERTICAL, 0x241E},
		{0x2000, 0xF2, nesrom.MIRROR_HORIZONTAL, 0x2400},
		{0x2800, 0x32, nesrom.MIRROR_HORIZONTAL, 0x2C00},
		{0x2C00, 0x41, nesrom.MIRROR_HORIZONTAL, 0x2800},
		{0x2402, 0x56, nesrom.MIRROR_HORIZONTAL, 0x2002},
		{0x2CFF, 0x15, nesrom.MIRROR_HORIZONTAL, 0x28FF},
	}

	for i, tc := range cases {
		dm.MM = tc.mm
		p.vramWrite(tc.a, tc.val)
		require.Equal(t, tc.val, p.vramRead(tc.a), "case %d direct", i)
		require.Equal(t, tc.val, p.vramRead(tc.wantAp), "case %d alias", i)
	}
}

func TestNametableMirrorOf3000Range(t *testing.T) {
	p := testPPU()

	p.vramWrite(0x3123, 0x42)
	assert.Equal(t, uint8(0x42), p.vramRead(0x2123))
}
