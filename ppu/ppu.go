// Package ppu implements the PPU hardware in the NES
package ppu

import (
	"fmt"

	"famigo/mappers"
)

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

// Display constants
const (
	NES_RES_WIDTH  = 256
	NES_RES_HEIGHT = 240
)

// Frame geometry: 341 dots per scanline, 262 scanlines per frame.
// Scanlines 0-239 are visible, 240 idles, 241-260 are VBlank and 261
// is the pre-render line.
const (
	DOTS_PER_SCANLINE   = 341
	SCANLINES_PER_FRAME = 262

	SCANLINE_POST_RENDER  = 240
	SCANLINE_VBLANK_START = 241
	SCANLINE_VBLANK_END   = 260
	SCANLINE_PRE_RENDER   = 261
)

// Special Registers
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

// PPUCTRL bit flags
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| ||    (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| |     (0: add 1, going across; 1: add 32, going down)
// |||| +---- Sprite pattern table address for 8x8 sprites
// ||||       (0: $0000; 1: $1000; ignored in 8x16 mode)
// |||+------ Background pattern table address (0: $0000; 1: $1000)
// ||+------- Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
// |+-------- PPU master/slave select
// +--------- Generate an NMI at the start of the vertical blanking
//
//	interval (0: off; 1: on)
const (
	CTRL_NAMETABLE1             = 1
	CTRL_NAMETABLE2             = 1 << 1
	CTRL_VRAM_ADD_INCREMENT     = 1 << 2
	CTRL_SPRITE_PATTERN_ADDR    = 1 << 3
	CTRL_BACKROUND_PATTERN_ADDR = 1 << 4
	CTRL_SPRITE_SIZE            = 1 << 5
	CTRL_MASTER_SLAVE_SELECT    = 1 << 6
	CTRL_GENERATE_NMI           = 1 << 7
)

// VRAM increment options
const (
	CTRL_INCR_ACROSS = 1
	CTRL_INCR_DOWN   = 32
)

// PPUMASK bit flags
// 7  bit  0
// ---- ----
// BGRs bMmG
// |||| ||||
// |||| |||+- Greyscale
// |||| ||+-- Show background in leftmost 8 pixels
// |||| |+--- Show sprites in leftmost 8 pixels
// |||| +---- Show background
// |||+------ Show sprites
// +++------- Colour emphasis bits
const (
	MASK_GREYSCALE       = 1
	MASK_BG_LEFT_COLUMN  = 1 << 1
	MASK_SPR_LEFT_COLUMN = 1 << 2
	MASK_SHOW_BG         = 1 << 3
	MASK_SHOW_SPRITES    = 1 << 4
)

// PPUSTATUS bit flags
// 7  bit  0
// ---- ----
// VSO. ....
// |||
// ||+------- Sprite overflow
// |+-------- Sprite 0 Hit. Set when a nonzero pixel of sprite 0
// |          overlaps a nonzero background pixel; cleared at dot 1
// |          of the pre-render line. Used for raster timing.
// +--------- Vertical blank has started. Set at dot 1 of line 241;
//
//	cleared after reading $2002 outside VBlank and at dot 1
//	of the pre-render line.
const (
	STATUS_SPRITE_OVERFLOW = 1 << 5
	STATUS_SPRITE_0_HIT    = 1 << 6
	STATUS_VERTICAL_BLANK  = 1 << 7
)

type PPU struct {
	m mappers.Mapper

	vram    [VRAM_SIZE]uint8
	palRAM  [PALETTE_SIZE]uint8
	oamData [OAM_SIZE]uint8
	frame   [NES_RES_WIDTH * NES_RES_HEIGHT]uint32

	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// internal registers
	v, t   loopy // current vram addr, temp vram addr; only 15 bits used
	fineX  uint8 // fine x scroll, only 3 bits used
	wLatch bool  // first or second write toggle

	// For $2007 reads, which lag one access behind for non-palette
	// addresses
	bufferData uint8

	scanline int // 0 - 239 are visible, 261 is pre-render
	dot      int // 0 - 340
	ticks    uint64

	frameDone bool
	nmi       bool

	// Whether the background produced a non-zero colour index at
	// the dot currently being rendered. Sprite priority and the
	// sprite 0 hit both key off of it.
	bgOpaque bool
}

func New(m mappers.Mapper) *PPU {
	p := &PPU{}
	p.m = m
	p.Reset()
	return p
}

// Reset zeroes all PPU memory and returns the dot clock to the
// pre-render line.
func (p *PPU) Reset() {
	m := p.m
	*p = PPU{
		m:        m,
		scanline: SCANLINE_PRE_RENDER,
		status:   0xA0,
	}
}

func (p *PPU) String() string {
	return fmt.Sprintf("scanline: %d, dot: %d; CTRL: 0x%02x, MASK: 0x%02x, STATUS: 0x%02x; v: 0x%04x, t: 0x%04x, x: %d", p.scanline, p.dot, p.ctrl, p.mask, p.status, p.v.data, p.t.data, p.fineX)
}

// Framebuffer exposes the 256x240 output raster as packed
// 0xFFRRGGBB pixels. The caller blits it when FrameDone reports.
func (p *PPU) Framebuffer() []uint32 {
	return p.frame[:]
}

func (p *PPU) GetResolution() (int, int) {
	return NES_RES_WIDTH, NES_RES_HEIGHT
}

func (p *PPU) FrameDone() bool {
	return p.frameDone
}

func (p *PPU) ClearFrameDone() {
	p.frameDone = false
}

// TakeNMI reports whether the PPU has raised the NMI line since the
// last call, clearing it. The console delivers the edge to the CPU.
func (p *PPU) TakeNMI() bool {
	if p.nmi {
		p.nmi = false
		return true
	}
	return false
}

func (p *PPU) Scanline() int {
	return p.scanline
}

func (p *PPU) Dot() int {
	return p.dot
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(MASK_SHOW_BG|MASK_SHOW_SPRITES) > 0
}

// Clock advances the PPU by one dot.
func (p *PPU) Clock() {
	switch {
	case p.scanline == SCANLINE_PRE_RENDER:
		if p.dot == 1 {
			p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
		} else if p.dot == 304 && p.renderingEnabled() {
			p.v.copyY(p.t)
		}
	case p.scanline < SCANLINE_POST_RENDER:
		p.renderDot()
	case p.scanline == SCANLINE_VBLANK_START && p.dot == 1:
		p.status |= STATUS_VERTICAL_BLANK
		if p.ctrl&CTRL_GENERATE_NMI > 0 {
			p.nmi = true
		}
	}

	p.dot += 1
	p.ticks += 1

	if p.dot >= DOTS_PER_SCANLINE {
		p.dot = 0
		p.scanline += 1

		if p.scanline >= SCANLINES_PER_FRAME {
			p.scanline = 0
			p.frameDone = true
		}
	}
}
