// Package console wires the CPU, PPU, controllers and cartridge
// mapper into one machine and drives them in lockstep: one CPU
// instruction, then three PPU dots per cycle it consumed.
package console

import (
	"errors"

	"famigo/mappers"
	"famigo/mos6502"
	"famigo/ppu"
)

const (
	NES_BASE_MEMORY = 0x800 // 2KB built in RAM

	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x401F
)

const (
	OAMDMA  = 0x4014 // Triggers DMA from CPU memory to the PPU's OAM
	JOYPAD1 = 0x4016
	JOYPAD2 = 0x4017
)

// A step that leaves the PC at $0000 means the guest crashed into
// the zero page; there is nothing sensible to execute there.
var ErrZeroPage = errors.New("crashed to zero page")

type Console struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	pads   [2]*Controller
	mapper mappers.Mapper
	ram    []uint8

	// CPU cycles owed for an OAM DMA transfer, charged on the next
	// Step.
	dmaStall int

	pix []byte // RGBA scratch buffer for the frontend
}

func New(m mappers.Mapper) *Console {
	c := &Console{
		mapper: m,
		ram:    make([]uint8, NES_BASE_MEMORY),
		pads:   [2]*Controller{NewController(), NewController()},
	}

	c.ppu = ppu.New(m)
	c.cpu = mos6502.New(c)
	c.pix = make([]byte, ppu.NES_RES_WIDTH*ppu.NES_RES_HEIGHT*4)

	c.Reset()

	return c
}

// Reset clears RAM and the controllers and resets both processors.
func (c *Console) Reset() {
	c.ram = make([]uint8, NES_BASE_MEMORY)
	for _, pad := range c.pads {
		pad.Reset()
	}
	c.ppu.Reset()
	c.cpu.Reset()
	c.dmaStall = 0
}

// Read decodes a CPU address.
// https://www.nesdev.org/wiki/CPU_memory_map
func (c *Console) Read(addr uint16) uint8 {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		return c.ram[addr&0x07FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		// PPU registers are mirrored every 8 bytes up to 0x4000
		return c.ppu.ReadReg(addr)
	case addr == JOYPAD1:
		return c.pads[0].Read() | 0x40
	case addr == JOYPAD2:
		return c.pads[1].Read() | 0x40
	case addr <= MAX_IO_REG:
		// APU and test registers are stubbed out
		return 0
	case addr >= 0x8000:
		return c.mapper.PrgRead(addr)
	}

	// 0x4020-0x7FFF: nothing drives the bus on an NROM board
	return 0
}

// Write decodes a CPU address.
func (c *Console) Write(addr uint16, val uint8) {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		c.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		c.ppu.WriteReg(addr, val)
	case addr == OAMDMA:
		c.oamDMA(val)
	case addr == JOYPAD1:
		// The strobe line is shared by both pads.
		c.pads[0].Write(val)
		c.pads[1].Write(val)
	case addr <= MAX_IO_REG:
		// APU registers, ignored
	case addr >= 0x8000:
		c.mapper.PrgWrite(addr, val)
	}
}

// oamDMA copies a 256-byte page from CPU memory into OAM through
// the OAMDATA register. The CPU stalls for 513 cycles, one more
// when the transfer starts on an odd cycle.
func (c *Console) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		c.ppu.WriteReg(ppu.OAMDATA, c.Read(base+uint16(i)))
	}

	c.dmaStall = 513
	if c.cpu.Cycles()%2 == 1 {
		c.dmaStall += 1
	}
}

// Step executes one CPU instruction, charges any pending DMA stall,
// and advances the PPU three dots per CPU cycle, delivering the NMI
// edge to the CPU as soon as it appears.
func (c *Console) Step() (int, error) {
	cycles, err := c.cpu.Step()
	if err != nil {
		return 0, err
	}

	if c.cpu.PC() == 0x0000 {
		return cycles, ErrZeroPage
	}

	if c.dmaStall > 0 {
		cycles += c.dmaStall
		c.cpu.AddCycles(c.dmaStall)
		c.dmaStall = 0
	}

	for i := 0; i < cycles*3; i++ {
		c.ppu.Clock()
		if c.ppu.TakeNMI() {
			c.cpu.Interrupt(mos6502.NMI)
		}
	}

	return cycles, nil
}

// RunFrame drives the core until the PPU finishes the current frame.
func (c *Console) RunFrame() error {
	c.ppu.ClearFrameDone()
	for !c.ppu.FrameDone() {
		if _, err := c.Step(); err != nil {
			return err
		}
	}

	return nil
}

// SetButtons replaces the live button state of one of the pads.
func (c *Console) SetButtons(pad int, state uint8) {
	c.pads[pad].SetButtons(state)
}

// Framebuffer exposes the PPU's output raster.
func (c *Console) Framebuffer() []uint32 {
	return c.ppu.Framebuffer()
}
