package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famigo/mappers"
)

// progConsole builds a console over a dummy mapper preloaded with
// the given code fragments. The caller supplies the vectors.
func progConsole(prog map[uint16][]uint8) *Console {
	dm := mappers.NewDummy()
	for addr, code := range prog {
		for i, b := range code {
			dm.PrgWrite(addr+uint16(i), b)
		}
	}
	return New(dm)
}

func TestMinimalNROM(t *testing.T) {
	// A NOP sled with only a reset vector: the PC just walks.
	dm := mappers.NewDummy()
	for a := 0x8000; a < 0xFFFA; a++ {
		dm.PrgWrite(uint16(a), 0xEA)
	}
	dm.PrgWrite(0xFFFC, 0x00)
	dm.PrgWrite(0xFFFD, 0x80)

	c := New(dm)

	require.Equal(t, uint16(0x8000), c.cpu.PC())
	require.Equal(t, uint8(0x24), c.cpu.Status())
	require.Equal(t, uint64(0), c.cpu.Cycles())

	for i := 0; i < 1000; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	assert.Equal(t, uint16(0x8000+1000), c.cpu.PC())
	assert.Equal(t, uint64(2000), c.cpu.Cycles())
}

func TestNMIDeliveryPerFrame(t *testing.T) {
	c := progConsole(map[uint16][]uint8{
		// Enable NMI generation, then spin.
		0x8000: {0xA9, 0x80, 0x8D, 0x00, 0x20, 0x4C, 0x05, 0x80}, // LDA #$80; STA $2000; JMP $8005
		// NMI handler bumps a frame counter in the zero page.
		0x9000: {0xE6, 0x10, 0x40}, // INC $10; RTI
		0xFFFA: {0x00, 0x90},
		0xFFFC: {0x00, 0x80},
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, c.RunFrame())
	}

	// The PPU resets onto the pre-render line, so the first RunFrame
	// only finishes that line; VBlank falls in the second and third.
	assert.Equal(t, uint8(2), c.Read(0x0010), "one NMI per frame")
}

func TestCrashToZeroPage(t *testing.T) {
	c := progConsole(map[uint16][]uint8{
		0x8000: {0x4C, 0x00, 0x00}, // JMP $0000
		0xFFFC: {0x00, 0x80},
	})

	_, err := c.Step()
	assert.ErrorIs(t, err, ErrZeroPage)
}

func TestUnknownOpcodeStopsTheSession(t *testing.T) {
	c := progConsole(map[uint16][]uint8{
		0x8000: {0xFF},
		0xFFFC: {0x00, 0x80},
	})

	_, err := c.Step()
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid instruction")

	// The error also surfaces through RunFrame.
	assert.Error(t, c.RunFrame())
}

func TestStepAdvancesPPUThreeToOne(t *testing.T) {
	c := progConsole(map[uint16][]uint8{
		0x8000: {0xEA, 0xEA}, // NOPs
		0xFFFC: {0x00, 0x80},
	})

	// Fresh PPU sits on the pre-render line at dot 0; one NOP (2
	// cycles) moves it 6 dots.
	n, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	assert.Equal(t, 6, c.ppu.Dot())
}

func TestFramebufferDimensions(t *testing.T) {
	c := testConsole()

	assert.Len(t, c.Framebuffer(), 256*240)
}

func TestControllerReadableFromProgram(t *testing.T) {
	c := progConsole(map[uint16][]uint8{
		// Strobe the pads, then shift the first bit into $10.
		0x8000: {
			0xA9, 0x01, 0x8D, 0x16, 0x40, // LDA #$01; STA $4016
			0xA9, 0x00, 0x8D, 0x16, 0x40, // LDA #$00; STA $4016
			0xAD, 0x16, 0x40, 0x29, 0x01, // LDA $4016; AND #$01
			0x85, 0x10, // STA $10
		},
		0xFFFC: {0x00, 0x80},
	})

	c.SetButtons(0, BUTTON_A)

	for i := 0; i < 7; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	assert.Equal(t, uint8(0x01), c.Read(0x0010))
}
