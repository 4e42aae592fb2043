package console

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Keyboard map for controller 1, in button-bit order:
// A, B, Select, Start, Up, Down, Left, Right
var keys []ebiten.Key = []ebiten.Key{
	ebiten.KeyX,
	ebiten.KeyZ,
	ebiten.KeyA,
	ebiten.KeyS,
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

// Layout returns the constant resolution of the NES and is part of
// the ebiten.Game interface. By returning constants here, we force
// ebiten to scale the display when the window size changes.
func (c *Console) Layout(w, h int) (int, int) {
	return c.ppu.GetResolution()
}

// Update polls the keyboard into controller 1 and runs one frame of
// emulation. Called by ebiten roughly every 1/60s.
func (c *Console) Update() error {
	var buttons uint8
	for i, key := range keys {
		if ebiten.IsKeyPressed(key) {
			buttons |= 1 << i
		}
	}
	c.pads[0].SetButtons(buttons)

	return c.RunFrame()
}

// Draw blits the PPU framebuffer into the ebiten screen.
func (c *Console) Draw(screen *ebiten.Image) {
	for i, argb := range c.ppu.Framebuffer() {
		c.pix[i*4] = byte(argb >> 16)
		c.pix[i*4+1] = byte(argb >> 8)
		c.pix[i*4+2] = byte(argb)
		c.pix[i*4+3] = 0xFF
	}

	screen.WritePixels(c.pix)
}
