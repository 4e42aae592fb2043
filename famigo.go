package main

import (
	"flag"
	"log"

	"famigo/console"
	"famigo/mappers"
	"famigo/nesrom"
	"famigo/ppu"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")
	monitor = flag.Bool("monitor", false, "Start the interactive monitor instead of the window.")
	scale   = flag.Int("scale", 2, "Window scale factor.")
)

func main() {
	flag.Parse()

	rom, err := nesrom.New(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("Couldn't Get() mapper: %v", err)
	}

	log.Printf("Loaded %s (%s)", rom, m.Name())

	famigo := console.New(m)

	if *monitor {
		if err := famigo.RunMonitor(); err != nil {
			log.Fatalf("Monitor exited: %v", err)
		}
		return
	}

	sc := *scale
	ebiten.SetWindowSize(ppu.NES_RES_WIDTH*sc, ppu.NES_RES_HEIGHT*sc)
	ebiten.SetWindowTitle("Famigo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(famigo); err != nil {
		log.Fatal(err)
	}
}
