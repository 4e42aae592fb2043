package nesrom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	HEADER_SIZE    = 16
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
)

var ErrBadMagic = errors.New("not an iNES file")

// ROM is an immutable, loaded iNES image. It outlives the CPU and
// PPU; mappers hand out offsets into its PRG and CHR banks.
type ROM struct {
	path string
	h    *header
	prg  []byte // 16384 * x bytes; x from header
	chr  []byte // 8192 * y bytes; y from header
}

func New(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open ROM file %q: %w", path, err)
	}

	rom, err := NewFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	rom.path = path

	return rom, nil
}

// NewFromReader parses an iNES image: 16 byte header, optional
// 512-byte trainer (skipped), PRG banks, CHR banks. Anything short
// or mis-tagged is rejected.
func NewFromReader(r io.Reader) (*ROM, error) {
	hbytes := make([]byte, HEADER_SIZE)
	if _, err := io.ReadFull(r, hbytes); err != nil {
		return nil, fmt.Errorf("couldn't read header: %w", err)
	}

	h := parseHeader(hbytes)
	if !h.isINESFormat() {
		return nil, fmt.Errorf("bad magic %q: %w", h.constant, ErrBadMagic)
	}

	if h.prgSize == 0 {
		return nil, errors.New("ROM carries no PRG banks")
	}

	rom := &ROM{h: h}

	if h.hasTrainer() {
		if _, err := io.CopyN(io.Discard, r, TRAINER_SIZE); err != nil {
			return nil, fmt.Errorf("error skipping trainer data: %w", err)
		}
	}

	rom.prg = make([]byte, PRG_BLOCK_SIZE*int(h.prgSize))
	if _, err := io.ReadFull(r, rom.prg); err != nil {
		return nil, fmt.Errorf("error reading PRG ROM (wanted %d bytes): %w", len(rom.prg), err)
	}

	rom.chr = make([]byte, CHR_BLOCK_SIZE*int(h.chrSize))
	if _, err := io.ReadFull(r, rom.chr); err != nil {
		return nil, fmt.Errorf("error reading CHR ROM (wanted %d bytes): %w", len(rom.chr), err)
	}

	return rom, nil
}

func (r *ROM) String() string {
	return fmt.Sprintf("%s: %s, mapper %d", r.path, r.h, r.MapperNum())
}

func (r *ROM) PrgRead(offset uint32) uint8 {
	return r.prg[offset]
}

func (r *ROM) PrgSize() int {
	return len(r.prg)
}

func (r *ROM) ChrRead(offset uint32) uint8 {
	return r.chr[offset]
}

func (r *ROM) ChrSize() int {
	return len(r.chr)
}

func (r *ROM) MapperNum() uint16 {
	return r.h.mapperNum()
}

func (r *ROM) MirroringMode() uint8 {
	return r.h.mirroringMode()
}
