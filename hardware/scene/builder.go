// This file is part of Dvigen.
//
// Dvigen is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dvigen is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Dvigen.  If not, see <https://www.gnu.org/licenses/>.

package scene

import (
	"encoding/binary"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/psram"
)

// Line is a single line of a frame given to the Builder.
type Line struct {
	Data    []byte
	Mode    LineMode
	HRepeat int

	// index of scroll group or -1 for none
	ScrollGroup int
}

// SpriteRow is a single row of a sprite given to the Builder. The number of
// pixels in the row is determined by the length of the Pixels slice.
type SpriteRow struct {
	Offset int
	Pixels []byte
}

// Sprite is given to the Builder.
type Sprite struct {
	Mode         LineMode
	PaletteIndex int
	Rows         []SpriteRow
}

// Builder creates scene images.
type Builder struct {
	Config           Config
	FirstFrame       int
	FrameRateDivider int
	BankNumber       int

	// if PaletteAdvance is true then the number of palettes added must be a
	// multiple of the number of frames
	PaletteAdvance bool

	frames   [][]Line
	palettes [][]byte
	sprites  []Sprite
}

// NewBuilder is the preferred method of initialisation for the Builder type.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		Config:           cfg,
		FrameRateDivider: 1,
	}
}

// AddFrame adds a frame to the scene. The number of lines must be the same as
// the vertical length of the configuration.
func (b *Builder) AddFrame(lines []Line) error {
	if len(lines) != int(b.Config.VLength) {
		return curated.Errorf("builder: frame has %d lines, wanted %d", len(lines), b.Config.VLength)
	}
	for i, l := range lines {
		if !l.Mode.Valid() {
			return curated.Errorf("builder: line %d: invalid mode %s", i, l.Mode)
		}
		if l.ScrollGroup < -1 || l.ScrollGroup >= NumScrollGroups {
			return curated.Errorf("builder: line %d: invalid scroll group", i)
		}
	}
	b.frames = append(b.frames, lines)
	return nil
}

// AddPalette adds a palette to the scene. The palette must be PaletteSize
// bytes long.
func (b *Builder) AddPalette(p []byte) error {
	if len(p) != PaletteSize {
		return curated.Errorf("builder: palette is %d bytes, wanted %d", len(p), PaletteSize)
	}
	b.palettes = append(b.palettes, p)
	return nil
}

// AddSprite adds a sprite to the scene and returns its index in the sprite
// table.
func (b *Builder) AddSprite(s Sprite) (int, error) {
	if !s.Mode.Valid() {
		return 0, curated.Errorf("builder: sprite: invalid mode %s", s.Mode)
	}
	if len(s.Rows) > MaxSpriteHeight {
		return 0, curated.Errorf("builder: sprite: too many rows")
	}
	bpp := s.Mode.BytesPerPixel()
	n := 0
	for i, r := range s.Rows {
		if len(r.Pixels)%bpp != 0 {
			return 0, curated.Errorf("builder: sprite: row %d: partial pixel", i)
		}
		if r.Offset < 0 || r.Offset+len(r.Pixels)/bpp > MaxSpriteWidth {
			return 0, curated.Errorf("builder: sprite: row %d: too wide", i)
		}
		n += len(r.Pixels)
	}
	if n > MaxSpriteDataBytes {
		return 0, curated.Errorf("builder: sprite: too much pixel data")
	}
	b.sprites = append(b.sprites, s)
	return len(b.sprites) - 1, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// Build the scene image. The image can be written to PSRAM at address zero.
func (b *Builder) Build() ([]byte, error) {
	numFrames := len(b.frames)
	if numFrames == 0 {
		return nil, curated.Errorf("builder: no frames")
	}
	if b.FirstFrame < 0 || b.FirstFrame >= numFrames {
		return nil, curated.Errorf("builder: first frame out of range")
	}

	numPalettes := len(b.palettes)
	if b.PaletteAdvance {
		if numPalettes%numFrames != 0 {
			return nil, curated.Errorf("builder: %d palettes cannot advance over %d frames", numPalettes, numFrames)
		}
		numPalettes /= numFrames
	}
	if numPalettes > 255 {
		return nil, curated.Errorf("builder: too many palettes")
	}

	vlen := int(b.Config.VLength)
	tableAddr := HeaderLen
	paletteAddr := tableAddr + numFrames*vlen*4
	spriteTableAddr := paletteAddr + len(b.palettes)*PaletteSize
	blobAddr := align4(spriteTableAddr + len(b.sprites)*4)

	img := make([]byte, blobAddr)

	// header
	binary.LittleEndian.PutUint32(img[0:], Magic)
	c := img[4:]
	c[0] = byte(b.Config.Res)
	c[1] = b.Config.HRepeat
	c[2] = b.Config.VRepeat
	if b.Config.Blank {
		c[3] = 1
	}
	binary.LittleEndian.PutUint16(c[4:], b.Config.HOffset)
	binary.LittleEndian.PutUint16(c[6:], b.Config.HLength)
	binary.LittleEndian.PutUint16(c[8:], b.Config.VOffset)
	binary.LittleEndian.PutUint16(c[10:], b.Config.VLength)

	h := img[4+configLen:]
	binary.LittleEndian.PutUint16(h[0:], uint16(numFrames))
	binary.LittleEndian.PutUint16(h[2:], uint16(b.FirstFrame))
	binary.LittleEndian.PutUint16(h[4:], uint16(vlen))
	h[6] = uint8(b.FrameRateDivider)
	h[7] = uint8(b.BankNumber)
	h[8] = uint8(numPalettes)
	if b.PaletteAdvance {
		h[9] = 1
	}
	binary.LittleEndian.PutUint16(h[10:], uint16(len(b.sprites)))

	// palettes
	for i, p := range b.palettes {
		copy(img[paletteAddr+i*PaletteSize:], p)
	}

	// sprite blobs
	for i, s := range b.sprites {
		addr := len(img)
		binary.LittleEndian.PutUint32(img[spriteTableAddr+i*4:],
			uint32(s.Mode)<<28|uint32(s.PaletteIndex&0x0f)<<24|uint32(addr))

		bpp := s.Mode.BytesPerPixel()
		width := 0
		for _, r := range s.Rows {
			width = max(width, r.Offset+len(r.Pixels)/bpp)
		}

		blob := make([]byte, spriteDataOffset(len(s.Rows)))
		blob[0] = uint8(width)
		blob[1] = uint8(len(s.Rows))
		for j, r := range s.Rows {
			blob[2+j*2] = uint8(r.Offset)
			blob[3+j*2] = uint8(len(r.Pixels) / bpp)
		}
		for _, r := range s.Rows {
			blob = append(blob, r.Pixels...)
		}

		img = append(img, blob...)
		img = append(img, make([]byte, align4(len(img))-len(img))...)
	}

	// line data. identical lines are stored only once
	stored := make(map[string]uint32)
	for f, lines := range b.frames {
		for i, l := range lines {
			addr, ok := stored[string(l.Data)]
			if !ok {
				addr = uint32(len(img))
				stored[string(l.Data)] = addr
				img = append(img, l.Data...)
				img = append(img, make([]byte, align4(len(img))-len(img))...)
			}
			e := NewFrameTableEntry(addr, l.Mode, l.HRepeat, l.ScrollGroup)
			binary.LittleEndian.PutUint32(img[tableAddr+(f*vlen+i)*4:], uint32(e))
		}
	}

	if len(img) > psram.RAMSize {
		return nil, curated.Errorf("builder: image too large (%d bytes)", len(img))
	}

	return img, nil
}
