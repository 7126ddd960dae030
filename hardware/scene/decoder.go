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

// Sentinal error patterns.
const (
	NoValidContent    = "scene: no valid content (magic %08x)"
	InvalidGeometry   = "scene: invalid geometry: %s"
	UnknownResolution = "scene: unknown resolution %q"
	InvalidSprite     = "scene: invalid sprite %d: %s"
	InvalidFrame      = "scene: frame %d out of range"
)

// Memory is the interface to the memory engine required by the Decoder.
type Memory interface {
	Read(addr uint32, buf []byte) (*psram.Transfer, error)
	ReadBlocking(addr uint32, buf []byte) error
}

// Decoder reads scene records from memory.
type Decoder struct {
	mem Memory

	// the most recent header read by ReadHeaders()
	Config Config
	Header FrameTableHeader

	// scratch buffers. the frame table buffer is large enough for the largest
	// supported frame
	hdr   [HeaderLen]byte
	table [MaxFrameHeight * 4]byte
	word  [4]byte
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(mem Memory) *Decoder {
	return &Decoder{mem: mem}
}

// ReadHeaders reads the magic word, the config and the frame table header in
// a single blocking read. Returns a NoValidContent error if the magic word is
// wrong.
func (dec *Decoder) ReadHeaders() error {
	err := dec.mem.ReadBlocking(0, dec.hdr[:])
	if err != nil {
		return curated.Errorf("scene: %v", err)
	}

	magic := binary.LittleEndian.Uint32(dec.hdr[0:])
	if magic != Magic {
		return curated.Errorf(NoValidContent, magic)
	}

	c := dec.hdr[4:]
	dec.Config = Config{
		Res:     Resolution(c[0]),
		HRepeat: c[1],
		VRepeat: c[2],
		Blank:   c[3] != 0,
		HOffset: binary.LittleEndian.Uint16(c[4:]),
		HLength: binary.LittleEndian.Uint16(c[6:]),
		VOffset: binary.LittleEndian.Uint16(c[8:]),
		VLength: binary.LittleEndian.Uint16(c[10:]),
	}

	h := dec.hdr[4+configLen:]
	dec.Header = FrameTableHeader{
		NumFrames:        binary.LittleEndian.Uint16(h[0:]),
		FirstFrame:       binary.LittleEndian.Uint16(h[2:]),
		FrameTableLength: binary.LittleEndian.Uint16(h[4:]),
		FrameRateDivider: h[6],
		BankNumber:       h[7],
		NumPalettes:      h[8],
		PaletteAdvance:   h[9] != 0,
		NumSprites:       binary.LittleEndian.Uint16(h[10:]),
	}

	return dec.validate()
}

func (dec *Decoder) validate() error {
	c := dec.Config
	h := dec.Header

	if c.VLength == 0 || c.VLength > MaxFrameHeight || c.VLength%2 != 0 {
		return curated.Errorf(InvalidGeometry, "vertical length")
	}
	if c.HLength == 0 || c.HLength > MaxFrameWidth {
		return curated.Errorf(InvalidGeometry, "horizontal length")
	}
	if c.VRepeat != 1 && c.VRepeat != 2 {
		return curated.Errorf(InvalidGeometry, "vertical repeat")
	}
	if h.FrameTableLength != c.VLength {
		return curated.Errorf(InvalidGeometry, "frame table length does not match vertical length")
	}
	if h.NumFrames == 0 || h.FirstFrame >= h.NumFrames {
		return curated.Errorf(InvalidGeometry, "frame count")
	}

	return nil
}

// frameTableAddr returns the address of the frame table for the frame
func (dec *Decoder) frameTableAddr(frame int) uint32 {
	return uint32(HeaderLen + frame*int(dec.Header.FrameTableLength)*4)
}

// PaletteTableAddr returns the address of the first palette.
func (dec *Decoder) PaletteTableAddr() uint32 {
	return dec.frameTableAddr(int(dec.Header.NumFrames))
}

// number of palettes in the palette table
func (dec *Decoder) paletteCount() int {
	n := int(dec.Header.NumPalettes)
	if dec.Header.PaletteAdvance {
		n *= int(dec.Header.NumFrames)
	}
	return n
}

// SpriteTableAddr returns the address of the sprite table.
func (dec *Decoder) SpriteTableAddr() uint32 {
	return dec.PaletteTableAddr() + uint32(dec.paletteCount()*PaletteSize)
}

// GetFrameTable reads the frame table for the frame. The out slice must have
// room for FrameTableLength entries.
func (dec *Decoder) GetFrameTable(frame int, out []FrameTableEntry) error {
	if frame < 0 || frame >= int(dec.Header.NumFrames) {
		return curated.Errorf(InvalidFrame, frame)
	}

	n := int(dec.Header.FrameTableLength)
	b := dec.table[:n*4]
	err := dec.mem.ReadBlocking(dec.frameTableAddr(frame), b)
	if err != nil {
		return curated.Errorf("scene: %v", err)
	}

	for i := range n {
		out[i] = FrameTableEntry(binary.LittleEndian.Uint32(b[i*4:]))
	}

	return nil
}

// PaletteAddr returns the address of the palette for the frame. If palette
// advance is not set then the frame is ignored.
func (dec *Decoder) PaletteAddr(idx int, frame int) uint32 {
	if dec.Header.PaletteAdvance {
		idx += int(dec.Header.NumPalettes) * frame
	}
	return dec.PaletteTableAddr() + uint32(idx*PaletteSize)
}

// GetPalette starts an asynchronous read of the palette into out, which must
// be PaletteSize bytes long.
func (dec *Decoder) GetPalette(idx int, frame int, out []byte) (*psram.Transfer, error) {
	if idx < 0 || idx >= int(dec.Header.NumPalettes) {
		return nil, curated.Errorf("scene: palette %d out of range", idx)
	}
	return dec.mem.Read(dec.PaletteAddr(idx, frame), out[:PaletteSize])
}

// GetSpriteHeader reads the header of the sprite. The width and height are
// read from the sprite blob.
func (dec *Decoder) GetSpriteHeader(idx int) (SpriteHeader, error) {
	if idx < 0 || idx >= int(dec.Header.NumSprites) {
		return SpriteHeader{}, curated.Errorf(InvalidSprite, idx, "no such sprite")
	}

	err := dec.mem.ReadBlocking(dec.SpriteTableAddr()+uint32(idx*4), dec.word[:])
	if err != nil {
		return SpriteHeader{}, curated.Errorf("scene: %v", err)
	}

	w := binary.LittleEndian.Uint32(dec.word[:])
	hdr := SpriteHeader{
		Mode:         LineMode(w >> 28),
		PaletteIndex: uint8((w >> 24) & 0x0f),
		Address:      w & 0xffffff,
	}

	err = dec.mem.ReadBlocking(hdr.Address, dec.word[:2])
	if err != nil {
		return SpriteHeader{}, curated.Errorf("scene: %v", err)
	}
	hdr.Width = dec.word[0]
	hdr.Height = dec.word[1]

	if !hdr.Mode.Valid() {
		return SpriteHeader{}, curated.Errorf(InvalidSprite, idx, hdr.Mode)
	}
	if hdr.Width > MaxSpriteWidth || hdr.Height > MaxSpriteHeight {
		return SpriteHeader{}, curated.Errorf(InvalidSprite, idx, "too large")
	}

	return hdr, nil
}

// spriteDataOffset returns the offset of the pixel data from the start of the
// sprite blob. the row descriptions start at byte 2 and the pixel data starts
// on the next word boundary
func spriteDataOffset(height int) int {
	return 4 + 4*(height/2)
}

// GetSprite reads the row descriptions and pixel data of the sprite. The lines
// slice must have room for hdr.Height entries and the data slice must be
// MaxSpriteDataBytes long. Returns the number of bytes of pixel data.
func (dec *Decoder) GetSprite(hdr SpriteHeader, lines []SpriteLine, data []byte) (int, error) {
	h := int(hdr.Height)
	if h == 0 {
		return 0, nil
	}

	b := data[:h*2]
	err := dec.mem.ReadBlocking(hdr.Address+2, b)
	if err != nil {
		return 0, curated.Errorf("scene: %v", err)
	}

	bpp := hdr.Mode.BytesPerPixel()
	n := 0
	for i := range h {
		lines[i] = SpriteLine{
			Offset:    b[i*2],
			Width:     b[i*2+1],
			DataStart: uint16(n),
		}
		if int(lines[i].Offset)+int(lines[i].Width) > MaxSpriteWidth {
			return 0, curated.Errorf(InvalidSprite, hdr.Address, "row too wide")
		}
		n += int(lines[i].Width) * bpp
	}

	if n > MaxSpriteDataBytes {
		return 0, curated.Errorf(InvalidSprite, hdr.Address, "too much pixel data")
	}

	err = dec.mem.ReadBlocking(hdr.Address+uint32(spriteDataOffset(h)), data[:n])
	if err != nil {
		return 0, curated.Errorf("scene: %v", err)
	}

	return n, nil
}
