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
	"fmt"

	"github.com/jetsetilly/dvigen/curated"
)

// Magic word at the start of every valid scene.
const Magic = 0x4F434950

// Lengths of the header records.
const (
	configLen      = 12
	tableHeaderLen = 12
	HeaderLen      = 4 + configLen + tableHeaderLen
)

// Limits of the scene layout.
const (
	MaxFrameWidth      = 720
	MaxFrameHeight     = 576
	MaxSprites         = 32
	MaxSpriteWidth     = 64
	MaxSpriteHeight    = 64
	MaxSpriteDataBytes = 2048
	PaletteEntries     = 256
	PaletteSize        = PaletteEntries * 3
)

// Resolution of the display.
type Resolution uint8

// List of valid Resolution values.
const (
	ResolutionOff Resolution = iota
	Resolution640x480
	Resolution720x576
	Resolution800x480
	Resolution800x600
)

func (r Resolution) String() string {
	switch r {
	case ResolutionOff:
		return "off"
	case Resolution640x480:
		return "640x480"
	case Resolution720x576:
		return "720x576"
	case Resolution800x480:
		return "800x480"
	case Resolution800x600:
		return "800x600"
	}
	return fmt.Sprintf("resolution(%d)", uint8(r))
}

// ParseResolution is the inverse of Resolution.String().
func ParseResolution(s string) (Resolution, error) {
	for r := ResolutionOff; r <= Resolution800x600; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return ResolutionOff, curated.Errorf(UnknownResolution, s)
}

// LineMode is the pixel encoding of a line or sprite.
type LineMode uint8

// List of valid LineMode values.
//
// ARGB1555 is two bytes per pixel with the occlusion bit in bit 15. Palette is
// one byte per pixel, an index into a 256 entry palette, with the occlusion
// bit in bit 0. RGB888 and RGB565 have no occlusion bit.
const (
	ModeARGB1555 LineMode = 1
	ModePalette  LineMode = 2
	ModeRGB888   LineMode = 3
	ModeRGB565   LineMode = 4
)

func (m LineMode) String() string {
	switch m {
	case ModeARGB1555:
		return "ARGB1555"
	case ModePalette:
		return "palette"
	case ModeRGB888:
		return "RGB888"
	case ModeRGB565:
		return "RGB565"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid returns true if the mode is one of the supported modes.
func (m LineMode) Valid() bool {
	return m >= ModeARGB1555 && m <= ModeRGB565
}

// BytesPerPixel returns the number of bytes used for each pixel in the mode.
func (m LineMode) BytesPerPixel() int {
	switch m {
	case ModePalette:
		return 1
	case ModeRGB888:
		return 3
	}
	return 2
}

// HasOcclusion returns true if the mode reserves a bit for occlusion.
func (m LineMode) HasOcclusion() bool {
	return m == ModeARGB1555 || m == ModePalette
}

// Config is the global configuration of the scene. It is read every frame.
type Config struct {
	Res     Resolution
	HRepeat uint8
	VRepeat uint8
	Blank   bool
	HOffset uint16
	HLength uint16
	VOffset uint16
	VLength uint16
}

func (c Config) String() string {
	return fmt.Sprintf("%s %dx%d at %d,%d (v repeat %d)", c.Res, c.HLength, c.VLength, c.HOffset, c.VOffset, c.VRepeat)
}

// FrameTableHeader describes the frame tables and the tables that follow them.
type FrameTableHeader struct {
	NumFrames        uint16
	FirstFrame       uint16
	FrameTableLength uint16
	FrameRateDivider uint8
	BankNumber       uint8
	NumPalettes      uint8
	PaletteAdvance   bool
	NumSprites       uint16
}

// NumScrollGroups is the number of scroll groups a frame table entry can
// select.
const NumScrollGroups = 3

// FrameTableEntry describes one line of a frame.
//
//	bits 31-30  scroll group (0 = none, 1 to 3 select group 0 to 2)
//	bits 29-27  line mode
//	bits 26-24  horizontal repeat (0 is treated as 1)
//	bits 23-0   address of pixel data
type FrameTableEntry uint32

// NewFrameTableEntry creates a FrameTableEntry. A scroll group of -1 means no
// scroll group.
func NewFrameTableEntry(addr uint32, mode LineMode, hRepeat int, scrollGroup int) FrameTableEntry {
	e := uint32(scrollGroup+1) << 30
	e |= uint32(mode&0x07) << 27
	e |= uint32(hRepeat&0x07) << 24
	e |= addr & 0xffffff
	return FrameTableEntry(e)
}

// ScrollGroup returns the index of the scroll group or -1 if no scroll group
// applies.
func (e FrameTableEntry) ScrollGroup() int {
	return int(e>>30) - 1
}

// Mode returns the pixel encoding of the line.
func (e FrameTableEntry) Mode() LineMode {
	return LineMode((e >> 27) & 0x07)
}

// HRepeat returns the horizontal repeat. The value is never zero.
func (e FrameTableEntry) HRepeat() int {
	r := int((e >> 24) & 0x07)
	if r == 0 {
		return 1
	}
	return r
}

// Address of the line's pixel data.
func (e FrameTableEntry) Address() uint32 {
	return uint32(e) & 0xffffff
}

func (e FrameTableEntry) String() string {
	return fmt.Sprintf("%06x %s x%d scroll %d", e.Address(), e.Mode(), e.HRepeat(), e.ScrollGroup())
}

// SpriteHeader describes a sprite blob.
type SpriteHeader struct {
	Mode         LineMode
	PaletteIndex uint8
	Address      uint32
	Width        uint8
	Height       uint8
}

// SpriteLine describes one row of a sprite. DataStart is the offset of the
// row's pixels from the start of the sprite's pixel data.
type SpriteLine struct {
	Offset    uint8
	Width     uint8
	DataStart uint16
}
