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

// AppendPixel appends a single pixel in the mode to the byte slice. The
// occlude argument sets the occlusion bit for modes that have one. Palette
// mode pixels are appended with AppendIndex() instead.
func AppendPixel(b []byte, mode LineMode, r, g, bl uint8, occlude bool) []byte {
	switch mode {
	case ModeARGB1555:
		p := uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(bl>>3)
		if occlude {
			p |= 0x8000
		}
		return append(b, byte(p), byte(p>>8))
	case ModeRGB565:
		p := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(bl>>3)
		return append(b, byte(p), byte(p>>8))
	case ModeRGB888:
		return append(b, r, g, bl)
	}
	return append(b, 0)
}

// AppendIndex appends a palette mode pixel. Only indexes with bit 0 set can be
// occluding so the index is adjusted according to the occlude argument.
func AppendIndex(b []byte, idx uint8, occlude bool) []byte {
	if occlude {
		return append(b, idx|0x01)
	}
	return append(b, idx&0xfe)
}

// PixelRGB returns the colour of the pixel at the start of the byte slice.
// The palette is only used for palette mode.
func PixelRGB(mode LineMode, p []byte, palette []byte) (r, g, b uint8) {
	switch mode {
	case ModeARGB1555:
		v := uint16(p[0]) | uint16(p[1])<<8
		return expand5(v >> 10), expand5(v >> 5), expand5(v)
	case ModeRGB565:
		v := uint16(p[0]) | uint16(p[1])<<8
		return expand5(v >> 11), expand6(v >> 5), expand5(v)
	case ModeRGB888:
		return p[0], p[1], p[2]
	case ModePalette:
		i := int(p[0]) * 3
		return palette[i], palette[i+1], palette[i+2]
	}
	return 0, 0, 0
}

func expand5(v uint16) uint8 {
	c := uint8(v & 0x1f)
	return c<<3 | c>>2
}

func expand6(v uint16) uint8 {
	c := uint8(v & 0x3f)
	return c<<2 | c>>4
}
