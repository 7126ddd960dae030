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

package tmds

import (
	"math/bits"

	"github.com/jetsetilly/dvigen/hardware/scene"
)

// The symbol channels of a SymbolBuffer.
const (
	Blue = iota
	Green
	Red
	NumChannels
)

// MaxSymbols is the widest line that can be held by a SymbolBuffer.
const MaxSymbols = 800

// SymbolBuffer holds the encoded symbols of one line.
type SymbolBuffer struct {
	Channels [NumChannels][MaxSymbols]uint16

	// the number of symbols in each channel
	Len int
}

// the running disparity of one channel
type encoder struct {
	cnt int
}

func (e *encoder) encode(d uint8) uint16 {
	n1 := bits.OnesCount8(d)

	// transition minimisation
	q := uint16(d & 0x01)
	xnor := n1 > 4 || (n1 == 4 && d&0x01 == 0)
	for i := 1; i < 8; i++ {
		b := (q >> (i - 1)) & 0x01
		b ^= uint16(d>>i) & 0x01
		if xnor {
			b ^= 0x01
		}
		q |= b << i
	}
	if !xnor {
		q |= 0x100
	}

	q8 := q&0x100 == 0x100
	n1q := bits.OnesCount16(q & 0xff)
	n0q := 8 - n1q

	// dc balancing
	var sym uint16
	switch {
	case e.cnt == 0 || n1q == n0q:
		if q8 {
			sym = q
			e.cnt += n1q - n0q
		} else {
			sym = 0x200 | (^q & 0xff)
			e.cnt += n0q - n1q
		}
	case (e.cnt > 0 && n1q > n0q) || (e.cnt < 0 && n0q > n1q):
		sym = 0x200 | (q & 0x100) | (^q & 0xff)
		e.cnt += n0q - n1q
		if q8 {
			e.cnt += 2
		}
	default:
		sym = q
		e.cnt += n1q - n0q
		if !q8 {
			e.cnt -= 2
		}
	}

	return sym
}

// Decode returns the 8 bit value of a data symbol.
func Decode(sym uint16) uint8 {
	d := uint8(sym)
	if sym&0x200 == 0x200 {
		d = ^d
	}

	v := d & 0x01
	for i := 1; i < 8; i++ {
		b := (d >> i) ^ (d >> (i - 1))
		if sym&0x100 == 0 {
			b = ^b
		}
		v |= (b & 0x01) << i
	}

	return v
}

// Line encodes lines of pixels. The zero value is ready to use.
type Line struct {
	enc [NumChannels]encoder

	// the largest disparity seen on any channel since the Line was created
	MaxDisparity int
}

// Encode the pixel data of a line into the symbol buffer. Each stored pixel
// is output hRepeat times. The line is encoded to width output pixels, or
// MaxSymbols if that is smaller, and pixels past the end of the stored data
// are output as black.
func (l *Line) Encode(mode scene.LineMode, pixels []byte, palette []byte, hRepeat int, width int, out *SymbolBuffer) {
	for i := range l.enc {
		l.enc[i].cnt = 0
	}

	hRepeat = max(hRepeat, 1)
	width = min(width, MaxSymbols)
	bpp := mode.BytesPerPixel()

	for x := range width {
		var r, g, b uint8
		i := (x / hRepeat) * bpp
		if i+bpp <= len(pixels) {
			r, g, b = scene.PixelRGB(mode, pixels[i:i+bpp], palette)
		}
		out.Channels[Blue][x] = l.enc[Blue].encode(b)
		out.Channels[Green][x] = l.enc[Green].encode(g)
		out.Channels[Red][x] = l.enc[Red].encode(r)

		for c := range l.enc {
			l.MaxDisparity = max(l.MaxDisparity, l.enc[c].cnt, -l.enc[c].cnt)
		}
	}

	out.Len = width
}

// EncodeLine is a convenience function for encoding a single line without
// keeping a Line value.
func EncodeLine(mode scene.LineMode, pixels []byte, palette []byte, hRepeat int, width int, out *SymbolBuffer) {
	var l Line
	l.Encode(mode, pixels, palette, hRepeat, width, out)
}

// Pixel returns the decoded colour of the symbols at position x.
func (b *SymbolBuffer) Pixel(x int) (r, g, bl uint8) {
	return Decode(b.Channels[Red][x]), Decode(b.Channels[Green][x]), Decode(b.Channels[Blue][x])
}
