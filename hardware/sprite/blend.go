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

package sprite

import (
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/dvigen/hardware/scene"
)

// BlendMode specifies how sprite pixels are combined with the destination
// line.
type BlendMode int

// List of valid BlendMode values.
const (
	// destination always becomes the source
	Replace BlendMode = iota

	// destination is kept where its occlusion bit is set, otherwise the
	// source is used
	DepthBack

	// source is used where its occlusion bit is set, otherwise the
	// destination is kept
	DepthFront

	// as DepthBack and DepthFront but the chosen pixels are the average of
	// the source and destination
	AverageBack
	AverageFront

	numBlendModes
)

func (b BlendMode) String() string {
	switch b {
	case Replace:
		return "replace"
	case DepthBack:
		return "depth-back"
	case DepthFront:
		return "depth-front"
	case AverageBack:
		return "average-back"
	case AverageFront:
		return "average-front"
	}
	return fmt.Sprintf("blend(%d)", int(b))
}

// Valid returns true if the blend mode is one of the defined modes.
func (b BlendMode) Valid() bool {
	return b >= Replace && b < numBlendModes
}

// Next returns the blend mode after this one, wrapping round to Replace.
func (b BlendMode) Next() BlendMode {
	return (b + 1) % numBlendModes
}

// effective returns the blend mode that is actually used for the line mode.
// formats without an occlusion bit cannot make a depth decision so the depth
// modes become Replace and the average modes always average. the palette
// format cannot average colour indices so the average modes fall back to
// depth selection
func (b BlendMode) effective(mode scene.LineMode) BlendMode {
	switch mode {
	case scene.ModeRGB888, scene.ModeRGB565:
		switch b {
		case DepthBack, DepthFront:
			return Replace
		}
	case scene.ModePalette:
		switch b {
		case AverageBack:
			return DepthBack
		case AverageFront:
			return DepthFront
		}
	}
	return b
}

// per format masks for the packed word blends. a word holds two 16 bit
// pixels, four palette pixels or four RGB888 channels
const (
	occlusion1555 = 0x80008000
	colour1555    = 0x7fff7fff
	avgMask1555   = 0x7bde7bde
	avgMask565    = 0xf7def7de
	avgMask888    = 0xfefefefe
	occlusionPal  = 0x01010101
)

// selection mask for a word. every bit of a pixel is set if the pixel's
// occlusion bit is set
func occlusionMask(mode scene.LineMode, w uint32) uint32 {
	if mode == scene.ModePalette {
		return (w & occlusionPal) * 0xff
	}
	return ((w & occlusion1555) >> 15) * 0xffff
}

// channel average of two words. the low bit of every channel is removed
// before the halving shift so that no bit crosses into a neighbouring channel
func averageWord(mode scene.LineMode, s, d uint32) uint32 {
	switch mode {
	case scene.ModeARGB1555:
		return (s & d & colour1555) + (((s ^ d) & avgMask1555) >> 1) | (d & occlusion1555)
	case scene.ModeRGB565:
		return (s & d) + (((s ^ d) & avgMask565) >> 1)
	}
	return (s & d) + (((s ^ d) & avgMask888) >> 1)
}

func blendWord(mode scene.LineMode, blend BlendMode, s, d uint32) uint32 {
	switch blend {
	case DepthBack:
		m := occlusionMask(mode, d)
		return (d & m) | (s &^ m)
	case DepthFront:
		m := occlusionMask(mode, s)
		return (s & m) | (d &^ m)
	case AverageBack:
		a := averageWord(mode, s, d)
		if !mode.HasOcclusion() {
			return a
		}
		m := occlusionMask(mode, d)
		return (d & m) | (a &^ m)
	case AverageFront:
		a := averageWord(mode, s, d)
		if !mode.HasOcclusion() {
			return a
		}
		m := occlusionMask(mode, s)
		return (a & m) | (d &^ m)
	}
	return s
}

// Blend combines src into dst according to the line mode and blend mode. Only
// the bytes common to both slices are affected. The slices must start on a
// pixel boundary.
//
// The bulk of the data is processed four bytes at a time. Any remaining bytes
// are processed one pixel at a time.
func Blend(dst []byte, src []byte, mode scene.LineMode, blend BlendMode) {
	n := min(len(dst), len(src))
	dst = dst[:n]
	src = src[:n]

	blend = blend.effective(mode)
	if blend == Replace {
		copy(dst, src)
		return
	}

	i := 0
	for ; i+4 <= n; i += 4 {
		s := binary.LittleEndian.Uint32(src[i:])
		d := binary.LittleEndian.Uint32(dst[i:])
		binary.LittleEndian.PutUint32(dst[i:], blendWord(mode, blend, s, d))
	}

	if i < n {
		blendPixels(dst[i:], src[i:], mode, blend)
	}
}

// blendPixels is the pixel by pixel equivalent of Blend()
func blendPixels(dst []byte, src []byte, mode scene.LineMode, blend BlendMode) {
	n := min(len(dst), len(src))
	blend = blend.effective(mode)

	switch mode {
	case scene.ModeARGB1555, scene.ModeRGB565:
		for i := 0; i+2 <= n; i += 2 {
			s := uint16(src[i]) | uint16(src[i+1])<<8
			d := uint16(dst[i]) | uint16(dst[i+1])<<8
			d = blendPixel16(mode, blend, s, d)
			dst[i] = byte(d)
			dst[i+1] = byte(d >> 8)
		}

	case scene.ModePalette:
		for i := range n {
			switch blend {
			case Replace:
				dst[i] = src[i]
			case DepthBack:
				if dst[i]&0x01 == 0 {
					dst[i] = src[i]
				}
			case DepthFront:
				if src[i]&0x01 == 0x01 {
					dst[i] = src[i]
				}
			}
		}

	case scene.ModeRGB888:
		// each byte is a complete colour channel
		for i := range n {
			switch blend {
			case AverageBack, AverageFront:
				dst[i] = uint8((int(src[i]) + int(dst[i])) / 2)
			default:
				dst[i] = src[i]
			}
		}
	}
}

// channel widths and positions of the 16 bit formats, ordered red, green, blue
var channels16 = map[scene.LineMode][3][2]uint{
	scene.ModeARGB1555: {{10, 5}, {5, 5}, {0, 5}},
	scene.ModeRGB565:   {{11, 5}, {5, 6}, {0, 5}},
}

func average16(mode scene.LineMode, s, d uint16) uint16 {
	var v uint16
	for _, c := range channels16[mode] {
		m := uint16(1)<<c[1] - 1
		a := (s >> c[0]) & m
		b := (d >> c[0]) & m
		v |= ((a + b) / 2) << c[0]
	}
	if mode == scene.ModeARGB1555 {
		v |= d & 0x8000
	}
	return v
}

func blendPixel16(mode scene.LineMode, blend BlendMode, s, d uint16) uint16 {
	occS := mode.HasOcclusion() && s&0x8000 == 0x8000
	occD := mode.HasOcclusion() && d&0x8000 == 0x8000

	switch blend {
	case Replace:
		return s
	case DepthBack:
		if occD {
			return d
		}
		return s
	case DepthFront:
		if occS {
			return s
		}
		return d
	case AverageBack:
		if occD {
			return d
		}
		return average16(mode, s, d)
	case AverageFront:
		if !mode.HasOcclusion() || occS {
			return average16(mode, s, d)
		}
		return d
	}
	return s
}
