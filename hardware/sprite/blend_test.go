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

package sprite_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/test"
)

var modes = []scene.LineMode{scene.ModeARGB1555, scene.ModePalette, scene.ModeRGB888, scene.ModeRGB565}

var blends = []sprite.BlendMode{sprite.Replace, sprite.DepthBack, sprite.DepthFront, sprite.AverageBack, sprite.AverageFront}

func randomLine(rnd *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rnd.Read(b)
	return b
}

// the word blends must give the same result as the pixel blends for every
// length, including those that leave a partial word at the end
func TestPackedEqualsPixelwise(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, mode := range modes {
		bpp := mode.BytesPerPixel()
		for _, blend := range blends {
			for pixels := 1; pixels <= 21; pixels++ {
				for range 10 {
					n := pixels * bpp
					src := randomLine(rnd, n)
					dst := randomLine(rnd, n)

					packed := bytes.Clone(dst)
					sprite.Blend(packed, src, mode, blend)

					naive := bytes.Clone(dst)
					sprite.BlendPixels(naive, src, mode, blend)

					if !test.ExpectSuccess(t, bytes.Equal(packed, naive), mode, blend, pixels) {
						return
					}
				}
			}
		}
	}
}

func TestReplace(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for _, mode := range modes {
		src := randomLine(rnd, 30)
		dst := randomLine(rnd, 30)
		sprite.Blend(dst, src, mode, sprite.Replace)
		test.ExpectSuccess(t, bytes.Equal(dst, src), mode)
	}
}

// depth-back never overwrites an occluded destination pixel
func TestDepthBack(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	src := randomLine(rnd, 64)
	dst := randomLine(rnd, 64)
	orig := bytes.Clone(dst)
	sprite.Blend(dst, src, scene.ModeARGB1555, sprite.DepthBack)
	for i := 0; i < len(dst); i += 2 {
		if orig[i+1]&0x80 == 0x80 {
			test.ExpectEquality(t, dst[i], orig[i], i)
			test.ExpectEquality(t, dst[i+1], orig[i+1], i)
		} else {
			test.ExpectEquality(t, dst[i], src[i], i)
			test.ExpectEquality(t, dst[i+1], src[i+1], i)
		}
	}

	src = randomLine(rnd, 64)
	dst = randomLine(rnd, 64)
	orig = bytes.Clone(dst)
	sprite.Blend(dst, src, scene.ModePalette, sprite.DepthBack)
	for i := range dst {
		if orig[i]&0x01 == 0x01 {
			test.ExpectEquality(t, dst[i], orig[i], i)
		} else {
			test.ExpectEquality(t, dst[i], src[i], i)
		}
	}
}

func TestDepthFront(t *testing.T) {
	src := scene.AppendPixel(nil, scene.ModeARGB1555, 0xff, 0, 0, true)
	src = scene.AppendPixel(src, scene.ModeARGB1555, 0xff, 0, 0, false)
	dst := scene.AppendPixel(nil, scene.ModeARGB1555, 0, 0xff, 0, true)
	dst = scene.AppendPixel(dst, scene.ModeARGB1555, 0, 0xff, 0, true)
	orig := bytes.Clone(dst)

	sprite.Blend(dst, src, scene.ModeARGB1555, sprite.DepthFront)
	test.ExpectSuccess(t, bytes.Equal(dst[:2], src[:2]))
	test.ExpectSuccess(t, bytes.Equal(dst[2:], orig[2:]))
}

func TestAverage(t *testing.T) {
	src := scene.AppendPixel(nil, scene.ModeRGB565, 0xf8, 0x00, 0x80, false)
	dst := scene.AppendPixel(nil, scene.ModeRGB565, 0x00, 0xfc, 0x80, false)
	sprite.Blend(dst, src, scene.ModeRGB565, sprite.AverageBack)
	r, g, b := scene.PixelRGB(scene.ModeRGB565, dst, nil)
	test.ExpectEquality(t, r, uint8(0x7b))
	test.ExpectEquality(t, g, uint8(0x7d))
	test.ExpectEquality(t, b, uint8(0x84))

	// average-front on ARGB1555 only affects pixels with the occlusion bit
	// set in the source and keeps the destination's occlusion bit
	src = scene.AppendPixel(nil, scene.ModeARGB1555, 0xf8, 0xf8, 0xf8, true)
	src = scene.AppendPixel(src, scene.ModeARGB1555, 0xf8, 0xf8, 0xf8, false)
	dst = scene.AppendPixel(nil, scene.ModeARGB1555, 0, 0, 0, false)
	dst = scene.AppendPixel(dst, scene.ModeARGB1555, 0, 0, 0, false)
	sprite.Blend(dst, src, scene.ModeARGB1555, sprite.AverageFront)
	test.ExpectEquality(t, dst[0], uint8(0xef))
	test.ExpectEquality(t, dst[1], uint8(0x3d))
	test.ExpectEquality(t, dst[2], uint8(0x00))
	test.ExpectEquality(t, dst[3], uint8(0x00))
}

func TestBlendModeNext(t *testing.T) {
	b := sprite.Replace
	for range 5 {
		test.ExpectSuccess(t, b.Valid())
		b = b.Next()
	}
	test.ExpectEquality(t, b, sprite.Replace)
	test.ExpectSuccess(t, !sprite.BlendMode(7).Valid())
}

func TestApply(t *testing.T) {
	line := make([]byte, 8)
	sprite.Apply(line, []sprite.Patch{
		{Src: []byte{1, 1, 1}, Offset: 2, Mode: scene.ModePalette, Blend: sprite.Replace},
		{Src: []byte{2, 3}, Offset: 3, Mode: scene.ModePalette, Blend: sprite.DepthFront},
		{Src: []byte{9, 9, 9}, Offset: 6, Mode: scene.ModePalette, Blend: sprite.Replace},
	})
	test.ExpectSuccess(t, bytes.Equal(line, []byte{0, 0, 1, 1, 3, 0, 9, 9}))
}
