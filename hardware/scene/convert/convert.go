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

// Package convert creates scene images from ordinary images. The image is
// scaled to the frame geometry of the scene and encoded in one of the line
// modes.
//
// In palette mode the image is quantized to the Plan 9 palette. The occlusion
// bit of a palette pixel is bit 0 of the index so roughly half the pixels of a
// converted image will be occluding.
package convert

import (
	"image"
	"image/color"
	"image/color/palette"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"golang.org/x/image/draw"
)

// Options for the conversion.
type Options struct {
	Mode scene.LineMode

	// each pixel of the converted image is repeated horizontally. the width
	// of the converted image is the scene's HLength divided by HRepeat
	HRepeat int

	// scaler used to fit the image to the scene. defaults to draw.BiLinear
	Scaler draw.Scaler

	// use Floyd-Steinberg dithering in palette mode
	Dither bool

	// every pixel is marked as occluding. not used in palette mode
	Occlude bool
}

// Lines converts the image to scene lines. The returned palette is nil unless
// the mode is palette mode.
func Lines(img image.Image, cfg scene.Config, opts Options) ([]scene.Line, []byte, error) {
	if !opts.Mode.Valid() {
		return nil, nil, curated.Errorf("convert: invalid mode %s", opts.Mode)
	}
	opts.HRepeat = max(opts.HRepeat, 1)
	if opts.Scaler == nil {
		opts.Scaler = draw.BiLinear
	}

	w := int(cfg.HLength) / opts.HRepeat
	h := int(cfg.VLength)
	if w <= 0 || h <= 0 {
		return nil, nil, curated.Errorf("convert: scene has no area (%dx%d)", w, h)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	opts.Scaler.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	if opts.Mode == scene.ModePalette {
		return paletteLines(scaled, opts)
	}

	lines := make([]scene.Line, h)
	for y := range h {
		data := make([]byte, 0, w*opts.Mode.BytesPerPixel())
		for x := range w {
			c := scaled.RGBAAt(x, y)
			data = scene.AppendPixel(data, opts.Mode, c.R, c.G, c.B, opts.Occlude)
		}
		lines[y] = scene.Line{Data: data, Mode: opts.Mode, HRepeat: opts.HRepeat, ScrollGroup: -1}
	}

	return lines, nil, nil
}

func paletteLines(scaled *image.RGBA, opts Options) ([]scene.Line, []byte, error) {
	b := scaled.Bounds()
	pal := color.Palette(palette.Plan9)
	pimg := image.NewPaletted(b, pal)

	if opts.Dither {
		draw.FloydSteinberg.Draw(pimg, b, scaled, b.Min)
	} else {
		draw.Draw(pimg, b, scaled, b.Min, draw.Src)
	}

	lines := make([]scene.Line, b.Dy())
	for y := range b.Dy() {
		data := make([]byte, b.Dx())
		copy(data, pimg.Pix[y*pimg.Stride:])
		lines[y] = scene.Line{Data: data, Mode: scene.ModePalette, HRepeat: opts.HRepeat, ScrollGroup: -1}
	}

	p := make([]byte, scene.PaletteSize)
	for i, c := range pal {
		r, g, bl, _ := c.RGBA()
		p[i*3] = uint8(r >> 8)
		p[i*3+1] = uint8(g >> 8)
		p[i*3+2] = uint8(bl >> 8)
	}

	return lines, p, nil
}

// Scene converts the image to a complete scene image with a single frame.
func Scene(img image.Image, cfg scene.Config, opts Options) ([]byte, error) {
	lines, pal, err := Lines(img, cfg, opts)
	if err != nil {
		return nil, err
	}

	b := scene.NewBuilder(cfg)
	err = b.AddFrame(lines)
	if err != nil {
		return nil, err
	}
	if pal != nil {
		err = b.AddPalette(pal)
		if err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// Sprite converts the image to a sprite. The image is scaled to fit within
// the maximum sprite dimensions, preserving the aspect ratio. Pixels with an
// alpha of less than half are transparent and are trimmed from the start and
// end of each row. Remaining pixels are occluding.
//
// Palette mode sprites are not supported.
func Sprite(img image.Image, mode scene.LineMode) (scene.Sprite, error) {
	if !mode.Valid() || mode == scene.ModePalette {
		return scene.Sprite{}, curated.Errorf("convert: invalid sprite mode %s", mode)
	}

	b := img.Bounds()
	if b.Empty() {
		return scene.Sprite{}, curated.Errorf("convert: sprite image is empty")
	}

	w, h := b.Dx(), b.Dy()
	if w > scene.MaxSpriteWidth || h > scene.MaxSpriteHeight {
		if w >= h {
			h = max(h*scene.MaxSpriteWidth/w, 1)
			w = scene.MaxSpriteWidth
		} else {
			w = max(w*scene.MaxSpriteHeight/h, 1)
			h = scene.MaxSpriteHeight
		}
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	spr := scene.Sprite{Mode: mode}
	for y := range h {
		first, last := -1, -1
		for x := range w {
			if scaled.NRGBAAt(x, y).A >= 0x80 {
				if first == -1 {
					first = x
				}
				last = x
			}
		}

		row := scene.SpriteRow{}
		if first != -1 {
			row.Offset = first
			for x := first; x <= last; x++ {
				c := scaled.NRGBAAt(x, y)
				row.Pixels = scene.AppendPixel(row.Pixels, mode, c.R, c.G, c.B, c.A >= 0x80)
			}
		}
		spr.Rows = append(spr.Rows, row)
	}

	return spr, nil
}
