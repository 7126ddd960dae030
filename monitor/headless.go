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

package monitor

import (
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/tmds"
)

// ScanlineOutsideFrame is returned by Headless.Scanline() when no frame has
// begun.
const ScanlineOutsideFrame = "monitor: scanline outside of frame"

// Headless decodes the symbol stream into an image. The image covers the
// entire active area of the display mode and the scene is drawn at its
// horizontal and vertical offset.
type Headless struct {
	crit sync.Mutex

	info  FrameInfo
	img   *image.RGBA
	lines int

	// state of the most recently completed frame
	frames    int
	lastLines int
	digest    [sha1.Size]byte
	last      *image.RGBA

	// called at the end of every frame, from the serializer's goroutine
	onFrame func(info FrameInfo, img *image.RGBA)
}

// NewHeadless is the preferred method of initialisation for the Headless type.
func NewHeadless() *Headless {
	return &Headless{}
}

// SetFrameHook sets a function to be called at the end of every frame. The
// image must not be retained after the function returns.
func (mon *Headless) SetFrameHook(f func(info FrameInfo, img *image.RGBA)) {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	mon.onFrame = f
}

// BeginFrame implements the Monitor interface.
func (mon *Headless) BeginFrame(info FrameInfo) error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	w := info.Spec.Horizontal.Active
	h := info.Spec.Vertical.Active
	if mon.img == nil || mon.img.Bounds().Dx() != w || mon.img.Bounds().Dy() != h {
		mon.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		clear(mon.img.Pix)
	}

	mon.info = info
	mon.lines = 0
	return nil
}

// Scanline implements the Monitor interface.
func (mon *Headless) Scanline(line int, symbols *tmds.SymbolBuffer) error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	if mon.img == nil {
		return curated.Errorf(ScanlineOutsideFrame)
	}

	mon.lines++

	y := int(mon.info.Config.VOffset) + line
	if y < 0 || y >= mon.img.Bounds().Dy() {
		return nil
	}

	x0 := int(mon.info.Config.HOffset)
	w := mon.img.Bounds().Dx()
	for x := range symbols.Len {
		if x0+x >= w {
			break
		}
		r, g, b := symbols.Pixel(x)
		mon.img.SetRGBA(x0+x, y, color.RGBA{R: r, G: g, B: b, A: 255})
	}

	return nil
}

// EndFrame implements the Monitor interface.
func (mon *Headless) EndFrame() error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	if mon.img == nil {
		return nil
	}

	mon.frames++
	mon.lastLines = mon.lines
	mon.digest = sha1.Sum(mon.img.Pix)

	if mon.last == nil || mon.last.Bounds() != mon.img.Bounds() {
		mon.last = image.NewRGBA(mon.img.Bounds())
	}
	copy(mon.last.Pix, mon.img.Pix)

	if mon.onFrame != nil {
		mon.onFrame(mon.info, mon.img)
	}

	return nil
}

// Frames returns the number of completed frames.
func (mon *Headless) Frames() int {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	return mon.frames
}

// Lines returns the number of scanlines received for the most recently
// completed frame.
func (mon *Headless) Lines() int {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	return mon.lastLines
}

// Digest returns the sha1 digest of the most recently completed frame.
func (mon *Headless) Digest() string {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	return fmt.Sprintf("%x", mon.digest)
}

// Image returns a copy of the most recently completed frame. Returns nil if
// no frame has been completed.
func (mon *Headless) Image() *image.RGBA {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	if mon.last == nil {
		return nil
	}
	img := image.NewRGBA(mon.last.Bounds())
	copy(img.Pix, mon.last.Pix)
	return img
}
