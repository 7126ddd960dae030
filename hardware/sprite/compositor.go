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
	"fmt"
	"sync"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/logger"
)

// Source is the origin of sprite data. It is implemented by the
// scene.Decoder.
type Source interface {
	GetSpriteHeader(idx int) (scene.SpriteHeader, error)
	GetSprite(hdr scene.SpriteHeader, lines []scene.SpriteLine, data []byte) (int, error)
}

// Frame is the view of the frame being prepared that the Compositor needs.
// It is implemented by the display pipeline.
type Frame interface {
	// the number of displayed pixels in a line and the number of lines in
	// the frame
	Geometry() (hLength int, vLength int)

	// the pixel mode and horizontal repeat of the line
	LineMode(line int) scene.LineMode
	HRepeat(line int) int

	// add a patch to the line. returns false if the patch was dropped
	AddPatch(line int, p Patch) bool

	Memory() Source
}

// Sprite is the host controlled part of a sprite slot.
type Sprite struct {
	X int
	Y int

	// index into the scene's sprite table. a value of -1 disables the slot
	Index int

	Blend BlendMode

	// the number of destination lines for each row of the sprite. always
	// at least one
	VScale int
}

func (s Sprite) String() string {
	if s.Index < 0 {
		return "disabled"
	}
	return fmt.Sprintf("%d at %d,%d %s x%d", s.Index, s.X, s.Y, s.Blend, s.VScale)
}

// the fetched data for a sprite slot
type content struct {
	valid bool
	hdr   scene.SpriteHeader
	lines [scene.MaxSpriteHeight]scene.SpriteLine
	data  [scene.MaxSpriteDataBytes]byte
}

// Stats are the cumulative counts of the compositor's work.
type Stats struct {
	Fetches     int
	Reused      int
	Patches     int
	Drops       int
	FetchErrors int
}

func (s Stats) String() string {
	return fmt.Sprintf("fetches: %d, reused: %d, patches: %d, drops: %d, errors: %d",
		s.Fetches, s.Reused, s.Patches, s.Drops, s.FetchErrors)
}

// Compositor turns the sprite slots into patches once per frame.
type Compositor struct {
	// crit protects the slots and stats. slots can be changed by the host
	// while the compositor is running
	crit  sync.Mutex
	slots [scene.MaxSprites]Sprite
	stats Stats

	// copy of the slots taken at the start of Update()
	work    [scene.MaxSprites]Sprite
	content [scene.MaxSprites]content
}

// SlotOutOfRange is returned by the slot functions for an invalid slot number.
const SlotOutOfRange = "sprite: slot %d out of range"

// NewCompositor is the preferred method of initialisation for the Compositor
// type. All slots are disabled.
func NewCompositor() *Compositor {
	c := &Compositor{}
	for i := range c.slots {
		c.slots[i] = Sprite{Index: -1, VScale: 1}
	}
	return c
}

// Set assigns scene content and a blend mode to a slot. An index of -1
// disables the slot.
func (c *Compositor) Set(slot int, index int, blend BlendMode) error {
	if slot < 0 || slot >= len(c.slots) {
		return curated.Errorf(SlotOutOfRange, slot)
	}
	if !blend.Valid() {
		return curated.Errorf("sprite: invalid blend mode %d", int(blend))
	}
	c.crit.Lock()
	defer c.crit.Unlock()
	c.slots[slot].Index = max(index, -1)
	c.slots[slot].Blend = blend
	return nil
}

// SetPos sets the position of the slot.
func (c *Compositor) SetPos(slot int, x int, y int) error {
	if slot < 0 || slot >= len(c.slots) {
		return curated.Errorf(SlotOutOfRange, slot)
	}
	c.crit.Lock()
	defer c.crit.Unlock()
	c.slots[slot].X = x
	c.slots[slot].Y = y
	return nil
}

// SetScale sets the vertical scale of the slot. Values less than one are
// treated as one.
func (c *Compositor) SetScale(slot int, vscale int) error {
	if slot < 0 || slot >= len(c.slots) {
		return curated.Errorf(SlotOutOfRange, slot)
	}
	c.crit.Lock()
	defer c.crit.Unlock()
	c.slots[slot].VScale = max(vscale, 1)
	return nil
}

// Slot returns the current state of the slot.
func (c *Compositor) Slot(slot int) (Sprite, error) {
	if slot < 0 || slot >= len(c.slots) {
		return Sprite{}, curated.Errorf(SlotOutOfRange, slot)
	}
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.slots[slot], nil
}

// Stats returns a copy of the compositor's counters.
func (c *Compositor) Stats() Stats {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.stats
}

// Update fetches the sprite data for every enabled slot and adds the patches
// for the frame. A slot with the same content index as an earlier slot uses
// the earlier slot's data. Slots are visited in slot order so patches from
// lower slots are always ahead of patches from higher slots.
func (c *Compositor) Update(f Frame) {
	c.crit.Lock()
	c.work = c.slots
	c.crit.Unlock()

	var stats Stats

	hLength, vLength := f.Geometry()
	mem := f.Memory()

	for i, s := range c.work {
		ct := &c.content[i]
		ct.valid = false

		if s.Index < 0 {
			continue
		}

		src := ct
		for j := range i {
			if c.work[j].Index == s.Index && c.content[j].valid {
				src = &c.content[j]
				break
			}
		}

		if src == ct {
			err := c.fetch(mem, s.Index, ct)
			if err != nil {
				stats.FetchErrors++
				logger.Logf(logger.Allow, "sprite", "slot %d: %v", i, err)
				continue
			}
			stats.Fetches++
		} else {
			stats.Reused++
		}

		c.addPatches(f, s, src, hLength, vLength, &stats)
	}

	c.crit.Lock()
	c.stats.Fetches += stats.Fetches
	c.stats.Reused += stats.Reused
	c.stats.Patches += stats.Patches
	c.stats.Drops += stats.Drops
	c.stats.FetchErrors += stats.FetchErrors
	c.crit.Unlock()
}

func (c *Compositor) fetch(mem Source, index int, ct *content) error {
	hdr, err := mem.GetSpriteHeader(index)
	if err != nil {
		return err
	}
	_, err = mem.GetSprite(hdr, ct.lines[:], ct.data[:])
	if err != nil {
		return err
	}
	ct.hdr = hdr
	ct.valid = true
	return nil
}

func (c *Compositor) addPatches(f Frame, s Sprite, ct *content, hLength int, vLength int, stats *Stats) {
	mode := ct.hdr.Mode
	bpp := mode.BytesPerPixel()
	vscale := max(s.VScale, 1)

	for row := range int(ct.hdr.Height) {
		l := ct.lines[row]
		if l.Width == 0 {
			continue
		}

		left := s.X + int(l.Offset)
		right := left + int(l.Width)

		for k := range vscale {
			line := s.Y + row*vscale + k
			if line < 0 || line >= vLength {
				continue
			}
			if f.LineMode(line) != mode {
				continue
			}

			// the number of stored pixels in the destination line
			visible := hLength / max(f.HRepeat(line), 1)

			start := max(left, 0)
			end := min(right, visible)
			if start >= end {
				continue
			}

			from := int(l.DataStart) + (start-left)*bpp
			p := Patch{
				Src:    ct.data[from : from+(end-start)*bpp],
				Offset: start * bpp,
				Mode:   mode,
				Blend:  s.Blend,
			}

			if f.AddPatch(line, p) {
				stats.Patches++
			} else {
				stats.Drops++
			}
		}
	}
}
