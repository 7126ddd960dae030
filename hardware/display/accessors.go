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

package display

import (
	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
)

// SetSprite assigns scene content to a sprite slot. An index of -1 disables
// the slot.
func (p *Pipeline) SetSprite(slot int, index int, blend sprite.BlendMode) error {
	return p.comp.Set(slot, index, blend)
}

// SetSpritePos sets the position of a sprite slot.
func (p *Pipeline) SetSpritePos(slot int, x int, y int) error {
	return p.comp.SetPos(slot, x, y)
}

// SetSpriteScale sets the vertical scale of a sprite slot.
func (p *Pipeline) SetSpriteScale(slot int, vscale int) error {
	return p.comp.SetScale(slot, vscale)
}

// Sprite returns the current state of a sprite slot.
func (p *Pipeline) Sprite(slot int) (sprite.Sprite, error) {
	return p.comp.Slot(slot)
}

// SetScroll sets the scroll configuration for a scroll group. The new
// configuration takes effect from the frame after the next vsync.
//
// The configuration is not validated against the content. An offset that
// moves a read outside of PSRAM is clamped to the nearest valid address so
// the line shows the wrong pixels rather than stopping the pipeline.
func (p *Pipeline) SetScroll(group int, cfg ScrollConfig) error {
	if group < 0 || group >= scene.NumScrollGroups {
		return curated.Errorf("display: scroll group %d out of range", group)
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.scroll[group] = cfg
	return nil
}

// Scroll returns the scroll configuration for the group as set by the host.
func (p *Pipeline) Scroll(group int) (ScrollConfig, error) {
	if group < 0 || group >= scene.NumScrollGroups {
		return ScrollConfig{}, curated.Errorf("display: scroll group %d out of range", group)
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.scroll[group], nil
}

// SetResolution sets the resolution used for scenes that do not specify one.
// Returns an error if the pipeline is not stopped.
func (p *Pipeline) SetResolution(res scene.Resolution) error {
	p.crit.Lock()
	running := p.running
	p.crit.Unlock()

	if running {
		return curated.Errorf(NotStopped, "resolution change")
	}
	return p.Prefs.Resolution.Set(res)
}

// SetPalette selects the palette used by the scene. The index is limited to
// the number of palettes in the scene.
func (p *Pipeline) SetPalette(idx int) error {
	if idx < 0 || idx >= scene.PaletteEntries {
		return curated.Errorf("display: palette %d out of range", idx)
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.paletteIdx = idx
	return nil
}

// SetFrameCounter sets the scene frame to display next. A frame number that is
// out of range for the scene causes the scene's first frame to be displayed.
func (p *Pipeline) SetFrameCounter(frame int) error {
	if frame < 0 {
		return curated.Errorf("display: frame %d out of range", frame)
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.override = frame
	return nil
}

// Stop the pipeline at the end of the current frame.
func (p *Pipeline) Stop() {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.stop = true
}

// Load content into memory. If the pipeline is running the content is written
// during the next vsync, otherwise it is written immediately.
func (p *Pipeline) Load(content []byte) error {
	if len(content) > psram.RAMSize {
		return curated.Errorf("display: content too large (%d bytes)", len(content))
	}

	p.crit.Lock()
	defer p.crit.Unlock()

	if p.running {
		p.content = append(p.content, content)
		return nil
	}

	p.mem.Write(0, content)
	p.mem.WaitForFinish()
	return nil
}

// Diagnostics returns a snapshot of the pipeline's diagnostics.
func (p *Pipeline) Diagnostics() Diagnostics {
	p.crit.Lock()
	d := p.diag
	d.State = p.state
	p.crit.Unlock()

	d.Memory = p.mem.Stats()
	d.Sprites = p.comp.Stats()
	d.PatchDrops = d.Sprites.Drops
	return d
}
