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

// Package specification contains the timing definitions of the display modes
// supported by the video generator.
package specification

import (
	"fmt"
	"time"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/scene"
)

// Timing is the active, front porch, sync and back porch lengths of one axis
// of a display mode. Horizontal values are in pixels and vertical values are
// in lines.
type Timing struct {
	Active     int
	FrontPorch int
	Sync       int
	BackPorch  int
}

// Total is the sum of the four portions.
func (t Timing) Total() int {
	return t.Active + t.FrontPorch + t.Sync + t.BackPorch
}

// Blank is the part of the total that is not active.
func (t Timing) Blank() int {
	return t.Total() - t.Active
}

// Spec is used to define a display mode.
type Spec struct {
	ID         string
	Resolution scene.Resolution

	// pixel clock in Hz
	PixelClock int

	Horizontal Timing
	Vertical   Timing
}

func (spec Spec) String() string {
	return fmt.Sprintf("%s (%.3fMHz)", spec.ID, float64(spec.PixelClock)/1e6)
}

// HTotal is the number of pixel clocks in a line including blanking.
func (spec Spec) HTotal() int {
	return spec.Horizontal.Total()
}

// VTotal is the number of lines in a frame including blanking.
func (spec Spec) VTotal() int {
	return spec.Vertical.Total()
}

// LineTime is the duration of one complete line.
func (spec Spec) LineTime() time.Duration {
	return time.Duration(int64(spec.HTotal()) * int64(time.Second) / int64(spec.PixelClock))
}

// VBlankTime is the duration of the vertical blanking period. This is the
// time available for the per frame work of the display pipeline.
func (spec Spec) VBlankTime() time.Duration {
	return time.Duration(spec.Vertical.Blank()) * spec.LineTime()
}

// ActiveTime is the duration of the active lines of a frame.
func (spec Spec) ActiveTime() time.Duration {
	return time.Duration(spec.Vertical.Active) * spec.LineTime()
}

// FrameTime is the duration of a complete frame.
func (spec Spec) FrameTime() time.Duration {
	return time.Duration(spec.VTotal()) * spec.LineTime()
}

// FramesPerSecond is the refresh rate of the mode.
func (spec Spec) FramesPerSecond() float64 {
	return float64(spec.PixelClock) / float64(spec.HTotal()*spec.VTotal())
}

// SystemClock is the clock the processor must run at for the serialiser to
// output one ten bit symbol per pixel clock.
func (spec Spec) SystemClock() int {
	return spec.PixelClock * 10
}

// PairDeadline is the time available to prepare a pair of lines, each of
// which is output vRepeat times.
func (spec Spec) PairDeadline(vRepeat int) time.Duration {
	return 2 * time.Duration(max(vRepeat, 1)) * spec.LineTime()
}

// Spec640x480 is the 640x480 60Hz mode.
var Spec640x480 = Spec{
	ID:         "640x480p60",
	Resolution: scene.Resolution640x480,
	PixelClock: 25200000,
	Horizontal: Timing{Active: 640, FrontPorch: 16, Sync: 96, BackPorch: 48},
	Vertical:   Timing{Active: 480, FrontPorch: 10, Sync: 2, BackPorch: 33},
}

// Spec720x576 is the 720x576 50Hz mode.
var Spec720x576 = Spec{
	ID:         "720x576p50",
	Resolution: scene.Resolution720x576,
	PixelClock: 27000000,
	Horizontal: Timing{Active: 720, FrontPorch: 12, Sync: 64, BackPorch: 68},
	Vertical:   Timing{Active: 576, FrontPorch: 5, Sync: 5, BackPorch: 39},
}

// Spec800x480 is the 800x480 60Hz mode used by small panels.
var Spec800x480 = Spec{
	ID:         "800x480p60",
	Resolution: scene.Resolution800x480,
	PixelClock: 29760000,
	Horizontal: Timing{Active: 800, FrontPorch: 24, Sync: 72, BackPorch: 96},
	Vertical:   Timing{Active: 480, FrontPorch: 3, Sync: 10, BackPorch: 7},
}

// Spec800x600 is the 800x600 60Hz mode.
var Spec800x600 = Spec{
	ID:         "800x600p60",
	Resolution: scene.Resolution800x600,
	PixelClock: 40000000,
	Horizontal: Timing{Active: 800, FrontPorch: 40, Sync: 128, BackPorch: 88},
	Vertical:   Timing{Active: 600, FrontPorch: 1, Sync: 4, BackPorch: 23},
}

// SpecList is the list of specifications that the display may adopt.
var SpecList = []Spec{Spec640x480, Spec720x576, Spec800x480, Spec800x600}

// UnsupportedResolution is returned by SpecFor() when there is no
// specification for the resolution.
const UnsupportedResolution = "specification: unsupported resolution: %s"

// SpecFor returns the specification for the resolution.
func SpecFor(res scene.Resolution) (Spec, error) {
	for _, s := range SpecList {
		if s.Resolution == res {
			return s, nil
		}
	}
	return Spec{}, curated.Errorf(UnsupportedResolution, res)
}
