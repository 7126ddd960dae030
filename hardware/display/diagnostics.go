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
	"fmt"
	"strings"

	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/sprite"
)

// Diagnostics is a snapshot of the pipeline's state and timing. Timings are
// measured and never enforced. Durations are in microseconds.
type Diagnostics struct {
	State State
	Spec  string

	// number of frames displayed since the pipeline was started
	Frames int

	// the scene frame and bank that will be displayed next
	Frame int
	Bank  int

	BankSwitches int

	// time taken to prepare the most recent frame before streaming began
	FramePrepUS int64

	// time available during vertical blanking and time taken by the
	// active lines of the display mode
	VBlankBudgetUS int64
	ActiveBudgetUS int64

	// the worst time taken to prepare a line since the pipeline was started
	// and the total time taken to prepare all lines in the most recent
	// frame
	WorstLinePrepUS      int64
	CumulativeLinePrepUS int64

	// number of line pairs that took longer to prepare than the time it
	// takes to output them
	MissedDeadlines int

	// the number of lines and line pairs in the most recent frame
	LastFrameLines int
	LastFramePairs int

	// patches that were dropped because a line's patch list was full
	PatchDrops int

	Memory  psram.Stats
	Sprites sprite.Stats
}

func (d Diagnostics) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("state: %s (%s)\n", d.State, d.Spec))
	s.WriteString(fmt.Sprintf("frames: %d (frame %d, bank %d, %d bank switches)\n", d.Frames, d.Frame, d.Bank, d.BankSwitches))
	s.WriteString(fmt.Sprintf("frame prep: %dus of %dus vblank\n", d.FramePrepUS, d.VBlankBudgetUS))
	s.WriteString(fmt.Sprintf("line prep: %dus of %dus active (worst %dus)\n", d.CumulativeLinePrepUS, d.ActiveBudgetUS, d.WorstLinePrepUS))
	s.WriteString(fmt.Sprintf("missed deadlines: %d\n", d.MissedDeadlines))
	s.WriteString(fmt.Sprintf("lines: %d in %d pairs\n", d.LastFrameLines, d.LastFramePairs))
	s.WriteString(fmt.Sprintf("patch drops: %d\n", d.PatchDrops))
	s.WriteString(fmt.Sprintf("memory: %s\n", d.Memory))
	s.WriteString(fmt.Sprintf("sprites: %s\n", d.Sprites))
	return s.String()
}
