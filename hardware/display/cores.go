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
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/hardware/tmds"
)

// lineJob is everything a core needs to prepare one line
type lineJob struct {
	line    int
	data    []byte
	mode    scene.LineMode
	hRepeat int
	width   int
	blank   bool
	patches []sprite.Patch
	palette []byte
	out     *tmds.SymbolBuffer
}

// core prepares lines. each core has its own encoder so that the running
// disparity of one core's lines is not affected by the other core
type core struct {
	enc tmds.Line
}

func (c *core) prepare(j lineJob) {
	if j.blank {
		c.enc.Encode(j.mode, nil, nil, j.hRepeat, j.width, j.out)
		return
	}
	sprite.Apply(j.data, j.patches)
	c.enc.Encode(j.mode, j.data, j.palette, j.hRepeat, j.width, j.out)
}

// coreB waits for jobs from core A. the line number of each completed job is
// sent back on the done channel
type coreB struct {
	core
	jobs chan lineJob
	done chan int
}

func newCoreB() *coreB {
	return &coreB{
		jobs: make(chan lineJob, 1),
		done: make(chan int, 1),
	}
}

// run until the jobs channel is closed
func (b *coreB) run() error {
	for j := range b.jobs {
		b.prepare(j)
		b.done <- j.line
	}
	return nil
}
