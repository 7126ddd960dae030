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
	"github.com/jetsetilly/dvigen/performance/limiter"
)

// Paced wraps another Monitor and limits the rate at which frames complete to
// the frame rate of the display mode. Without pacing the pipeline runs as
// quickly as the host allows.
type Paced struct {
	Monitor
	lim *limiter.Limiter
}

// NewPaced is the preferred method of initialisation for the Paced type.
func NewPaced(mon Monitor) *Paced {
	return &Paced{
		Monitor: mon,
		lim:     limiter.NewLimiter(0),
	}
}

func (mon *Paced) BeginFrame(info FrameInfo) error {
	if fps := info.Spec.FramesPerSecond(); fps != mon.lim.Limit() {
		mon.lim.SetLimit(fps)
	}
	return mon.Monitor.BeginFrame(info)
}

func (mon *Paced) EndFrame() error {
	err := mon.Monitor.EndFrame()
	mon.lim.Wait()
	return err
}
