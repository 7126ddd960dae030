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

// Package limiter paces a loop to a fixed number of iterations per second.
package limiter

import (
	"sync"
	"time"
)

// Limiter paces calls to Wait() so that they return no more often than the
// limit. The zero value does not limit.
type Limiter struct {
	crit   sync.Mutex
	fps    float64
	period time.Duration
	next   time.Time
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(fps float64) *Limiter {
	lim := &Limiter{}
	lim.SetLimit(fps)
	return lim
}

// SetLimit changes the number of iterations per second. A value of zero or
// less turns limiting off.
func (lim *Limiter) SetLimit(fps float64) {
	lim.crit.Lock()
	defer lim.crit.Unlock()

	lim.fps = fps
	if fps <= 0 {
		lim.period = 0
	} else {
		lim.period = time.Duration(float64(time.Second) / fps)
	}
	lim.next = time.Time{}
}

// Limit returns the current limit. Zero if limiting is off.
func (lim *Limiter) Limit() float64 {
	lim.crit.Lock()
	defer lim.crit.Unlock()
	return lim.fps
}

// schedule returns the amount of time to wait before the next iteration
func (lim *Limiter) schedule(now time.Time) time.Duration {
	lim.crit.Lock()
	defer lim.crit.Unlock()

	if lim.period == 0 {
		return 0
	}

	if lim.next.IsZero() {
		lim.next = now
		return 0
	}

	lim.next = lim.next.Add(lim.period)

	// a caller that has fallen more than a period behind does not get to
	// catch up with a burst of iterations
	if lim.next.Add(lim.period).Before(now) {
		lim.next = now
	}

	return lim.next.Sub(now)
}

// Wait blocks until the next iteration is due.
func (lim *Limiter) Wait() {
	if d := lim.schedule(time.Now()); d > 0 {
		time.Sleep(d)
	}
}

// HasWaited returns true if the next iteration is due. It never blocks.
func (lim *Limiter) HasWaited() bool {
	lim.crit.Lock()
	defer lim.crit.Unlock()

	if lim.period == 0 {
		return true
	}

	now := time.Now()
	if lim.next.IsZero() || !now.Before(lim.next.Add(lim.period)) {
		lim.next = now
		return true
	}
	return false
}
