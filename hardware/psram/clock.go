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

package psram

import "fmt"

// Tier is the microprogram selected according to the system clock.
type Tier int

// List of valid Tier values.
const (
	TierSlow Tier = iota
	TierNormal
	TierFast
)

// clock thresholds for the selection of the microprogram tier
const (
	slowBelowHz = 130000000
	fastAboveHz = 296000000
)

func (t Tier) String() string {
	switch t {
	case TierSlow:
		return "slow"
	case TierNormal:
		return "normal"
	case TierFast:
		return "fast"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// TierForClock returns the tier appropriate for the system clock.
func TierForClock(hz int) Tier {
	if hz > fastAboveHz {
		return TierFast
	}
	if hz < slowBelowHz {
		return TierSlow
	}
	return TierNormal
}

// the number of system clocks for every bus clock. the bus clock of the chip
// is limited to 133MHz so faster system clocks need a larger divider
func (t Tier) divider() int {
	switch t {
	case TierSlow:
		return 1
	case TierFast:
		return 3
	}
	return 2
}

// Interface is the electrical interface width.
type Interface int

// List of valid Interface values.
const (
	SPI Interface = iota
	QPI
)

func (i Interface) String() string {
	switch i {
	case SPI:
		return "SPI"
	case QPI:
		return "QPI"
	}
	return fmt.Sprintf("interface(%d)", int(i))
}

// bus clocks for the command, address and wait phases of a command. writes
// have no wait phase
func (i Interface) overhead(op opcode) int {
	var n int
	switch i {
	case QPI:
		n = 2 + 6
		if op != opWrite {
			n += 6
		}
	default:
		n = 8 + 24
		if op != opWrite {
			n += 8
		}
	}
	return n
}

// bus clocks to move one byte
func (i Interface) clocksPerByte() int {
	if i == QPI {
		return 2
	}
	return 8
}
