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

	"github.com/jetsetilly/dvigen/hardware/psram"
)

// ScrollConfig changes where the pixel data for a line is read from. Lines
// are assigned to a scroll group by their frame table entry.
type ScrollConfig struct {
	// byte offset added to the line address
	Offset int

	// if WrapPosition is not zero then reading wraps when the read reaches
	// WrapPosition bytes from the start of the line. reading continues from
	// WrapOffset bytes from the start of the line
	WrapPosition int
	WrapOffset   int
}

func (s ScrollConfig) String() string {
	if s.WrapPosition == 0 {
		return fmt.Sprintf("offset %d", s.Offset)
	}
	return fmt.Sprintf("offset %d (wrap at %d to %d)", s.Offset, s.WrapPosition, s.WrapOffset)
}

// region of n bytes at address a. the region is moved so that it lies
// entirely within the memory chip
func region(a int, n int) psram.Region {
	a = min(max(a, 0), psram.RAMSize-n)
	return psram.Region{Addr: uint32(a), Len: n}
}

// regions appends the memory regions that make up n bytes of the line at
// addr. there will be one or two regions
func (s ScrollConfig) regions(addr uint32, n int, out []psram.Region) []psram.Region {
	if n <= 0 {
		return out
	}

	a := int(addr)
	start := s.Offset

	if s.WrapPosition <= 0 {
		return append(out, region(a+start, n))
	}

	// the read starts after the wrap position
	if start >= s.WrapPosition {
		return append(out, region(a+s.WrapOffset+start-s.WrapPosition, n))
	}

	first := min(s.WrapPosition-start, n)
	out = append(out, region(a+start, first))
	if n > first {
		out = append(out, region(a+s.WrapOffset, n-first))
	}

	return out
}
