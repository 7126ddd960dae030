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
	"testing"

	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/test"
)

func TestScrollRegions(t *testing.T) {
	var s ScrollConfig
	r := s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 1000, Len: 640})

	s = ScrollConfig{Offset: -8}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 992, Len: 640})

	// wrap part way through the read
	s = ScrollConfig{Offset: 100, WrapPosition: 640, WrapOffset: 0}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 2)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 1100, Len: 540})
	test.ExpectEquality(t, r[1], psram.Region{Addr: 1000, Len: 100})

	// wrap position beyond the end of the read
	s = ScrollConfig{Offset: 10, WrapPosition: 1280, WrapOffset: 0}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 1010, Len: 640})

	// read starts after the wrap position
	s = ScrollConfig{Offset: 700, WrapPosition: 640, WrapOffset: 16}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 1076, Len: 640})

	// reads that would fall outside of memory are clamped
	s = ScrollConfig{Offset: -5000}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 0, Len: 640})

	s = ScrollConfig{Offset: 100}
	r = s.regions(psram.RAMSize-640, 640, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectEquality(t, r[0], psram.Region{Addr: psram.RAMSize - 640, Len: 640})

	s = ScrollConfig{Offset: 0, WrapPosition: 64, WrapOffset: -2000}
	r = s.regions(1000, 640, nil)
	test.DemandEquality(t, len(r), 2)
	test.ExpectEquality(t, r[0], psram.Region{Addr: 1000, Len: 64})
	test.ExpectEquality(t, r[1], psram.Region{Addr: 0, Len: 576})

	// regions are appended
	r = s.regions(2000, 0, r)
	test.ExpectEquality(t, len(r), 1)
	r = ScrollConfig{}.regions(2000, 4, r)
	test.ExpectEquality(t, len(r), 2)
}
