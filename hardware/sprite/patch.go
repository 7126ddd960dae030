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
	"sync"

	"github.com/jetsetilly/dvigen/hardware/scene"
)

// MaxPatchesPerLine is the capacity of a PatchList.
const MaxPatchesPerLine = 10

// Patch is a pending blend of sprite pixels onto one line.
type Patch struct {
	// source pixels. the length of the slice is the length of the patch in
	// bytes
	Src []byte

	// byte offset into the destination line
	Offset int

	Mode  scene.LineMode
	Blend BlendMode
}

// PatchList is the fixed capacity list of patches for one line. The zero
// value is an empty list. Patches are kept in the order they were added.
type PatchList struct {
	crit    sync.Mutex
	patches [MaxPatchesPerLine]Patch
	n       int
}

// Add appends the patch to the list. Returns false if the list is full, in
// which case the patch is dropped.
func (l *PatchList) Add(p Patch) bool {
	l.crit.Lock()
	defer l.crit.Unlock()
	if l.n >= MaxPatchesPerLine {
		return false
	}
	l.patches[l.n] = p
	l.n++
	return true
}

// Patches returns the patches in the list. The returned slice is only valid
// until the next call to Reset().
func (l *PatchList) Patches() []Patch {
	return l.patches[:l.n]
}

// Len returns the number of patches in the list.
func (l *PatchList) Len() int {
	return l.n
}

// Reset empties the list.
func (l *PatchList) Reset() {
	l.n = 0
}

// Apply blends the patches into the line in list order.
func Apply(line []byte, patches []Patch) {
	for _, p := range patches {
		if p.Offset >= len(line) {
			continue
		}
		end := min(p.Offset+len(p.Src), len(line))
		Blend(line[p.Offset:end], p.Src, p.Mode, p.Blend)
	}
}
