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

// Memory geometry.
const (
	RAMSize  = 8 * 1024 * 1024
	PageSize = 1024
)

// Chip is the backing store for the Engine.
type Chip struct {
	data []byte
}

// NewChip is the preferred method of initialisation for the Chip type.
func NewChip() *Chip {
	return &Chip{
		data: make([]byte, RAMSize),
	}
}

// Size of the chip in bytes.
func (c *Chip) Size() int {
	return len(c.data)
}

// Peek returns a copy of the bytes at the address. It bypasses the Engine and
// should only be used by tests and tools.
func (c *Chip) Peek(addr uint32, n int) []byte {
	b := make([]byte, n)
	copy(b, c.data[addr:])
	return b
}

// the remaining bytes in the page starting at address
func pageRemaining(addr uint32) int {
	return PageSize - int(addr&(PageSize-1))
}
