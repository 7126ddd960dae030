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
)

// NumSymbolBuffers is the number of symbol buffers shared by the pipeline and
// the serializer.
const NumSymbolBuffers = 8

// the largest number of bytes in a line of pixel data
const maxLineBytes = scene.MaxFrameWidth * 3

// pixelSlot holds the pixel data for a pair of lines. the data for the
// second line follows directly from the data of the first line
type pixelSlot struct {
	data  [2 * maxLineBytes]byte
	start [2]int
	n     [2]int
}

func (s *pixelSlot) line(i int) []byte {
	return s.data[s.start[i] : s.start[i]+s.n[i]]
}
