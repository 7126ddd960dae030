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

import "fmt"

// State of the pipeline.
type State int

// List of valid State values.
const (
	Stopped State = iota
	Primed
	Streaming
	VSync
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Primed:
		return "primed"
	case Streaming:
		return "streaming"
	case VSync:
		return "vsync"
	}
	return fmt.Sprintf("state(%d)", int(s))
}
