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

// Package monitor defines the interface for consumers of the symbol stream
// produced by the display serializer. The Headless type is a monitor that
// decodes the stream into an image and keeps a digest of every frame.
//
// The sdlmonitor sub-package shows the decoded frames in a window.
package monitor

import (
	"fmt"

	"github.com/jetsetilly/dvigen/hardware/display/specification"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/tmds"
)

// FrameInfo describes the frame that is about to be output.
type FrameInfo struct {
	Spec   specification.Spec
	Config scene.Config

	// the scene frame and bank being displayed
	Frame int
	Bank  int

	// the number of frames output since the display was started
	Count int
}

func (info FrameInfo) String() string {
	return fmt.Sprintf("%s frame %d (bank %d) [%d]", info.Spec.ID, info.Frame, info.Bank, info.Count)
}

// Monitor implementations receive the output of the serializer. The functions
// are called from the serializer's goroutine. Returning an error stops the
// display.
type Monitor interface {
	BeginFrame(info FrameInfo) error

	// line is the output line number, counted from the first line of the
	// scene's vertical offset. lines that are repeated vertically are sent
	// once for each repeat
	Scanline(line int, symbols *tmds.SymbolBuffer) error

	EndFrame() error
}
