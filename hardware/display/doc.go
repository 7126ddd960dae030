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

// Package display is the scanline pipeline of the video generator. It reads
// the scene from the memory engine once per frame, has the sprite compositor
// produce the frame's patches and then streams the frame to the serializer
// one pair of lines at a time.
//
// The pipeline runs on two cores. Core A runs the main loop and prepares the
// second line of every pair. Core B prepares the first line. Preparing a line
// means applying the line's sprite patches to the pixel data and encoding the
// result into a symbol buffer. While the two cores prepare a pair of lines,
// the memory engine is already fetching the pixel data for the next pair.
//
// The pipeline moves through the following states every frame:
//
//	Stopped -> Primed -> Streaming -> VSync -> Primed -> ...
//
// In the Primed state the first two lines of the frame have been fetched. The
// VSync state is the window in which new content can be written to memory.
// Changes to scroll configuration made by the host only take effect at the
// VSync boundary.
//
// The host controls the pipeline through the Set*() functions of the Pipeline
// type, which are safe to call from any goroutine.
package display
