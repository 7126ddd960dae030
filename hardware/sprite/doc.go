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

// Package sprite composites movable sprites onto the scene lines before they
// are encoded.
//
// Compositing happens in two phases. Once per frame the Compositor walks the
// sprite slots in slot order and turns every visible sprite row into a Patch
// on the destination line's PatchList. Later, while each line is being
// encoded, Apply() blends the patches for that line into the line's pixel
// data. The slot index is the depth order: a patch from a lower slot is
// applied before a patch from a higher slot.
//
// The compositor never reaches into the display pipeline. Everything it needs
// from the pipeline is provided by the Frame interface.
//
// Patch lists have a fixed capacity of MaxPatchesPerLine. Patches added to a
// full list are dropped and counted in the compositor's Stats.
package sprite
