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

// Package scene decodes the binary scene layout held in PSRAM.
//
// The layout begins with a header of HeaderLen bytes:
//
//	magic             4 bytes
//	config           12 bytes
//	frame table hdr  12 bytes
//
// followed by the frame tables (one 32-bit entry per line, FrameTableLength
// entries per frame), the palette table (PaletteSize bytes per palette), the
// sprite table (one 32-bit entry per sprite) and then the sprite blobs and
// line data. All multi-byte values are little endian.
//
// The Decoder holds only the most recently read header. Addresses of the
// frame tables, palettes and sprites are derived from the header every time
// they are needed.
//
// The Builder type creates scene images in the same layout. It is used by
// tests and by the BUILD mode of the command line tool.
package scene
