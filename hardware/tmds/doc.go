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

// Package tmds encodes pixel lines into the 10 bit symbols of the DVI
// transition minimised signalling scheme.
//
// Every pixel becomes three symbols, one each for the blue, green and red
// channels. The encoder keeps a running disparity for each channel so that
// the number of one and zero bits sent on a channel stays balanced. The
// disparity is reset at the start of every line.
//
// Decode() inverts the encoding of a single symbol and is used by the output
// monitors to recover the pixel colours.
package tmds
