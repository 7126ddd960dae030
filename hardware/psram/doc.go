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

// Package psram models the external serial PSRAM and the engine that moves
// data between it and the rest of the system.
//
// The Chip type is the backing store. It is a flat byte-addressable memory of
// RAMSize bytes organised into pages of PageSize bytes. The memory protocol
// does not allow a single command to cross a page boundary so the Engine
// splits transfers at page boundaries.
//
// The Engine is asynchronous. Write(), Read() and MultiRead() return a Transfer
// which completes when the data has been moved. There is only ever one
// transfer in flight and every operation waits for the previous transfer to
// complete before starting. The actual movement of data happens on a goroutine
// owned by the Engine, standing in for the DMA channel.
//
// Reads that cross page boundaries are served by a chain of segment commands
// held in a fixed size command buffer of MultiReadMaxPages entries. A read
// requiring more segments than that is refused with a CommandBufferOverflow
// error and nothing is issued.
//
// The Engine is not safe for concurrent use. Build with the assertions tag to
// have ownership by a single goroutine checked at runtime.
package psram
