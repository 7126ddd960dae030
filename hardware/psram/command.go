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

import (
	"github.com/jetsetilly/dvigen/curated"
)

// MultiReadMaxPages is the number of segment commands that can be held in the
// command buffer.
const MultiReadMaxPages = 128

// CommandBufferOverflow is returned when a read requires more segment commands
// than can be held in the command buffer.
const CommandBufferOverflow = "psram: command buffer overflow: %d segments required"

type opcode byte

// opcodes are the same as the chip's protocol opcodes. opReadOne is a
// pseudo-command used for segments shorter than two bytes, which the read
// microprogram cannot handle
const (
	opWrite   opcode = 0x38
	opRead    opcode = 0xeb
	opReadOne opcode = 0x01
)

// a single page-bounded command
type command struct {
	op   opcode
	addr uint32
	n    int
}

// commandBuffer is a fixed capacity list of commands. it never grows
type commandBuffer struct {
	cmds [MultiReadMaxPages]command
	n    int

	// set when a region could not be added. the number of segments that would
	// have been needed is recorded for the error message
	overflow int
}

func (b *commandBuffer) reset() {
	b.n = 0
	b.overflow = 0
}

func (b *commandBuffer) commands() []command {
	return b.cmds[:b.n]
}

// addRead splits the region into page-bounded read segments. returns false if
// the command buffer does not have room
func (b *commandBuffer) addRead(addr uint32, n int) bool {
	segments := countSegments(addr, n)
	if b.n+segments > MultiReadMaxPages || b.overflow > 0 {
		if b.overflow == 0 {
			b.overflow = b.n
		}
		b.overflow += segments
		return false
	}

	l := min(pageRemaining(addr), n)
	for n > 0 {
		op := opRead
		if l < 2 {
			op = opReadOne
		}
		b.cmds[b.n] = command{op: op, addr: addr, n: l}
		b.n++
		addr += uint32(l)
		n -= l
		l = min(n, PageSize)
	}

	return true
}

// the error to return if addRead() has failed
func (b *commandBuffer) err() error {
	return curated.Errorf(CommandBufferOverflow, b.overflow)
}

// countSegments returns the number of page-bounded segments required for the
// region
func countSegments(addr uint32, n int) int {
	if n <= 0 {
		return 0
	}
	first := pageRemaining(addr)
	if n <= first {
		return 1
	}
	return 1 + (n-first+PageSize-1)/PageSize
}
