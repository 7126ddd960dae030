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

package test

import (
	"io"

	"github.com/jetsetilly/dvigen/curated"
)

// CappedWriter is an implementation of io.Writer that keeps the first bytes
// written to it and discards everything once it is full.
type CappedWriter struct {
	buffer []byte
	size   int
}

// NewCappedWriter is the preferred method of initialisation for the
// CappedWriter type.
func NewCappedWriter(size int) (*CappedWriter, error) {
	if size <= 0 {
		return nil, curated.Errorf("test: invalid size for CappedWriter (%d)", size)
	}
	return &CappedWriter{
		size:   size,
		buffer: make([]byte, 0, size),
	}, nil
}

func (c *CappedWriter) String() string {
	return string(c.buffer)
}

// Full returns true if no more bytes will be accepted.
func (c *CappedWriter) Full() bool {
	return len(c.buffer) == c.size
}

// Reset empties the writer.
func (c *CappedWriter) Reset() {
	c.buffer = c.buffer[:0]
}

// Write implements io.Writer. A write that does not fit is truncated and
// io.ErrShortWrite is returned.
func (c *CappedWriter) Write(p []byte) (int, error) {
	n := min(len(p), c.size-len(c.buffer))
	c.buffer = append(c.buffer, p[:n]...)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
