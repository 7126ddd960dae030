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
	"github.com/jetsetilly/dvigen/curated"
)

// RingWriter is an implementation of io.Writer that keeps only the most recent
// bytes written to it. It is useful for checking the tail of output that
// would otherwise grow without bound, such as an echoed log.
type RingWriter struct {
	buffer []byte
	size   int

	// total number of bytes written since the last Reset()
	written int
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, curated.Errorf("test: invalid size for RingWriter (%d)", size)
	}
	return &RingWriter{
		size:   size,
		buffer: make([]byte, 0, size),
	}, nil
}

// String returns the retained bytes, oldest first.
func (r *RingWriter) String() string {
	return string(r.buffer)
}

// Written returns the number of bytes written, including those that have
// since been discarded.
func (r *RingWriter) Written() int {
	return r.written
}

// Wrapped returns true if any written bytes have been discarded.
func (r *RingWriter) Wrapped() bool {
	return r.written > len(r.buffer)
}

// Reset empties the ring writer.
func (r *RingWriter) Reset() {
	r.buffer = r.buffer[:0]
	r.written = 0
}

// Write implements io.Writer. It never fails.
func (r *RingWriter) Write(p []byte) (int, error) {
	r.written += len(p)

	if len(p) >= r.size {
		r.buffer = append(r.buffer[:0], p[len(p)-r.size:]...)
		return len(p), nil
	}

	if over := len(r.buffer) + len(p) - r.size; over > 0 {
		r.buffer = append(r.buffer[:0], r.buffer[over:]...)
	}
	r.buffer = append(r.buffer, p...)

	return len(p), nil
}
