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

//go:build assertions

package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID returns the ID of the calling goroutine. the ID is parsed from
// the first line of the stack trace
//
// "goroutine 18 [running]:"
func goroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
