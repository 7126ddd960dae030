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

// Token is anything that can signal completion. A Transfer is a Token.
type Token interface {
	Done() <-chan struct{}
}

// Transfer represents a single asynchronous operation on the Engine.
type Transfer struct {
	done chan struct{}
}

func newTransfer() *Transfer {
	return &Transfer{done: make(chan struct{})}
}

// a transfer that has already completed. used for zero length operations
var completed = func() *Transfer {
	t := newTransfer()
	close(t.done)
	return t
}()

// Done returns a channel that is closed when the transfer has completed.
func (t *Transfer) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the transfer has completed.
func (t *Transfer) Wait() {
	<-t.done
}

// Finished returns true if the transfer has completed. It does not block.
func (t *Transfer) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
	}
	return false
}

// Region of memory to be read by MultiRead().
type Region struct {
	Addr uint32
	Len  int
}
