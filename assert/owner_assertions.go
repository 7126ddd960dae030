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
	"fmt"
	"sync/atomic"
)

// Owner records the goroutine that is allowed to use a resource.
type Owner struct {
	name string
	id   atomic.Uint64
}

// NewOwner is the preferred method of initialisation for the Owner type. The
// name is used in the panic message.
func NewOwner(name string) *Owner {
	return &Owner{name: name}
}

// Claim the owner for the calling goroutine.
func (o *Owner) Claim() {
	o.id.Store(goroutineID())
}

// Release the owner so that it can be claimed by another goroutine.
func (o *Owner) Release() {
	o.id.Store(0)
}

// Check panics if the owner has been claimed by a different goroutine.
func (o *Owner) Check() {
	id := o.id.Load()
	if id == 0 {
		return
	}
	if g := goroutineID(); g != id {
		panic(fmt.Sprintf("assert: %s owned by goroutine %d but used by goroutine %d", o.name, id, g))
	}
}

// Enabled returns true if assertions have been compiled in.
func Enabled() bool {
	return true
}
