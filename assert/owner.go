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

//go:build !assertions

package assert

// Owner records the goroutine that is allowed to use a resource. Without the
// assertions tag it records nothing.
type Owner struct{}

// NewOwner is the preferred method of initialisation for the Owner type.
func NewOwner(_ string) *Owner {
	return &Owner{}
}

// Claim the owner for the calling goroutine.
func (o *Owner) Claim() {}

// Release the owner so that it can be claimed by another goroutine.
func (o *Owner) Release() {}

// Check does nothing without the assertions tag.
func (o *Owner) Check() {}

// Enabled returns true if assertions have been compiled in.
func Enabled() bool {
	return false
}
