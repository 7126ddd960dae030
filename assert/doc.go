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

// Package assert is used to check the assumptions the display pipeline makes
// about which goroutine is running a piece of code. The checks are only made
// when the assertions build tag is present. Without the tag the functions in
// this package do nothing.
//
// An Owner is claimed by a goroutine with Claim(). Subsequent calls to Check()
// from any other goroutine will panic.
package assert
