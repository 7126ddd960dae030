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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality(), ExpectInequality() and ExpectApproximate() functions
// compare values and report an error with t.Errorf() if the test fails. The
// Demand*() variants call t.Fatalf() instead and so stop the test
// immediately.
//
// ExpectSuccess() and ExpectFailure() accept bool, error and nil values. A
// success value is true for a bool or nil for an error.
//
// All functions accept an optional list of tags. Tags are prepended to the
// failure message and are useful for identifying which iteration of a loop
// has failed.
//
// The CompareWriter, CappedWriter and RingWriter types are implementations of
// io.Writer that are useful for capturing output in tests.
package test
