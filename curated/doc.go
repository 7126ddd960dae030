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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. For example:
//
//	e := curated.Errorf("psram: %d segments", n)
//
//	if curated.Is(e, "psram: %d segments") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("display: %v", e)
//
//	if curated.Has(f, "psram: %d segments") {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is
// 'expected' and false if the error is 'unexpected'.
//
// The Error() function ensures that the error chain is normalised. That is,
// the chain does not contain duplicate adjacent parts. Chains are thought of as
// being composed of parts separated by the sub-string ': '. So:
//
//	curated.Errorf("scene: %v", curated.Errorf("scene: bad magic"))
//
// prints as:
//
//	scene: bad magic
//
// Sentinel patterns are stored as exported const strings in the package that
// produces them.
package curated
