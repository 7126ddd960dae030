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

package test_test

import (
	"testing"

	"github.com/jetsetilly/dvigen/test"
)

func TestRingWriter(t *testing.T) {
	r, err := test.NewRingWriter(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.String(), "")
	test.ExpectEquality(t, r.Wrapped(), false)

	r.Write([]byte("abcde"))
	r.Write([]byte("fgh"))
	test.ExpectEquality(t, r.String(), "abcdefgh")

	// exactly full
	r.Write([]byte("ij"))
	test.ExpectEquality(t, r.String(), "abcdefghij")
	test.ExpectEquality(t, r.Wrapped(), false)

	// oldest bytes are discarded
	r.Write([]byte("kl"))
	test.ExpectEquality(t, r.String(), "cdefghijkl")
	test.ExpectEquality(t, r.Wrapped(), true)
	test.ExpectEquality(t, r.Written(), 12)

	// a single write larger than the ring keeps its own tail
	n, err := r.Write([]byte("1234567890ABC"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 13)
	test.ExpectEquality(t, r.String(), "4567890ABC")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
	test.ExpectEquality(t, r.Written(), 0)

	_, err = test.NewRingWriter(0)
	test.ExpectFailure(t, err)
}
