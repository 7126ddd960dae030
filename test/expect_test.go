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
	"errors"
	"testing"

	"github.com/jetsetilly/dvigen/test"
)

func TestExpectations(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, nil)

	var err error
	test.ExpectSuccess(t, err)

	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("test"))

	test.ExpectEquality(t, 10, 10)
	test.ExpectEquality(t, "abc", "abc", "tagged")
	test.ExpectInequality(t, uint16(1), uint16(2))

	test.ExpectApproximate(t, 99.0, 100.0, 0.02)
	test.ExpectApproximate(t, 1000, 1010, 0.02)

	test.DemandEquality(t, len([]int{1, 2, 3}), 3)
	test.DemandSuccess(t, true)
	test.DemandFailure(t, false)
}

func TestWriters(t *testing.T) {
	cmp := &test.CompareWriter{}
	cmp.Write([]byte("hello "))
	cmp.Write([]byte("world"))
	test.ExpectSuccess(t, cmp.Compare("hello world"))
	test.ExpectEquality(t, cmp.String(), "hello world")
	cmp.Clear()
	test.ExpectSuccess(t, cmp.Compare(""))

	cw, err := test.NewCappedWriter(8)
	test.DemandSuccess(t, err)
	n, err := cw.Write([]byte("abcdef"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 6)
	n, err = cw.Write([]byte("ghijkl"))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, cw.String(), "abcdefgh")
	test.ExpectEquality(t, cw.Full(), true)
	n, _ = cw.Write([]byte("x"))
	test.ExpectEquality(t, n, 0)
	cw.Reset()
	test.ExpectEquality(t, cw.String(), "")
	test.ExpectEquality(t, cw.Full(), false)

	_, err = test.NewCappedWriter(0)
	test.ExpectFailure(t, err)
}
