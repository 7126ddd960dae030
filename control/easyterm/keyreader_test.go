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

package easyterm_test

import (
	"io"
	"strings"
	"testing"

	"github.com/jetsetilly/dvigen/control/easyterm"
	"github.com/jetsetilly/dvigen/test"
)

func TestKeyReader(t *testing.T) {
	kr := easyterm.NewKeyReader(strings.NewReader("a\x1b[A\x1b[D\x1b[3~q"))

	expected := []rune{'a', easyterm.KeyUp, easyterm.KeyLeft, easyterm.KeyDelete, 'q'}
	for i, e := range expected {
		k, err := kr.ReadKey()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, k, e, i)
	}

	_, err := kr.ReadKey()
	test.ExpectSuccess(t, err == io.EOF)
}

func TestEscapeKey(t *testing.T) {
	kr := easyterm.NewKeyReader(strings.NewReader("\x1b"))
	k, err := kr.ReadKey()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, k, rune(easyterm.KeyEsc))
}
