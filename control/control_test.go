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

package control_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/dvigen/control"
	"github.com/jetsetilly/dvigen/control/easyterm"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/test"
)

type mockHost struct {
	sprite  sprite.Sprite
	scroll  display.ScrollConfig
	palette int
	stopped bool
}

func (h *mockHost) Sprite(slot int) (sprite.Sprite, error) {
	return h.sprite, nil
}

func (h *mockHost) SetSprite(slot int, index int, blend sprite.BlendMode) error {
	h.sprite.Index = index
	h.sprite.Blend = blend
	return nil
}

func (h *mockHost) SetSpritePos(slot int, x int, y int) error {
	h.sprite.X = x
	h.sprite.Y = y
	return nil
}

func (h *mockHost) Scroll(group int) (display.ScrollConfig, error) {
	return h.scroll, nil
}

func (h *mockHost) SetScroll(group int, cfg display.ScrollConfig) error {
	h.scroll = cfg
	return nil
}

func (h *mockHost) SetPalette(idx int) error {
	h.palette = idx
	return nil
}

func (h *mockHost) Stop() {
	h.stopped = true
}

func (h *mockHost) Diagnostics() display.Diagnostics {
	return display.Diagnostics{Frames: 99}
}

func TestMovement(t *testing.T) {
	h := &mockHost{}
	con := control.NewConsole(h, &strings.Builder{})

	for _, k := range []rune{'d', 'd', 's', easyterm.KeyRight, 'W'} {
		done, err := con.Key(k)
		test.ExpectSuccess(t, err)
		test.ExpectFailure(t, done)
	}
	test.ExpectEquality(t, h.sprite.X, 3)
	test.ExpectEquality(t, h.sprite.Y, -7)

	con.Key('k')
	con.Key('K')
	test.ExpectEquality(t, h.scroll.Offset, 9)
	con.Key('u')
	test.ExpectEquality(t, h.scroll.Offset, 0)
}

func TestBlendCycle(t *testing.T) {
	h := &mockHost{}
	w := &strings.Builder{}
	con := control.NewConsole(h, w)

	con.Key('b')
	test.ExpectEquality(t, h.sprite.Blend, sprite.DepthBack)
	test.ExpectSuccess(t, strings.Contains(w.String(), "depth-back"))

	for range 4 {
		con.Key('b')
	}
	test.ExpectEquality(t, h.sprite.Blend, sprite.Replace)

	con.Key('n')
	test.ExpectEquality(t, h.sprite.Index, 1)
	con.Key('p')
	test.ExpectEquality(t, h.palette, 1)
}

func TestRun(t *testing.T) {
	h := &mockHost{}
	w := &strings.Builder{}
	con := control.NewConsole(h, w)

	// keys after the stop are not read
	err := con.Run(easyterm.NewKeyReader(strings.NewReader("dd?iqdd")))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, h.stopped)
	test.ExpectEquality(t, h.sprite.X, 2)
	test.ExpectSuccess(t, strings.Contains(w.String(), "frames"))

	// end of input without a stop
	h = &mockHost{}
	con = control.NewConsole(h, w)
	err = con.Run(easyterm.NewKeyReader(strings.NewReader("a")))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, h.stopped)
}
