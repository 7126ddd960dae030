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

// Package control is the host console. Single keypresses are mapped onto the
// display pipeline's accessors. The console is a stand-in for the register
// interface that a host processor would use to control the generator.
//
// The keys are:
//
//	cursor keys / w a s d    move sprite 0 (shift for a larger step)
//	j k                      scroll group 0 left and right
//	u                        reset the scroll of group 0
//	b                        cycle the blend mode of sprite 0
//	n                        change the content of sprite 0
//	p                        select the next palette
//	i                        print diagnostics
//	q, ESC                   stop the display
//	?                        print this help
package control

import (
	"fmt"
	"io"

	"github.com/jetsetilly/dvigen/control/easyterm"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/logger"
)

// Host is the set of display pipeline accessors used by the console.
// Implemented by display.Pipeline.
type Host interface {
	Sprite(slot int) (sprite.Sprite, error)
	SetSprite(slot int, index int, blend sprite.BlendMode) error
	SetSpritePos(slot int, x int, y int) error
	Scroll(group int) (display.ScrollConfig, error)
	SetScroll(group int, cfg display.ScrollConfig) error
	SetPalette(idx int) error
	Stop()
	Diagnostics() display.Diagnostics
}

// Input is a source of keypresses. Implemented by easyterm.KeyReader.
type Input interface {
	ReadKey() (rune, error)
}

const (
	smallStep = 1
	largeStep = 8
)

// Console maps keypresses onto the Host.
type Console struct {
	host Host
	out  io.Writer

	palette int
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(host Host, out io.Writer) *Console {
	return &Console{
		host: host,
		out:  out,
	}
}

// Run reads keys from the input until the display is stopped or the input
// ends.
func (con *Console) Run(in Input) error {
	for {
		k, err := in.ReadKey()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		done, err := con.Key(k)
		if err != nil {
			logger.Log(logger.Allow, "control", err)
			fmt.Fprintf(con.out, "* %v\r\n", err)
		}
		if done {
			return nil
		}
	}
}

// Key handles a single keypress. Returns true if the display has been
// stopped.
func (con *Console) Key(k rune) (bool, error) {
	switch k {
	case easyterm.KeyUp, 'w':
		return false, con.move(0, -smallStep)
	case easyterm.KeyDown, 's':
		return false, con.move(0, smallStep)
	case easyterm.KeyLeft, 'a':
		return false, con.move(-smallStep, 0)
	case easyterm.KeyRight, 'd':
		return false, con.move(smallStep, 0)
	case 'W':
		return false, con.move(0, -largeStep)
	case 'S':
		return false, con.move(0, largeStep)
	case 'A':
		return false, con.move(-largeStep, 0)
	case 'D':
		return false, con.move(largeStep, 0)

	case 'j':
		return false, con.scroll(-smallStep)
	case 'k':
		return false, con.scroll(smallStep)
	case 'J':
		return false, con.scroll(-largeStep)
	case 'K':
		return false, con.scroll(largeStep)
	case 'u':
		return false, con.host.SetScroll(0, display.ScrollConfig{})

	case 'b':
		s, err := con.host.Sprite(0)
		if err != nil {
			return false, err
		}
		blend := s.Blend.Next()
		fmt.Fprintf(con.out, "sprite 0 blend: %s\r\n", blend)
		return false, con.host.SetSprite(0, s.Index, blend)

	case 'n':
		s, err := con.host.Sprite(0)
		if err != nil {
			return false, err
		}
		idx := (s.Index + 1) % scene.MaxSprites
		fmt.Fprintf(con.out, "sprite 0 content: %d\r\n", idx)
		return false, con.host.SetSprite(0, idx, s.Blend)

	case 'p':
		con.palette = (con.palette + 1) % scene.PaletteEntries
		return false, con.host.SetPalette(con.palette)

	case 'i':
		io.WriteString(con.out, con.host.Diagnostics().String())
		io.WriteString(con.out, "\r\n")
		return false, nil

	case '?':
		io.WriteString(con.out, help)
		return false, nil

	case 'q', easyterm.KeyEsc, easyterm.KeyInterrupt:
		con.host.Stop()
		return true, nil
	}

	return false, nil
}

func (con *Console) move(dx int, dy int) error {
	s, err := con.host.Sprite(0)
	if err != nil {
		return err
	}
	return con.host.SetSpritePos(0, s.X+dx, s.Y+dy)
}

func (con *Console) scroll(d int) error {
	cfg, err := con.host.Scroll(0)
	if err != nil {
		return err
	}
	cfg.Offset += d
	return con.host.SetScroll(0, cfg)
}

const help = "cursor/wasd: move sprite  j/k: scroll  u: reset scroll  b: blend  n: sprite content\r\n" +
	"p: palette  i: diagnostics  q: stop\r\n"
