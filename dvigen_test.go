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

package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/modalflag"
	"github.com/jetsetilly/dvigen/test"
)

func writePNG(t *testing.T, fn string, w int, h int, c color.Color) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	defer f.Close()
	test.DemandSuccess(t, png.Encode(f, img))
}

func newModes(out *strings.Builder, args ...string) *modalflag.Modes {
	md := &modalflag.Modes{Output: out}
	md.NewArgs(args)
	return md
}

func TestBuildAndDump(t *testing.T) {
	dir := t.TempDir()
	imgFile := filepath.Join(dir, "background.png")
	sprFile := filepath.Join(dir, "sprite.png")
	sceneFile := filepath.Join(dir, "out.scene")
	dotFile := filepath.Join(dir, "out.dot")

	writePNG(t, imgFile, 32, 24, color.NRGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff})
	writePNG(t, sprFile, 16, 8, color.NRGBA{R: 0xff, A: 0xff})

	out := &strings.Builder{}
	md := newModes(out, "-mode", "argb1555", "-vrepeat", "2", "-sprite", sprFile, imgFile, sceneFile)
	test.DemandSuccess(t, build(md))
	test.ExpectSuccess(t, strings.Contains(out.String(), "ARGB1555"))

	content, err := os.ReadFile(sceneFile)
	test.DemandSuccess(t, err)

	d, err := decodeScene(content, 1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, d.Config.Res, scene.Resolution640x480)
	test.ExpectEquality(t, d.Config.VRepeat, uint8(2))
	test.ExpectEquality(t, d.Config.VLength, uint16(240))
	test.ExpectEquality(t, d.Config.HLength, uint16(640))
	test.ExpectEquality(t, d.Header.NumFrames, uint16(1))
	test.DemandEquality(t, len(d.Frames), 1)
	test.ExpectEquality(t, len(d.Frames[0].Table), 240)
	test.ExpectEquality(t, d.Frames[0].Table[0].Mode(), scene.ModeARGB1555)
	test.DemandEquality(t, len(d.Sprites), 1)
	test.ExpectEquality(t, d.Sprites[0].Header.Width, uint8(16))
	test.ExpectEquality(t, d.Sprites[0].Header.Height, uint8(8))

	out.Reset()
	md = newModes(out, "-o", dotFile, sceneFile)
	test.DemandSuccess(t, dump(md))
	test.ExpectSuccess(t, strings.Contains(out.String(), "sprites: 1"))

	dot, err := os.ReadFile(dotFile)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(dot), "digraph"))
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	imgFile := filepath.Join(dir, "background.png")
	writePNG(t, imgFile, 8, 8, color.White)

	out := &strings.Builder{}
	test.ExpectFailure(t, build(newModes(out, imgFile)))
	test.ExpectFailure(t, build(newModes(out, "-mode", "YUV", imgFile, filepath.Join(dir, "a"))))
	test.ExpectFailure(t, build(newModes(out, "-res", "1024x768", imgFile, filepath.Join(dir, "a"))))
	test.ExpectFailure(t, build(newModes(out, "-vrepeat", "3", imgFile, filepath.Join(dir, "a"))))
	test.ExpectFailure(t, build(newModes(out, filepath.Join(dir, "missing.png"), filepath.Join(dir, "a"))))
}

func TestDumpInvalid(t *testing.T) {
	_, err := decodeScene(make([]byte, 64), 1)
	test.ExpectFailure(t, err)
}

func TestParseLineMode(t *testing.T) {
	m, err := parseLineMode("palette")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, scene.ModePalette)

	m, err = parseLineMode("RGB888")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, scene.ModeRGB888)

	_, err = parseLineMode("CMYK")
	test.ExpectFailure(t, err)
}
