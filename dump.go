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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/modalflag"
	"github.com/jetsetilly/dvigen/paths"
)

// the decoded records of a scene. the graph of this type is written by the
// DUMP mode
type sceneDump struct {
	Config  scene.Config
	Header  scene.FrameTableHeader
	Frames  []frameDump
	Sprites []spriteDump
}

type frameDump struct {
	Frame int
	Table []scene.FrameTableEntry
}

type spriteDump struct {
	Index  int
	Header scene.SpriteHeader
	Lines  []scene.SpriteLine
}

// decodeScene decodes the records of the scene. numFrames limits the number
// of frame tables that are included
func decodeScene(content []byte, numFrames int) (*sceneDump, error) {
	eng := psram.NewEngine(psram.NewChip())
	defer eng.Close()

	if len(content) > psram.RAMSize {
		return nil, fmt.Errorf("scene is too large (%d bytes)", len(content))
	}
	eng.Write(0, content)
	eng.WaitForFinish()

	dec := scene.NewDecoder(eng)
	err := dec.ReadHeaders()
	if err != nil {
		return nil, err
	}

	d := &sceneDump{
		Config: dec.Config,
		Header: dec.Header,
	}

	for f := range min(numFrames, int(dec.Header.NumFrames)) {
		fd := frameDump{
			Frame: f,
			Table: make([]scene.FrameTableEntry, dec.Header.FrameTableLength),
		}
		err = dec.GetFrameTable(f, fd.Table)
		if err != nil {
			return nil, err
		}
		d.Frames = append(d.Frames, fd)
	}

	var lines [scene.MaxSpriteHeight]scene.SpriteLine
	var data [scene.MaxSpriteDataBytes]byte
	for i := range min(int(dec.Header.NumSprites), scene.MaxSprites) {
		hdr, err := dec.GetSpriteHeader(i)
		if err != nil {
			return nil, err
		}
		_, err = dec.GetSprite(hdr, lines[:], data[:])
		if err != nil {
			return nil, err
		}
		d.Sprites = append(d.Sprites, spriteDump{
			Index:  i,
			Header: hdr,
			Lines:  append([]scene.SpriteLine{}, lines[:hdr.Height]...),
		})
	}

	return d, nil
}

func (d *sceneDump) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("config: %s\n", d.Config))
	s.WriteString(fmt.Sprintf("frames: %d (first %d, divider %d, bank %d)\n",
		d.Header.NumFrames, d.Header.FirstFrame, d.Header.FrameRateDivider, d.Header.BankNumber))
	s.WriteString(fmt.Sprintf("palettes: %d (advance %v)\n", d.Header.NumPalettes, d.Header.PaletteAdvance))
	s.WriteString(fmt.Sprintf("sprites: %d\n", d.Header.NumSprites))
	for _, spr := range d.Sprites {
		s.WriteString(fmt.Sprintf("  %d: %dx%d %s\n", spr.Index, spr.Header.Width, spr.Header.Height, spr.Header.Mode))
	}
	return s.String()
}

func dump(md *modalflag.Modes) error {
	md.NewMode()

	numFrames := md.AddInt("frames", 1, "number of frame tables to include in the graph")
	output := md.AddString("o", "", "graph output file. defaults to a unique filename in the current directory")
	graph := md.AddBool("graph", true, "write graph of scene records")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("scene file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	content, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	d, err := decodeScene(content, *numFrames)
	if err != nil {
		return err
	}

	fmt.Fprint(md.Output, d.String())

	if !*graph {
		return nil
	}

	fn := *output
	if fn == "" {
		base := strings.TrimSuffix(filepath.Base(md.GetArg(0)), filepath.Ext(md.GetArg(0)))
		fn = paths.UniqueFilename("dump", base, "dot")
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, d)
	fmt.Fprintf(md.Output, "graph written to %s\n", fn)

	return nil
}
