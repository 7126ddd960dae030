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

package display_test

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync"
	"testing"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/hardware/tmds"
	"github.com/jetsetilly/dvigen/monitor"
	"github.com/jetsetilly/dvigen/test"
)

type sceneOpts struct {
	res     scene.Resolution
	frames  int
	first   int
	bank    int
	divider int
	hLength int
	vLength int
	vRepeat int
	scroll  bool
}

// a palette scene in which the value of every pixel is its column number. the
// stored lines are twice as long as the displayed lines so that they can be
// scrolled
func buildScene(t *testing.T, o sceneOpts) []byte {
	t.Helper()

	if o.res == scene.ResolutionOff {
		o.res = scene.Resolution640x480
	}
	o.frames = max(o.frames, 1)
	o.divider = max(o.divider, 1)
	o.vRepeat = max(o.vRepeat, 1)
	if o.hLength == 0 {
		o.hLength = 640
	}
	if o.vLength == 0 {
		o.vLength = 480
	}

	b := scene.NewBuilder(scene.Config{
		Res:     o.res,
		HRepeat: 1,
		VRepeat: uint8(o.vRepeat),
		HLength: uint16(o.hLength),
		VLength: uint16(o.vLength),
	})
	b.FirstFrame = o.first
	b.BankNumber = o.bank
	b.FrameRateDivider = o.divider

	data := make([]byte, o.hLength*2)
	for x := range data {
		data[x] = byte(x)
	}

	lines := make([]scene.Line, o.vLength)
	for i := range lines {
		lines[i] = scene.Line{Data: data, Mode: scene.ModePalette, HRepeat: 1, ScrollGroup: -1}
		if o.scroll {
			lines[i].ScrollGroup = 0
		}
	}
	for range o.frames {
		test.DemandSuccess(t, b.AddFrame(lines))
	}

	palette := make([]byte, scene.PaletteSize)
	for i := range scene.PaletteEntries {
		palette[i*3] = byte(i)
		palette[i*3+1] = byte(i)
		palette[i*3+2] = byte(i)
	}
	test.DemandSuccess(t, b.AddPalette(palette))

	img, err := b.Build()
	test.DemandSuccess(t, err)
	return img
}

// recorder is a monitor that records the frames it receives and the value of
// the first pixel of every line
type recorder struct {
	crit   sync.Mutex
	infos  []monitor.FrameInfo
	lines  []int
	first  [][]uint8
	cur    []uint8
	active bool

	// called at the start of every frame with the index of the frame
	hook func(n int)
}

func (r *recorder) BeginFrame(info monitor.FrameInfo) error {
	r.crit.Lock()
	r.infos = append(r.infos, info)
	r.cur = r.cur[:0]
	r.active = true
	n := len(r.infos) - 1
	hook := r.hook
	r.crit.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

func (r *recorder) Scanline(line int, symbols *tmds.SymbolBuffer) error {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.cur = append(r.cur, tmds.Decode(symbols.Channels[tmds.Red][0]))
	return nil
}

func (r *recorder) EndFrame() error {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.lines = append(r.lines, len(r.cur))
	r.first = append(r.first, append([]uint8{}, r.cur...))
	r.active = false
	return nil
}

// completed frames
func (r *recorder) completed() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return len(r.lines)
}

func newPipeline(t *testing.T, mon monitor.Monitor, content []byte) (*display.Pipeline, func()) {
	t.Helper()

	eng := psram.NewEngine(psram.NewChip())
	prefs := display.DefaultPreferences()
	test.DemandSuccess(t, prefs.VSyncGrace.Set(0))

	p := display.NewPipeline(eng, mon, prefs)
	if content != nil {
		test.DemandSuccess(t, p.Load(content))
	}
	return p, eng.Close
}

// stop the pipeline once n frames have started
func stopAfter(p *display.Pipeline, n int) func(int) {
	return func(i int) {
		if i >= n-1 {
			p.Stop()
		}
	}
}

func TestLiveness(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{}))
	defer done()

	rec.hook = stopAfter(p, 2)
	test.DemandSuccess(t, p.Run(context.Background()))
	test.ExpectEquality(t, p.State(), display.Stopped)

	test.DemandSuccess(t, rec.completed() >= 2)
	for i, l := range rec.lines {
		test.ExpectEquality(t, l, 480, i)
	}

	d := p.Diagnostics()
	test.ExpectEquality(t, d.LastFrameLines, 480)
	test.ExpectEquality(t, d.LastFramePairs, 240)
	test.ExpectEquality(t, d.Frames, rec.completed())
	test.ExpectEquality(t, d.Spec, "640x480p60")
	test.ExpectEquality(t, d.PatchDrops, 0)
	test.ExpectSuccess(t, d.VBlankBudgetUS > 0)
	test.ExpectSuccess(t, d.Memory.Transfers > 0)

	// only the headline of the diagnostics report is checked
	head, err := test.NewCappedWriter(len("state: stopped (640x480p60)\n"))
	test.DemandSuccess(t, err)
	io.WriteString(head, d.String())
	test.ExpectEquality(t, head.Full(), true)
	test.ExpectEquality(t, head.String(), "state: stopped (640x480p60)\n")
}

func TestVerticalRepeat(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{vLength: 240, vRepeat: 2}))
	defer done()

	rec.hook = stopAfter(p, 2)
	test.DemandSuccess(t, p.Run(context.Background()))

	for i, l := range rec.lines {
		test.ExpectEquality(t, l, 480, i)
	}
	test.ExpectEquality(t, p.Diagnostics().LastFramePairs, 120)
}

func TestNoValidContent(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, nil)
	defer done()

	err := p.Run(context.Background())
	test.ExpectSuccess(t, curated.Is(err, scene.NoValidContent))
	test.ExpectEquality(t, p.State(), display.Stopped)
	test.ExpectEquality(t, rec.completed(), 0)

	// the pipeline can be restarted with valid content
	test.DemandSuccess(t, p.Load(buildScene(t, sceneOpts{})))
	rec.hook = stopAfter(p, 1)
	test.ExpectSuccess(t, p.Run(context.Background()))
	test.ExpectSuccess(t, rec.completed() >= 1)
}

func TestSceneTooLarge(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{hLength: 720}))
	defer done()

	err := p.Run(context.Background())
	test.ExpectSuccess(t, curated.Is(err, display.SceneTooLarge))
}

func TestSetResolution(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{}))
	defer done()

	var runningErr error
	rec.hook = func(n int) {
		runningErr = p.SetResolution(scene.Resolution800x600)
		p.Stop()
	}
	test.DemandSuccess(t, p.Run(context.Background()))
	test.ExpectSuccess(t, curated.Is(runningErr, display.NotStopped))

	test.ExpectSuccess(t, p.SetResolution(scene.Resolution800x600))
	test.ExpectEquality(t, p.Prefs.Resolution.String(), "800x600")
}

// a scene without a resolution uses the resolution preference
func TestResolutionPreference(t *testing.T) {
	rec := &recorder{}
	img := buildScene(t, sceneOpts{res: scene.Resolution800x600})

	// clear the resolution in the scene header
	img[4] = byte(scene.ResolutionOff)

	p, done := newPipeline(t, rec, img)
	defer done()

	test.DemandSuccess(t, p.SetResolution(scene.Resolution720x576))
	rec.hook = stopAfter(p, 1)
	test.DemandSuccess(t, p.Run(context.Background()))
	test.DemandSuccess(t, len(rec.infos) >= 1)
	test.ExpectEquality(t, rec.infos[0].Spec.ID, "720x576p50")
}

func TestResolutionChange(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{}))
	defer done()

	// frame tables are limited to MaxFrameHeight lines so a 600 line output
	// needs vertical repeat
	next := buildScene(t, sceneOpts{res: scene.Resolution800x600, vLength: 300, vRepeat: 2, hLength: 640})
	rec.hook = func(n int) {
		switch n {
		case 0:
			test.ExpectSuccess(t, p.Load(next))
		case 3:
			p.Stop()
		}
	}
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, len(rec.infos) >= 3)
	test.ExpectEquality(t, rec.infos[0].Spec.ID, "640x480p60")
	test.ExpectEquality(t, rec.infos[1].Spec.ID, "800x600p60")
	test.ExpectEquality(t, rec.lines[0], 480)
	test.ExpectEquality(t, rec.lines[1], 600)
	test.ExpectEquality(t, p.Diagnostics().Spec, "800x600p60")
	test.ExpectEquality(t, p.Diagnostics().LastFramePairs, 150)
}

func TestBankSwitch(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{frames: 4, bank: 1}))
	defer done()

	next := buildScene(t, sceneOpts{frames: 3, first: 2, bank: 2})
	rec.hook = func(n int) {
		switch n {
		case 2:
			test.ExpectSuccess(t, p.Load(next))
		case 5:
			p.Stop()
		}
	}
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, len(rec.infos) >= 5)
	for i, want := range [][2]int{{1, 0}, {1, 1}, {1, 2}, {2, 2}, {2, 2}} {
		test.ExpectEquality(t, [2]int{rec.infos[i].Bank, rec.infos[i].Frame}, want, i)
	}
	test.ExpectEquality(t, p.Diagnostics().BankSwitches, 1)
}

func TestFrameRateDivider(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{frames: 3, divider: 2, vLength: 32}))
	defer done()

	rec.hook = stopAfter(p, 7)
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, len(rec.infos) >= 7)
	for i, want := range []int{0, 0, 1, 1, 2, 2, 0} {
		test.ExpectEquality(t, rec.infos[i].Frame, want, i)
	}
}

func TestFrameCounterOverride(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{frames: 4}))
	defer done()

	rec.hook = func(n int) {
		switch n {
		case 2:
			test.ExpectSuccess(t, p.SetFrameCounter(0))
		case 4:
			p.Stop()
		}
	}
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, len(rec.infos) >= 5)
	for i, want := range []int{0, 1, 2, 0, 1} {
		test.ExpectEquality(t, rec.infos[i].Frame, want, i)
	}
}

// a change to the scroll configuration is only seen from the frame after the
// next vsync and never part way through a frame
func TestScrollAtVSync(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{scroll: true}))
	defer done()

	rec.hook = func(n int) {
		switch n {
		case 2:
			test.ExpectSuccess(t, p.SetScroll(0, display.ScrollConfig{Offset: 4}))
		case 5:
			p.Stop()
		}
	}
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, len(rec.first) >= 5)
	for i, f := range rec.first {
		want := uint8(0)
		if i > 2 {
			want = 4
		}
		for l, v := range f {
			if !test.ExpectEquality(t, v, want, i, l) {
				break
			}
		}
	}

	s, err := p.Scroll(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.Offset, 4)
	test.ExpectFailure(t, p.SetScroll(scene.NumScrollGroups, display.ScrollConfig{}))
}

func TestScrollOutsideMemory(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{scroll: true}))
	defer done()

	test.DemandSuccess(t, p.SetScroll(0, display.ScrollConfig{Offset: -1 << 24}))
	rec.hook = stopAfter(p, 3)
	test.DemandSuccess(t, p.Run(context.Background()))

	test.DemandSuccess(t, rec.completed() >= 3)
	for i, l := range rec.lines {
		test.ExpectEquality(t, l, 480, i)
	}
}

func TestCancel(t *testing.T) {
	rec := &recorder{}
	p, done := newPipeline(t, rec, buildScene(t, sceneOpts{vLength: 16}))
	defer done()

	ctx, cancel := context.WithCancel(context.Background())
	rec.hook = func(n int) {
		if n == 3 {
			cancel()
		}
	}
	test.ExpectSuccess(t, p.Run(ctx))
	test.ExpectEquality(t, p.State(), display.Stopped)
}

func TestSprites(t *testing.T) {
	b := scene.NewBuilder(scene.Config{
		Res:     scene.Resolution640x480,
		HRepeat: 1,
		VRepeat: 1,
		HLength: 64,
		VLength: 32,
	})

	var bg []byte
	for range 64 {
		bg = scene.AppendPixel(bg, scene.ModeARGB1555, 0, 0, 0xff, false)
	}
	lines := make([]scene.Line, 32)
	for i := range lines {
		lines[i] = scene.Line{Data: bg, Mode: scene.ModeARGB1555, HRepeat: 1, ScrollGroup: -1}
	}
	test.DemandSuccess(t, b.AddFrame(lines))

	var red []byte
	for range 4 {
		red = scene.AppendPixel(red, scene.ModeARGB1555, 0xff, 0, 0, true)
	}
	var rows []scene.SpriteRow
	for range 4 {
		rows = append(rows, scene.SpriteRow{Pixels: red})
	}
	_, err := b.AddSprite(scene.Sprite{Mode: scene.ModeARGB1555, Rows: rows})
	test.DemandSuccess(t, err)

	img, err := b.Build()
	test.DemandSuccess(t, err)

	mon := monitor.NewHeadless()
	p, done := newPipeline(t, mon, img)
	defer done()

	test.DemandSuccess(t, p.SetSprite(0, 0, sprite.Replace))
	test.DemandSuccess(t, p.SetSpritePos(0, 10, 20))

	// more sprites than a line can hold
	for i := 1; i < sprite.MaxPatchesPerLine+2; i++ {
		test.DemandSuccess(t, p.SetSprite(i, 0, sprite.DepthBack))
		test.DemandSuccess(t, p.SetSpritePos(i, 40, 0))
	}

	mon.SetFrameHook(func(_ monitor.FrameInfo, _ *image.RGBA) {
		p.Stop()
	})
	test.DemandSuccess(t, p.Run(context.Background()))

	out := mon.Image()
	test.DemandSuccess(t, out != nil)

	red8 := color.RGBA{R: 0xff, A: 0xff}
	blue8 := color.RGBA{B: 0xff, A: 0xff}
	test.ExpectEquality(t, out.RGBAAt(10, 20), red8)
	test.ExpectEquality(t, out.RGBAAt(13, 23), red8)
	test.ExpectEquality(t, out.RGBAAt(9, 20), blue8)
	test.ExpectEquality(t, out.RGBAAt(14, 20), blue8)
	test.ExpectEquality(t, out.RGBAAt(10, 24), blue8)
	test.ExpectEquality(t, out.RGBAAt(40, 0), red8)

	d := p.Diagnostics()
	test.ExpectSuccess(t, d.PatchDrops >= 4)
	test.ExpectSuccess(t, d.Sprites.Reused >= sprite.MaxPatchesPerLine)
}
