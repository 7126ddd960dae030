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

package display

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/display/specification"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/sprite"
	"github.com/jetsetilly/dvigen/logger"
	"github.com/jetsetilly/dvigen/monitor"
)

// Sentinel error patterns returned by the pipeline.
const (
	AlreadyRunning = "display: already running"
	NotStopped     = "display: %s is only possible when stopped"
	SceneTooLarge  = "display: scene does not fit %s"
)

// Pipeline is the scanline pipeline. It should be created with NewPipeline().
type Pipeline struct {
	Prefs *Preferences

	mem  *psram.Engine
	dec  *scene.Decoder
	comp *sprite.Compositor
	mon  monitor.Monitor

	// crit protects the fields that can be accessed by the host
	crit       sync.Mutex
	state      State
	running    bool
	stop       bool
	scroll     [scene.NumScrollGroups]ScrollConfig
	paletteIdx int
	override   int
	content    [][]byte
	diag       Diagnostics

	// the remaining fields are only accessed by core A while the pipeline is
	// running

	ser *Serializer
	b   *coreB
	a   core

	spec specification.Spec

	// copy of the scene config for the current frame
	cfg scene.Config

	// scroll configuration for the current frame. copied from the host's
	// scroll configuration during vsync
	current [scene.NumScrollGroups]ScrollConfig

	bank     int
	frame    int
	divCount int
	count    int

	table   [scene.MaxFrameHeight]scene.FrameTableEntry
	palette [scene.PaletteSize]byte
	patches [scene.MaxFrameHeight]sprite.PatchList
	pixels  [2]pixelSlot
	regions []psram.Region

	// timing for the current frame
	timing frameTiming
}

type frameTiming struct {
	prep       time.Duration
	worstLine  time.Duration
	cumulative time.Duration
	missed     int
	lines      int
	pairs      int
}

// NewPipeline is the preferred method of initialisation for the Pipeline
// type. The Preferences argument can be nil, in which case the default
// preferences are used.
func NewPipeline(mem *psram.Engine, mon monitor.Monitor, prefs *Preferences) *Pipeline {
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	return &Pipeline{
		Prefs:    prefs,
		mem:      mem,
		dec:      scene.NewDecoder(mem),
		comp:     sprite.NewCompositor(),
		mon:      mon,
		override: -1,
		regions:  make([]psram.Region, 0, 4),
	}
}

// State returns the current state of the pipeline.
func (p *Pipeline) State() State {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.state = s
}

// Run the pipeline until it is stopped with Stop() or the context is
// cancelled. The context is only checked at frame boundaries.
//
// An error is returned if the scene content is invalid or if the monitor
// returns an error. In both cases the pipeline will be in the Stopped state
// and can be restarted with another call to Run().
func (p *Pipeline) Run(ctx context.Context) error {
	p.crit.Lock()
	if p.running {
		p.crit.Unlock()
		return curated.Errorf(AlreadyRunning)
	}
	p.running = true
	p.stop = false
	p.crit.Unlock()

	defer func() {
		p.crit.Lock()
		defer p.crit.Unlock()
		p.running = false
		p.state = Stopped
	}()

	p.ser = NewSerializer(p.mon)
	p.b = newCoreB()
	p.spec = specification.Spec{}
	p.bank = -1
	p.count = 0

	g, gctx := errgroup.WithContext(ctx)
	g.Go(p.ser.Run)
	g.Go(p.b.run)
	g.Go(func() error {
		defer p.ser.close()
		defer close(p.b.jobs)

		p.mem.Owner().Claim()
		defer p.mem.Owner().Release()

		return p.coreA(ctx, gctx)
	})

	err := g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// the main loop. ctx is the context passed to Run() and is only checked
// between frames. gctx is cancelled if any of the pipeline's goroutines fail
func (p *Pipeline) coreA(ctx context.Context, gctx context.Context) error {
	p.mem.SetInterface(p.memInterface())
	logger.Log(logger.Allow, "display", "started")

	for {
		p.crit.Lock()
		stop := p.stop
		p.crit.Unlock()

		if stop || ctx.Err() != nil {
			logger.Log(logger.Allow, "display", "stopped")
			return nil
		}

		err := p.runFrame(gctx)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			logger.Log(logger.Allow, "display", err)
			return err
		}
	}
}

func (p *Pipeline) memInterface() psram.Interface {
	if p.Prefs.QPI.Get().(bool) {
		return psram.QPI
	}
	return psram.SPI
}

func (p *Pipeline) systemClock() int {
	if mhz := p.Prefs.ClockMHz.Get().(int); mhz > 0 {
		return mhz * 1000000
	}
	return p.spec.SystemClock()
}

func (p *Pipeline) runFrame(ctx context.Context) error {
	p.timing = frameTiming{}
	start := time.Now()

	err := p.dec.ReadHeaders()
	if err != nil {
		return err
	}
	p.cfg = p.dec.Config
	hdr := p.dec.Header

	p.bankSwitch(hdr)

	err = p.checkResolution()
	if err != nil {
		return err
	}

	if int(p.cfg.VRepeat) != p.ser.VRepeat() {
		p.ser.WaitForInactive()
		p.ser.SetVRepeat(int(p.cfg.VRepeat))
	}

	vLength := int(p.cfg.VLength)
	err = p.dec.GetFrameTable(p.frame, p.table[:vLength])
	if err != nil {
		return err
	}

	if hdr.NumPalettes > 0 {
		p.crit.Lock()
		idx := min(p.paletteIdx, int(hdr.NumPalettes)-1)
		p.crit.Unlock()

		t, err := p.dec.GetPalette(idx, p.frame, p.palette[:])
		if err != nil {
			return err
		}
		t.Wait()
	}

	for i := range vLength {
		p.patches[i].Reset()
	}
	p.comp.Update(frameView{p: p})

	err = p.ser.send(ctx, item{kind: itemFrame, info: monitor.FrameInfo{
		Spec:   p.spec,
		Config: p.cfg,
		Frame:  p.frame,
		Bank:   p.bank,
		Count:  p.count,
	}})
	if err != nil {
		return err
	}

	// prime the first pair of lines
	if !p.cfg.Blank {
		t, err := p.fetchPair(0)
		if err != nil {
			return err
		}
		t.Wait()
	}
	p.setState(Primed)
	p.timing.prep = time.Since(start)

	p.setState(Streaming)
	err = p.stream(ctx)
	if err != nil {
		return err
	}

	p.setState(VSync)
	err = p.ser.send(ctx, item{kind: itemVSync})
	if err != nil {
		return err
	}

	return p.vsync(hdr)
}

// bankSwitch checks for a change of bank and applies any frame counter
// override requested by the host
func (p *Pipeline) bankSwitch(hdr scene.FrameTableHeader) {
	p.crit.Lock()
	defer p.crit.Unlock()

	if int(hdr.BankNumber) != p.bank {
		if p.bank != -1 {
			logger.Logf(logger.Allow, "display", "bank switch from %d to %d", p.bank, hdr.BankNumber)
			p.paletteIdx = 0
			p.diag.BankSwitches++
		}
		p.bank = int(hdr.BankNumber)
		p.frame = int(hdr.FirstFrame)
		p.divCount = 0
	}

	if p.override >= 0 {
		p.frame = p.override
		p.divCount = 0
		p.override = -1
	}

	if p.frame >= int(hdr.NumFrames) {
		p.frame = int(hdr.FirstFrame)
	}
}

// checkResolution changes the display mode if the scene requires a different
// one. the resolution preference is used if the scene does not specify one
func (p *Pipeline) checkResolution() error {
	res := p.cfg.Res
	if res == scene.ResolutionOff {
		res = p.Prefs.resolution()
	}

	if res != p.spec.Resolution || p.spec.PixelClock == 0 {
		spec, err := specification.SpecFor(res)
		if err != nil {
			return err
		}

		if p.spec.PixelClock != 0 {
			logger.Logf(logger.Allow, "display", "resolution change from %s to %s", p.spec.ID, spec.ID)
			p.ser.WaitForInactive()
			p.setState(Stopped)
		}

		p.spec = spec
		p.mem.SetSystemClock(p.systemClock())
		logger.Logf(logger.Allow, "display", "output is %s", spec)

		p.crit.Lock()
		p.diag.Spec = spec.ID
		p.diag.VBlankBudgetUS = spec.VBlankTime().Microseconds()
		p.diag.ActiveBudgetUS = spec.ActiveTime().Microseconds()
		p.crit.Unlock()
	}

	if int(p.cfg.HOffset)+int(p.cfg.HLength) > p.spec.Horizontal.Active ||
		int(p.cfg.VOffset)+int(p.cfg.VLength)*int(p.cfg.VRepeat) > p.spec.Vertical.Active {
		return curated.Errorf(SceneTooLarge, p.spec.ID)
	}

	return nil
}

// fetchPair starts the read of the pixel data for the pair of lines
func (p *Pipeline) fetchPair(pair int) (*psram.Transfer, error) {
	slot := &p.pixels[pair%2]
	hLength := int(p.cfg.HLength)

	p.regions = p.regions[:0]
	off := 0
	for i := range 2 {
		e := p.table[pair*2+i]
		n := min((hLength/e.HRepeat())*e.Mode().BytesPerPixel(), maxLineBytes)
		slot.start[i] = off
		slot.n[i] = n
		off += n

		if g := e.ScrollGroup(); g >= 0 {
			p.regions = p.current[g].regions(e.Address(), n, p.regions)
		} else {
			p.regions = append(p.regions, psram.Region{Addr: e.Address(), Len: n})
		}
	}

	return p.mem.MultiRead(p.regions, slot.data[:], nil)
}

func (p *Pipeline) job(line int, slot *pixelSlot, half int) lineJob {
	e := p.table[line]
	return lineJob{
		line:    line,
		data:    slot.line(half),
		mode:    e.Mode(),
		hRepeat: e.HRepeat(),
		width:   int(p.cfg.HLength),
		blank:   p.cfg.Blank,
		patches: p.patches[line].Patches(),
		palette: p.palette[:],
	}
}

// stream the frame to the serializer one pair of lines at a time
func (p *Pipeline) stream(ctx context.Context) error {
	pairs := int(p.cfg.VLength) / 2
	deadline := p.spec.PairDeadline(int(p.cfg.VRepeat))

	var next *psram.Transfer

	for pair := range pairs {
		t0 := time.Now()

		if next != nil {
			next.Wait()
			next = nil
		}

		// start fetching the next pair while this pair is being prepared
		if pair+1 < pairs && !p.cfg.Blank {
			var err error
			next, err = p.fetchPair(pair + 1)
			if err != nil {
				return err
			}
		}

		bufB, err := p.ser.buffer(ctx)
		if err != nil {
			return err
		}
		bufA, err := p.ser.buffer(ctx)
		if err != nil {
			return err
		}

		slot := &p.pixels[pair%2]

		jb := p.job(pair*2, slot, 0)
		jb.out = bufB
		p.b.jobs <- jb

		ja := p.job(pair*2+1, slot, 1)
		ja.out = bufA
		p.a.prepare(ja)

		<-p.b.done

		err = p.ser.send(ctx, item{kind: itemLine, line: jb.line, buf: bufB})
		if err != nil {
			return err
		}
		err = p.ser.send(ctx, item{kind: itemLine, line: ja.line, buf: bufA})
		if err != nil {
			return err
		}

		p.timing.lines += 2
		p.timing.pairs++

		elapsed := time.Since(t0)
		p.timing.cumulative += elapsed
		p.timing.worstLine = max(p.timing.worstLine, elapsed/2)
		if elapsed > deadline {
			p.timing.missed++
		}
	}

	if next != nil {
		next.Wait()
	}

	return nil
}

// vsync is the window in which the host's scroll configuration is adopted,
// queued content is written to memory and the frame counters are advanced
func (p *Pipeline) vsync(hdr scene.FrameTableHeader) error {
	p.crit.Lock()
	p.current = p.scroll
	content := p.content
	p.content = nil
	p.crit.Unlock()

	for _, c := range content {
		p.mem.Write(0, c)
		p.mem.WaitForFinish()
		logger.Logf(logger.Allow, "display", "loaded %d bytes of content", len(c))
	}

	p.divCount++
	if p.divCount >= max(int(hdr.FrameRateDivider), 1) {
		p.divCount = 0
		p.frame++
		if p.frame >= int(hdr.NumFrames) {
			p.frame = int(hdr.FirstFrame)
		}
	}
	p.count++

	p.crit.Lock()
	p.diag.Frames = p.count
	p.diag.Frame = p.frame
	p.diag.Bank = p.bank
	p.diag.FramePrepUS = p.timing.prep.Microseconds()
	p.diag.WorstLinePrepUS = max(p.diag.WorstLinePrepUS, p.timing.worstLine.Microseconds())
	p.diag.CumulativeLinePrepUS = p.timing.cumulative.Microseconds()
	p.diag.MissedDeadlines += p.timing.missed
	p.diag.LastFrameLines = p.timing.lines
	p.diag.LastFramePairs = p.timing.pairs
	p.crit.Unlock()

	if grace := p.Prefs.VSyncGrace.Get().(int); grace > 0 {
		time.Sleep(time.Duration(grace) * time.Microsecond)
	}

	return nil
}

// frameView is the sprite.Frame implementation for the pipeline
type frameView struct {
	p *Pipeline
}

func (f frameView) Geometry() (int, int) {
	return int(f.p.cfg.HLength), int(f.p.cfg.VLength)
}

func (f frameView) LineMode(line int) scene.LineMode {
	return f.p.table[line].Mode()
}

func (f frameView) HRepeat(line int) int {
	return f.p.table[line].HRepeat()
}

func (f frameView) AddPatch(line int, pt sprite.Patch) bool {
	return f.p.patches[line].Add(pt)
}

func (f frameView) Memory() sprite.Source {
	return f.p.dec
}
