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
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/dvigen/control"
	"github.com/jetsetilly/dvigen/control/easyterm"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/display/specification"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/hardware/scene/convert"
	"github.com/jetsetilly/dvigen/logger"
	"github.com/jetsetilly/dvigen/modalflag"
	"github.com/jetsetilly/dvigen/monitor"
	"github.com/jetsetilly/dvigen/monitor/sdlmonitor"
	"github.com/jetsetilly/dvigen/performance"
	"github.com/jetsetilly/dvigen/prefs"
	"github.com/jetsetilly/dvigen/statsview"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode handles the
	// interrupt itself
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// GuiCreator facilitates the creation, servicing and destruction of windows
// that need to be run in the main thread.
type GuiCreator interface {
	// cleanup resources used by the gui
	Destroy(io.Writer)

	// Service() should not pause or loop longer than necessary (if at all). It
	// MUST ONLY by called as part of a larger loop from the main thread.
	Service()
}

// communication between the main() function and the launch() function. this is
// required because SDL requires window event handling (including creation) to
// occur on the main thread.
type mainSync struct {
	state   chan stateRequest
	creator chan func() (GuiCreator, error)

	// the result of creator will be returned on either of these two channels.
	creation      chan GuiCreator
	creationError chan error
}

// #mainthread
func main() {
	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (GuiCreator, error)),
		creation:      make(chan GuiCreator),
		creationError: make(chan error),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a go routine. further communication is through the
	// mainSync instance
	go launch(sync, os.Args[1:])

	done := false
	var gui GuiCreator
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case creator := <-sync.creator:
			var err error

			if gui != nil {
				gui.Destroy(os.Stderr)
			}

			gui, err = creator()
			if err != nil {
				sync.creationError <- err

				// creator() may return a nil pointer of a concrete type. the
				// interface value is not nil in that case
				gui = nil
			} else {
				sync.creation <- gui
			}

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if gui != nil {
					gui.Destroy(os.Stderr)
				}

				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}

		default:
			if gui != nil {
				gui.Service()
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "BUILD", "DUMP", "PERFORMANCE")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)

	case "BUILD":
		err = build(md)

	case "DUMP":
		err = dump(md)

	case "PERFORMANCE":
		err = perform(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// preferences for the display. overrides from the command line are pushed
// onto the preferences stack before the preferences are loaded
func loadPreferences(prefsFile string, overrides string) (*display.Preferences, error) {
	prefs.PushCommandLineStack(overrides)
	defer func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused preference overrides: %s", unused)
		}
	}()

	if prefsFile == "" {
		return display.NewPreferences()
	}
	return display.NewPreferencesFromFile(prefsFile)
}

// frameLimit stops the pipeline after a number of frames
type frameLimit struct {
	monitor.Monitor
	p      *display.Pipeline
	frames int
	count  int
}

func (mon *frameLimit) EndFrame() error {
	err := mon.Monitor.EndFrame()
	mon.count++
	if mon.count >= mon.frames {
		mon.p.Stop()
	}
	return err
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	prefsFile := md.AddString("prefsfile", "", "alternative preferences file")
	overrides := md.AddString("prefs", "", "preference overrides (key::value; key::value)")
	useSDL := md.AddBool("sdl", false, "show output in a window")
	scale := md.AddInt("scale", 1, "window scaling (only valid if -sdl=true)")
	paced := md.AddBool("paced", true, "limit the frame rate to that of the display mode")
	frames := md.AddInt("frames", 0, "stop after number of frames. zero to run until stopped")
	console := md.AddBool("console", true, "control the display with keypresses in the terminal")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	echo := md.AddBool("log", false, "echo log to stdout")

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

	pr, err := loadPreferences(*prefsFile, *overrides)
	if err != nil {
		return err
	}
	if *echo {
		err = pr.EchoLog.Set(true)
		if err != nil {
			return err
		}
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		statsview.Launch(md.Output)
	}

	eng := psram.NewEngine(psram.NewChip())
	defer eng.Close()

	var mon monitor.Monitor
	var hl *monitor.Headless
	var input control.Input

	if *useSDL {
		sync.creator <- func() (GuiCreator, error) {
			return sdlmonitor.NewSdlMonitor(*scale)
		}

		select {
		case g := <-sync.creation:
			scr := g.(*sdlmonitor.SdlMonitor)
			mon = scr
			input = scr
		case err := <-sync.creationError:
			return err
		}
	} else {
		hl = monitor.NewHeadless()
		mon = hl
	}

	if *paced {
		mon = monitor.NewPaced(mon)
	}

	limit := &frameLimit{Monitor: mon, frames: *frames}
	if *frames > 0 {
		mon = limit
	}

	pl := display.NewPipeline(eng, mon, pr)
	limit.p = pl

	err = pl.Load(content)
	if err != nil {
		return err
	}

	// the console and the sdl window both send keys to the console
	if *console {
		term, err := easyterm.NewTerminal(os.Stdin, os.Stdout)
		if err != nil {
			logger.Log(logger.Allow, "control", err)
		} else {
			term.CBreakMode()
			defer term.CleanUp()
			go control.NewConsole(pl, term).Run(term)
		}
	}
	if input != nil {
		go control.NewConsole(pl, md.Output).Run(input)
	}

	// the pipeline handles interrupts by stopping at the end of the frame
	sync.state <- stateRequest{req: reqNoIntSig}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = pl.Run(ctx)

	fmt.Fprint(md.Output, strings.ReplaceAll(pl.Diagnostics().String(), "\n", "\r\n"))
	if hl != nil {
		fmt.Fprintf(md.Output, "digest: %s\r\n", hl.Digest())
	}

	return err
}

func build(md *modalflag.Modes) error {
	md.NewMode()

	res := md.AddString("res", "640x480", "resolution of scene")
	mode := md.AddString("mode", "RGB565", "line mode: ARGB1555, PALETTE, RGB888, RGB565")
	hRepeat := md.AddInt("hrepeat", 1, "horizontal pixel repeat")
	vRepeat := md.AddInt("vrepeat", 1, "vertical line repeat (1 or 2)")
	dither := md.AddBool("dither", false, "dither image in PALETTE mode")
	spriteFile := md.AddString("sprite", "", "image to use as sprite 0")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("%s mode requires an image file and an output file", md)
	}

	r, err := scene.ParseResolution(*res)
	if err != nil {
		return err
	}
	spec, err := specification.SpecFor(r)
	if err != nil {
		return err
	}

	lm, err := parseLineMode(*mode)
	if err != nil {
		return err
	}

	if *vRepeat != 1 && *vRepeat != 2 {
		return fmt.Errorf("vertical repeat must be 1 or 2")
	}

	img, err := decodeImage(md.GetArg(0))
	if err != nil {
		return err
	}

	cfg := scene.Config{
		Res:     r,
		HRepeat: uint8(max(*hRepeat, 1)),
		VRepeat: uint8(*vRepeat),
		HLength: uint16(min(spec.Horizontal.Active, scene.MaxFrameWidth)),
		VLength: uint16(min(spec.Vertical.Active / *vRepeat, scene.MaxFrameHeight) &^ 1),
	}
	cfg.HOffset = uint16(spec.Horizontal.Active-int(cfg.HLength)) / 2

	opts := convert.Options{
		Mode:    lm,
		HRepeat: int(cfg.HRepeat),
		Dither:  *dither,
	}

	lines, pal, err := convert.Lines(img, cfg, opts)
	if err != nil {
		return err
	}

	b := scene.NewBuilder(cfg)
	err = b.AddFrame(lines)
	if err != nil {
		return err
	}
	if pal != nil {
		err = b.AddPalette(pal)
		if err != nil {
			return err
		}
	}

	if *spriteFile != "" {
		simg, err := decodeImage(*spriteFile)
		if err != nil {
			return err
		}

		// sprites must be the same mode as the lines they are drawn on
		smode := lm
		if smode == scene.ModePalette {
			return fmt.Errorf("sprites cannot be built for PALETTE mode scenes")
		}
		spr, err := convert.Sprite(simg, smode)
		if err != nil {
			return err
		}
		_, err = b.AddSprite(spr)
		if err != nil {
			return err
		}
	}

	content, err := b.Build()
	if err != nil {
		return err
	}

	err = os.WriteFile(md.GetArg(1), content, 0o644)
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%s: %s %s (%d bytes)\n", md.GetArg(1), cfg, lm, len(content))
	return nil
}

func parseLineMode(s string) (scene.LineMode, error) {
	for m := scene.ModeARGB1555; m <= scene.ModeRGB565; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown line mode %q", s)
}

func decodeImage(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	prefsFile := md.AddString("prefsfile", "", "alternative preferences file")
	overrides := md.AddString("prefs", "", "preference overrides (key::value; key::value)")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma sep)")

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

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	pr, err := loadPreferences(*prefsFile, *overrides)
	if err != nil {
		return err
	}

	// pacing is never used for performance measurement and the grace period
	// at the end of each frame would skew the result
	err = pr.VSyncGrace.Set(0)
	if err != nil {
		return err
	}

	res, err := performance.Check(md.Output, prf, content, pr, *duration)
	if err != nil {
		return err
	}

	fmt.Fprint(md.Output, res.Diagnostics.String())
	return nil
}
