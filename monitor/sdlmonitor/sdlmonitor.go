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

// Package sdlmonitor is a monitor that shows the decoded output of the
// display pipeline in an SDL window. Keypresses in the window are made
// available through the ReadKey() function in the same form as the keys
// returned by the easyterm package.
//
// SDL requires that window creation and event handling happen on the main
// thread. NewSdlMonitor(), Service() and Destroy() must only be called from
// the main thread. The Monitor functions are called from the serializer's
// goroutine and are safe to do so.
package sdlmonitor

import (
	"io"
	"sync"

	"github.com/jetsetilly/dvigen/control/easyterm"
	"github.com/jetsetilly/dvigen/hardware/tmds"
	"github.com/jetsetilly/dvigen/logger"
	"github.com/jetsetilly/dvigen/monitor"
	"github.com/veandco/go-sdl2/sdl"
)

const windowTitle = "Dvigen"

const pixelDepth = 4

// SdlMonitor implements the monitor.Monitor interface.
type SdlMonitor struct {
	crit sync.Mutex

	// the frame being decoded by the serializer
	info   monitor.FrameInfo
	width  int
	height int
	pixels []byte

	// the most recently completed frame. fresh is true if it has not yet been
	// copied to the texture
	ready     []byte
	readyInfo monitor.FrameInfo
	readyW    int
	readyH    int
	fresh     bool

	// keys pressed in the window. closed by Destroy()
	keys   chan rune
	closed bool

	// sdl stuff. only accessed from the main thread
	scale    int
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
}

// NewSdlMonitor is the preferred method of initialisation for the SdlMonitor
// type. The window is hidden until the first frame has been received.
//
// MUST ONLY be called from the #mainthread
func NewSdlMonitor(scale int) (*SdlMonitor, error) {
	mon := &SdlMonitor{
		scale: max(scale, 1),
		keys:  make(chan rune, 16),
	}

	var err error

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, err
	}

	// window size is set when the first frame is displayed
	mon.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		0, 0,
		uint32(sdl.WINDOW_HIDDEN))
	if err != nil {
		return nil, err
	}

	mon.renderer, err = sdl.CreateRenderer(mon.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return nil, err
	}

	mon.renderer.SetDrawColor(0, 0, 0, 255)
	mon.renderer.Clear()
	mon.renderer.Present()

	return mon, nil
}

// Destroy releases the SDL resources. ReadKey() will return io.EOF once any
// pending keys have been read.
//
// MUST ONLY be called from the #mainthread
func (mon *SdlMonitor) Destroy(output io.Writer) {
	if !mon.closed {
		mon.closed = true
		close(mon.keys)
	}

	if mon.texture != nil {
		if err := mon.texture.Destroy(); err != nil {
			io.WriteString(output, err.Error())
		}
	}

	if err := mon.renderer.Destroy(); err != nil {
		io.WriteString(output, err.Error())
	}

	if err := mon.window.Destroy(); err != nil {
		io.WriteString(output, err.Error())
	}

	sdl.Quit()
}

// BeginFrame implements the monitor.Monitor interface.
func (mon *SdlMonitor) BeginFrame(info monitor.FrameInfo) error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	mon.info = info
	w := info.Spec.Horizontal.Active
	h := info.Spec.Vertical.Active
	if w != mon.width || h != mon.height {
		mon.width = w
		mon.height = h
		mon.pixels = make([]byte, w*h*pixelDepth)
	} else {
		clear(mon.pixels)
	}

	return nil
}

// Scanline implements the monitor.Monitor interface.
func (mon *SdlMonitor) Scanline(line int, symbols *tmds.SymbolBuffer) error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	y := int(mon.info.Config.VOffset) + line
	if y < 0 || y >= mon.height {
		return nil
	}

	x0 := int(mon.info.Config.HOffset)
	row := mon.pixels[y*mon.width*pixelDepth : (y+1)*mon.width*pixelDepth]
	for x := range symbols.Len {
		if x0+x >= mon.width {
			break
		}
		i := (x0 + x) * pixelDepth
		row[i], row[i+1], row[i+2] = symbols.Pixel(x)
		row[i+3] = 255
	}

	return nil
}

// EndFrame implements the monitor.Monitor interface.
func (mon *SdlMonitor) EndFrame() error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	if len(mon.ready) != len(mon.pixels) {
		mon.ready = make([]byte, len(mon.pixels))
	}
	copy(mon.ready, mon.pixels)
	mon.readyInfo = mon.info
	mon.readyW = mon.width
	mon.readyH = mon.height
	mon.fresh = true

	return nil
}

// ReadKey returns the next key pressed in the window. Returns io.EOF when the
// window has been closed.
func (mon *SdlMonitor) ReadKey() (rune, error) {
	k, ok := <-mon.keys
	if !ok {
		return 0, io.EOF
	}
	return k, nil
}

// Service handles window events and displays the most recent frame. It should
// not loop longer than necessary.
//
// MUST ONLY be called from the #mainthread
func (mon *SdlMonitor) Service() {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			mon.key(easyterm.KeyEsc)

		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN {
				shift := sdl.GetModState()&sdl.KMOD_LSHIFT == sdl.KMOD_LSHIFT ||
					sdl.GetModState()&sdl.KMOD_RSHIFT == sdl.KMOD_RSHIFT
				if k, ok := keyRune(ev.Keysym.Sym, shift); ok {
					mon.key(k)
				}
			}
		}
	}

	err := mon.update()
	if err != nil {
		logger.Log(logger.Allow, "monitor", err)
	}
}

// forward key to ReadKey(). keys are dropped if nobody is reading them
func (mon *SdlMonitor) key(k rune) {
	if mon.closed {
		return
	}

	select {
	case mon.keys <- k:
	default:
		logger.Log(logger.Allow, "monitor", "dropped key event")
	}
}

func keyRune(sym sdl.Keycode, shift bool) (rune, bool) {
	switch sym {
	case sdl.K_UP:
		return easyterm.KeyUp, true
	case sdl.K_DOWN:
		return easyterm.KeyDown, true
	case sdl.K_LEFT:
		return easyterm.KeyLeft, true
	case sdl.K_RIGHT:
		return easyterm.KeyRight, true
	case sdl.K_ESCAPE:
		return easyterm.KeyEsc, true
	}

	// keycodes for printable keys are the ASCII value of the unshifted key
	if sym >= 0x20 && sym < 0x7f {
		k := rune(sym)
		if shift && k >= 'a' && k <= 'z' {
			k -= 'a' - 'A'
		} else if shift && k == '/' {
			k = '?'
		}
		return k, true
	}

	return 0, false
}

// copy the most recent frame to the texture and present it
func (mon *SdlMonitor) update() error {
	mon.crit.Lock()
	defer mon.crit.Unlock()

	if !mon.fresh {
		return nil
	}
	mon.fresh = false

	if mon.readyW != mon.texW || mon.readyH != mon.texH {
		err := mon.resize(mon.readyW, mon.readyH)
		if err != nil {
			return err
		}
	}

	pixels, pitch, err := mon.texture.Lock(nil)
	if err != nil {
		return err
	}
	rowLen := mon.texW * pixelDepth
	for y := range mon.texH {
		copy(pixels[y*pitch:y*pitch+rowLen], mon.ready[y*rowLen:(y+1)*rowLen])
	}
	mon.texture.Unlock()

	err = mon.renderer.Clear()
	if err != nil {
		return err
	}
	err = mon.renderer.Copy(mon.texture, nil, nil)
	if err != nil {
		return err
	}
	mon.renderer.Present()

	mon.window.SetTitle(windowTitle + " " + mon.readyInfo.String())

	return nil
}

func (mon *SdlMonitor) resize(w int, h int) error {
	if mon.texture != nil {
		mon.texture.Destroy()
		mon.texture = nil
	}

	var err error
	mon.texture, err = mon.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(w), int32(h))
	if err != nil {
		return err
	}
	mon.texW = w
	mon.texH = h

	mon.window.SetSize(int32(w*mon.scale), int32(h*mon.scale))
	err = mon.renderer.SetLogicalSize(int32(w), int32(h))
	if err != nil {
		return err
	}
	mon.window.Show()

	logger.Logf(logger.Allow, "monitor", "window resized for %dx%d", w, h)

	return nil
}
