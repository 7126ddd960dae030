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
	"sync"

	"github.com/jetsetilly/dvigen/hardware/tmds"
	"github.com/jetsetilly/dvigen/monitor"
)

type itemKind int

const (
	itemFrame itemKind = iota
	itemLine
	itemVSync
)

// item is the unit of work on the ready queue
type item struct {
	kind itemKind

	// itemFrame
	info monitor.FrameInfo

	// itemLine
	line int
	buf  *tmds.SymbolBuffer
}

// Serializer takes encoded lines from the ready queue and sends them to the
// monitor. It owns the pool of symbol buffers. Buffers are taken from the
// free queue by the pipeline, filled and returned to the serializer through
// the ready queue.
type Serializer struct {
	mon monitor.Monitor

	free  chan *tmds.SymbolBuffer
	ready chan item

	// active is true between the start of a frame and the end of the frame's
	// vsync. vRepeat should only be changed when active is false
	crit    sync.Mutex
	cond    *sync.Cond
	active  bool
	vRepeat int

	// number of lines sent to the monitor, including repeats
	lines int
}

// NewSerializer is the preferred method of initialisation for the Serializer
// type.
func NewSerializer(mon monitor.Monitor) *Serializer {
	s := &Serializer{
		mon:     mon,
		free:    make(chan *tmds.SymbolBuffer, NumSymbolBuffers),
		ready:   make(chan item, NumSymbolBuffers+2),
		vRepeat: 1,
	}
	s.cond = sync.NewCond(&s.crit)
	for range NumSymbolBuffers {
		s.free <- &tmds.SymbolBuffer{}
	}
	return s
}

// Run the serializer until the ready queue is closed or until the monitor
// returns an error.
func (s *Serializer) Run() error {
	defer func() {
		s.crit.Lock()
		s.active = false
		s.cond.Broadcast()
		s.crit.Unlock()
	}()

	for it := range s.ready {
		switch it.kind {
		case itemFrame:
			s.crit.Lock()
			s.active = true
			s.crit.Unlock()

			if err := s.mon.BeginFrame(it.info); err != nil {
				return err
			}

		case itemLine:
			s.crit.Lock()
			repeat := s.vRepeat
			s.crit.Unlock()

			for k := range repeat {
				if err := s.mon.Scanline(it.line*repeat+k, it.buf); err != nil {
					return err
				}
			}

			s.crit.Lock()
			s.lines += repeat
			s.crit.Unlock()

			s.free <- it.buf

		case itemVSync:
			if err := s.mon.EndFrame(); err != nil {
				return err
			}

			s.crit.Lock()
			s.active = false
			s.cond.Broadcast()
			s.crit.Unlock()
		}
	}

	return nil
}

// close the ready queue. called by the pipeline when it has finished
func (s *Serializer) close() {
	close(s.ready)
}

// send an item to the serializer
func (s *Serializer) send(ctx context.Context, it item) error {
	select {
	case s.ready <- it:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// take a buffer from the free queue
func (s *Serializer) buffer(ctx context.Context) (*tmds.SymbolBuffer, error) {
	select {
	case b := <-s.free:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InActiveWindow returns true if the serializer is outputting a frame.
func (s *Serializer) InActiveWindow() bool {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.active
}

// WaitForInactive blocks until the serializer is outside of the active
// window.
func (s *Serializer) WaitForInactive() {
	s.crit.Lock()
	defer s.crit.Unlock()
	for s.active {
		s.cond.Wait()
	}
}

// VRepeat returns the number of times each line is sent to the monitor.
func (s *Serializer) VRepeat() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.vRepeat
}

// SetVRepeat sets the number of times each line is sent to the monitor. It
// should only be called when the serializer is not in the active window.
func (s *Serializer) SetVRepeat(v int) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.vRepeat = max(v, 1)
}

// Lines returns the total number of lines sent to the monitor.
func (s *Serializer) Lines() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.lines
}
