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

package psram

import (
	"fmt"
	"sync"
	"time"

	"github.com/jetsetilly/dvigen/assert"
	"github.com/jetsetilly/dvigen/logger"
)

// DefaultClock is the system clock assumed by NewEngine().
const DefaultClock = 252000000

// job is the unit of work sent to the DMA goroutine
type job struct {
	cmds  []command
	write []byte
	read  []byte
	chain Token
	t     *Transfer
}

// Stats about the work done by the Engine.
type Stats struct {
	Transfers uint64
	Segments  uint64
	Bytes     uint64

	// estimated number of bus clocks for all transfers, and the time that
	// represents at the system clock in use at the time of each transfer
	BusClocks uint64
	BusTime   time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d transfers, %d segments, %d bytes, %v bus time", s.Transfers, s.Segments, s.Bytes, s.BusTime)
}

// Engine moves data to and from the Chip.
type Engine struct {
	chip  *Chip
	owner *assert.Owner

	// the DMA goroutine receives jobs on this channel
	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup

	// the most recently issued transfer
	last *Transfer

	// command buffers are reused for every transfer. this is safe because
	// a new transfer is never started until the previous transfer has
	// completed
	writeCmds []command
	readCmds  commandBuffer

	clockHz int
	tier    Tier
	iface   Interface

	statsCrit sync.Mutex
	stats     Stats
}

// NewEngine is the preferred method of initialisation for the Engine type. The
// engine starts in the QPI interface at the DefaultClock.
//
// The DMA goroutine is started immediately and runs until Close() is called.
func NewEngine(chip *Chip) *Engine {
	e := &Engine{
		chip:      chip,
		owner:     assert.NewOwner("psram engine"),
		jobs:      make(chan job),
		quit:      make(chan struct{}),
		last:      completed,
		writeCmds: make([]command, 0, RAMSize/PageSize),
		clockHz:   DefaultClock,
		tier:      TierForClock(DefaultClock),
		iface:     QPI,
	}

	e.wg.Add(1)
	go e.dma()

	return e
}

// Close stops the DMA goroutine. Any outstanding transfer is completed first.
func (e *Engine) Close() {
	e.WaitForFinish()
	close(e.quit)
	e.wg.Wait()
}

// Owner returns the ownership assertion for the engine. The goroutine that is
// to use the engine should claim it.
func (e *Engine) Owner() *assert.Owner {
	return e.owner
}

// Chip returns the backing store.
func (e *Engine) Chip() *Chip {
	return e.chip
}

func (e *Engine) dma() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			if j.chain != nil {
				<-j.chain.Done()
			}
			e.execute(j)
			close(j.t.done)
		}
	}
}

// execute the commands in the job. called from the DMA goroutine only
func (e *Engine) execute(j job) {
	var clocks int
	var bytes int

	readIdx := 0
	writeIdx := 0
	for _, c := range j.cmds {
		switch c.op {
		case opWrite:
			copy(e.chip.data[c.addr:int(c.addr)+c.n], j.write[writeIdx:writeIdx+c.n])
			writeIdx += c.n
		case opRead, opReadOne:
			copy(j.read[readIdx:readIdx+c.n], e.chip.data[c.addr:int(c.addr)+c.n])
			readIdx += c.n
		}
		clocks += e.iface.overhead(c.op) + c.n*e.iface.clocksPerByte()
		bytes += c.n
	}

	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()
	e.stats.Transfers++
	e.stats.Segments += uint64(len(j.cmds))
	e.stats.Bytes += uint64(bytes)
	e.stats.BusClocks += uint64(clocks)
	e.stats.BusTime += time.Duration(clocks*e.tier.divider()) * time.Second / time.Duration(e.clockHz)
}

// start the job and record it as the most recent transfer
func (e *Engine) start(j job) *Transfer {
	j.t = newTransfer()
	e.last = j.t
	e.jobs <- j
	return j.t
}

// WaitForFinish blocks until the most recent transfer has completed.
func (e *Engine) WaitForFinish() {
	e.last.Wait()
}

// Write data to the address. The data is split into page-bounded write
// bursts as required. The data must not be modified until the transfer has
// completed.
func (e *Engine) Write(addr uint32, data []byte) *Transfer {
	e.owner.Check()
	e.WaitForFinish()

	if len(data) == 0 {
		return completed
	}

	e.writeCmds = e.writeCmds[:0]
	n := len(data)
	l := min(pageRemaining(addr), n)
	for n > 0 {
		e.writeCmds = append(e.writeCmds, command{op: opWrite, addr: addr, n: l})
		addr += uint32(l)
		n -= l
		l = min(n, PageSize)
	}

	return e.start(job{cmds: e.writeCmds, write: data})
}

// Read len(buf) bytes from the address. A read that fits inside a single page
// is issued as a single command. Other reads are served by a chain of segment
// commands.
//
// Returns an error if the read needs more than MultiReadMaxPages segments. In
// that case nothing is issued.
func (e *Engine) Read(addr uint32, buf []byte) (*Transfer, error) {
	e.owner.Check()
	e.WaitForFinish()

	if len(buf) == 0 {
		return completed, nil
	}

	e.readCmds.reset()
	if len(buf) <= pageRemaining(addr) {
		op := opRead
		if len(buf) < 2 {
			op = opReadOne
		}
		e.readCmds.cmds[0] = command{op: op, addr: addr, n: len(buf)}
		e.readCmds.n = 1
	} else if !e.readCmds.addRead(addr, len(buf)) {
		return nil, e.readCmds.err()
	}

	return e.start(job{cmds: e.readCmds.commands(), read: buf}), nil
}

// ReadBlocking is the same as Read() except that it waits for the transfer to
// complete.
func (e *Engine) ReadBlocking(addr uint32, buf []byte) error {
	t, err := e.Read(addr, buf)
	if err != nil {
		return err
	}
	t.Wait()
	return nil
}

// MultiRead reads several regions into a single buffer. The data for each
// region follows on directly from the data of the previous region. The
// transfer completes when all regions have been read.
//
// If the chain token is not nil then the transfer does not start until the
// token has completed.
//
// Returns an error if the total number of segments for all regions is more
// than MultiReadMaxPages. In that case nothing is issued.
func (e *Engine) MultiRead(regions []Region, buf []byte, chain Token) (*Transfer, error) {
	e.owner.Check()
	e.WaitForFinish()

	e.readCmds.reset()
	total := 0
	for _, r := range regions {
		if r.Len <= 0 {
			continue
		}
		e.readCmds.addRead(r.Addr, r.Len)
		total += r.Len
	}
	if e.readCmds.overflow > 0 {
		return nil, e.readCmds.err()
	}

	if total == 0 && chain == nil {
		return completed, nil
	}

	return e.start(job{cmds: e.readCmds.commands(), read: buf[:total], chain: chain}), nil
}

// SetSystemClock selects the microprogram tier for the system clock. Any
// outstanding transfer is completed first.
func (e *Engine) SetSystemClock(hz int) {
	e.owner.Check()
	e.WaitForFinish()

	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()

	e.clockHz = hz
	tier := TierForClock(hz)
	if tier != e.tier {
		logger.Logf(logger.Allow, "psram", "%s microprogram selected for %.1fMHz", tier, float64(hz)/1000000)
	}
	e.tier = tier
}

// SetInterface selects the electrical interface width. Any outstanding
// transfer is completed first.
func (e *Engine) SetInterface(iface Interface) {
	e.owner.Check()
	e.WaitForFinish()

	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()

	if iface != e.iface {
		logger.Logf(logger.Allow, "psram", "switched to %s", iface)
	}
	e.iface = iface
}

// Tier returns the currently selected microprogram tier.
func (e *Engine) Tier() Tier {
	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()
	return e.tier
}

// Interface returns the currently selected interface width.
func (e *Engine) Interface() Interface {
	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()
	return e.iface
}

// Stats returns a copy of the current statistics. It is safe to call from any
// goroutine.
func (e *Engine) Stats() Stats {
	e.statsCrit.Lock()
	defer e.statsCrit.Unlock()
	return e.stats
}
