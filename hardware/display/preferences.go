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
	"os"
	"sync"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/logger"
	"github.com/jetsetilly/dvigen/paths"
	"github.com/jetsetilly/dvigen/prefs"
)

// DefaultPrefsFile is the name of the preferences file in the resource path.
const DefaultPrefsFile = "preferences"

// Preferences defines and collates all the preference values used by the
// display pipeline.
type Preferences struct {
	dsk *prefs.Disk

	// the resolution used when the scene does not specify one
	Resolution *prefs.Generic

	// the delay in microseconds at the end of the vsync window
	VSyncGrace prefs.Int

	// the system clock in MHz used to select the memory engine's timing. a
	// value of zero means the clock follows the display mode
	ClockMHz prefs.Int

	// use the QPI interface to the memory. SPI if false
	QPI prefs.Bool

	// echo log entries to stdout
	EchoLog prefs.Bool

	resCrit sync.Mutex
	res     scene.Resolution
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

func newPreferences() *Preferences {
	p := &Preferences{}
	p.Resolution = prefs.NewGeneric(
		func(s string) error {
			res, err := scene.ParseResolution(s)
			if err != nil {
				return err
			}
			p.resCrit.Lock()
			defer p.resCrit.Unlock()
			p.res = res
			return nil
		},
		func() string {
			p.resCrit.Lock()
			defer p.resCrit.Unlock()
			return p.res.String()
		},
	)

	p.EchoLog.SetHookPost(func(v prefs.Value) error {
		if v.(bool) {
			logger.SetEcho(os.Stdout)
		} else {
			logger.SetEcho(nil)
		}
		return nil
	})

	p.SetDefaults()
	return p
}

// DefaultPreferences returns a Preferences instance with default values that
// is not connected to a preferences file. Save() and Load() will fail.
func DefaultPreferences() *Preferences {
	return newPreferences()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource path.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is the same as NewPreferences() except that the
// preferences file is specified explicitly.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := newPreferences()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("display.resolution", p.Resolution)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("display.vsyncGrace", &p.VSyncGrace)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("psram.clockMHz", &p.ClockMHz)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("psram.qpi", &p.QPI)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("diagnostics.echoLog", &p.EchoLog)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.Resolution.Set(scene.Resolution640x480)
	p.VSyncGrace.Set(10)
	p.ClockMHz.Set(0)
	p.QPI.Set(true)
	p.EchoLog.Set(false)
}

// resolution returns the current value of the Resolution preference.
func (p *Preferences) resolution() scene.Resolution {
	p.resCrit.Lock()
	defer p.resCrit.Unlock()
	return p.res
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return curated.Errorf("display: preferences are not backed by a file")
	}
	return p.dsk.Load(false)
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return curated.Errorf("display: preferences are not backed by a file")
	}
	return p.dsk.Save()
}
