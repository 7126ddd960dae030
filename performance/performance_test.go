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

package performance_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/display/specification"
	"github.com/jetsetilly/dvigen/hardware/scene"
	"github.com/jetsetilly/dvigen/performance"
	"github.com/jetsetilly/dvigen/test"
)

func TestCalcFPS(t *testing.T) {
	fps, accuracy := performance.CalcFPS(specification.Spec720x576, 100, 2)
	test.ExpectApproximate(t, fps, 50.0, 0.001)
	test.ExpectApproximate(t, accuracy, 100.0, 0.5)

	fps, accuracy = performance.CalcFPS(specification.Spec720x576, 100, 0)
	test.ExpectEquality(t, fps, 0.0)
	test.ExpectEquality(t, accuracy, 0.0)
}

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfileString("cpu, mem")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileMem)

	p, err = performance.ParseProfileString("ALL")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileAll)

	p, err = performance.ParseProfileString("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	_, err = performance.ParseProfileString("gpu")
	test.ExpectSuccess(t, curated.Is(err, performance.UnknownProfile))
	test.ExpectEquality(t, err.Error(), `performance: unknown profile "gpu"`)
}

func TestCheck(t *testing.T) {
	performance.SetLeadTime(50 * time.Millisecond)

	b := scene.NewBuilder(scene.Config{
		Res:     scene.Resolution640x480,
		HRepeat: 1,
		VRepeat: 1,
		HLength: 64,
		VLength: 16,
	})
	lines := make([]scene.Line, 16)
	for i := range lines {
		lines[i] = scene.Line{Data: make([]byte, 64), Mode: scene.ModePalette, HRepeat: 1, ScrollGroup: -1}
	}
	test.DemandSuccess(t, b.AddFrame(lines))
	test.DemandSuccess(t, b.AddPalette(make([]byte, scene.PaletteSize)))
	img, err := b.Build()
	test.DemandSuccess(t, err)

	prefs := display.DefaultPreferences()
	test.DemandSuccess(t, prefs.VSyncGrace.Set(0))

	w := &strings.Builder{}
	res, err := performance.Check(w, performance.ProfileNone, img, prefs, "200ms")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, res.Frames > 0)
	test.ExpectEquality(t, res.Spec.ID, "640x480p60")
	test.ExpectSuccess(t, strings.Contains(w.String(), "fps"))
	test.ExpectSuccess(t, res.Diagnostics.Frames >= res.Frames)

	_, err = performance.Check(w, performance.ProfileNone, img, prefs, "soon")
	test.ExpectFailure(t, err)
}
