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

package performance

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/jetsetilly/dvigen/curated"
	"github.com/jetsetilly/dvigen/hardware/display"
	"github.com/jetsetilly/dvigen/hardware/display/specification"
	"github.com/jetsetilly/dvigen/hardware/psram"
	"github.com/jetsetilly/dvigen/monitor"
)

// the pipeline runs for this long before the measurement starts
var leadTime = 2 * time.Second

// StoppedEarly is returned by Check() if the display stops before the
// measurement period begins.
const StoppedEarly = "performance: display stopped before measurement began"

// Result of a call to Check().
type Result struct {
	Spec     specification.Spec
	Frames   int
	Duration time.Duration
	FPS      float64
	Accuracy float64

	// diagnostics at the end of the measurement
	Diagnostics display.Diagnostics
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%% of %s",
		r.FPS, r.Frames, r.Duration.Seconds(), r.Accuracy, r.Spec.ID)
}

// Check runs the display pipeline with the supplied content for the duration
// and writes the achieved frame rate to output.
func Check(output io.Writer, profile Profile, content []byte, prefs *display.Preferences, duration string) (Result, error) {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	eng := psram.NewEngine(psram.NewChip())
	defer eng.Close()

	var crit sync.Mutex
	var spec specification.Spec

	mon := monitor.NewHeadless()
	mon.SetFrameHook(func(info monitor.FrameInfo, _ *image.RGBA) {
		crit.Lock()
		spec = info.Spec
		crit.Unlock()
	})

	p := display.NewPipeline(eng, mon, prefs)
	err = p.Load(content)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), leadTime+dur)
	defer cancel()

	// the frame count when the lead time has elapsed
	startFrame := make(chan int, 1)
	time.AfterFunc(leadTime, func() {
		startFrame <- p.Diagnostics().Frames
	})

	err = RunProfiler(profile, "performance", func() error {
		return p.Run(ctx)
	})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	var res Result
	res.Diagnostics = p.Diagnostics()

	select {
	case s := <-startFrame:
		res.Frames = res.Diagnostics.Frames - s
	default:
		return Result{}, curated.Errorf(StoppedEarly)
	}

	crit.Lock()
	res.Spec = spec
	crit.Unlock()

	res.Duration = dur
	res.FPS, res.Accuracy = CalcFPS(res.Spec, res.Frames, dur.Seconds())

	if output != nil {
		io.WriteString(output, res.String())
		io.WriteString(output, "\n")
	}

	return res, nil
}
