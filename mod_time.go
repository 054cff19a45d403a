package springview

import (
	"time"
)

// DefaultMaxDt caps a single tick's delta so a stalled frame cannot blow up the springs.
const DefaultMaxDt = 100 * time.Millisecond

// Time is the shared frame clock. Every consumer of "now" in a tick, including the bounce
// cooldown, reads it through Now so tests can drive it.
type Time struct {
	Now     func() time.Time
	Start   time.Time
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	MaxDt   time.Duration
}

func (t *Time) DtSeconds() float32 { return float32(t.Dt.Seconds()) }

func (t *Time) ElapsedSeconds() float32 { return float32(t.Elapsed.Seconds()) }

// advance reads the clock. The first call yields a zero delta.
func (t *Time) advance() {
	now := t.Now()
	if t.Time.IsZero() {
		t.Start = now
		t.Time = now
	}
	dt := now.Sub(t.Time)
	if dt < 0 {
		dt = 0
	}
	if t.MaxDt > 0 && dt > t.MaxDt {
		dt = t.MaxDt
	}
	t.Dt = dt
	t.Elapsed += dt
	t.Time = now
}

type TimeModule struct {
	Now   func() time.Time
	MaxDt time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	maxDt := mod.MaxDt
	if maxDt == 0 {
		maxDt = DefaultMaxDt
	}
	cmd.AddResources(&Time{Now: now, MaxDt: maxDt})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	timeResource.advance()
}
