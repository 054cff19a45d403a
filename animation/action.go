package animation

import "math"

type LoopMode int

const (
	LoopOnce LoopMode = iota
	LoopRepeat
)

// Infinite repetitions for SetLoop.
const Infinite = math.MaxInt

type fade struct {
	start, end float32
	from, to   float32
}

// Action is the playback state of one clip on one mixer. Its clip time only advances
// while it is scheduled and not paused; weight fades are measured on mixer time so they
// keep progressing while paused.
type Action struct {
	clip  *Clip
	mixer *Mixer

	Paused    bool
	TimeScale float32

	time        float32
	weight      float32
	effective   float32
	enabled     bool
	loop        LoopMode
	repetitions int
	loopCount   int
	fade        *fade
}

func newAction(m *Mixer, clip *Clip) *Action {
	return &Action{
		clip:        clip,
		mixer:       m,
		TimeScale:   1,
		weight:      1,
		enabled:     true,
		loop:        LoopRepeat,
		repetitions: Infinite,
	}
}

func (a *Action) Clip() *Clip { return a.clip }

func (a *Action) Time() float32 { return a.time }

// Weight is the blend weight used on the last mixer update.
func (a *Action) Weight() float32 { return a.effective }

func (a *Action) Enabled() bool { return a.enabled }

// Fading reports whether a weight fade is in progress.
func (a *Action) Fading() bool { return a.fade != nil }

func (a *Action) IsScheduled() bool { return a.mixer.isActive(a) }

func (a *Action) IsRunning() bool {
	return a.enabled && !a.Paused && a.TimeScale != 0 && a.IsScheduled()
}

// Reset rewinds the clip and clears pause, fades and loop progress.
func (a *Action) Reset() *Action {
	a.Paused = false
	a.enabled = true
	a.time = 0
	a.loopCount = 0
	a.fade = nil
	return a
}

func (a *Action) SetLoop(mode LoopMode, repetitions int) *Action {
	a.loop = mode
	a.repetitions = repetitions
	return a
}

func (a *Action) Play() *Action {
	a.mixer.activate(a)
	return a
}

func (a *Action) Stop() *Action {
	a.mixer.deactivate(a)
	return a.Reset()
}

func (a *Action) FadeIn(duration float32) *Action {
	return a.scheduleFade(duration, 0, 1)
}

// FadeOut ramps the weight to zero; the action disables itself when the fade completes.
func (a *Action) FadeOut(duration float32) *Action {
	return a.scheduleFade(duration, a.currentWeight(), 0)
}

func (a *Action) scheduleFade(duration, from, to float32) *Action {
	now := a.mixer.Time
	a.fade = &fade{start: now, end: now + duration, from: from, to: to}
	a.effective = a.weightAt(now)
	return a
}

func (a *Action) currentWeight() float32 {
	if a.fade != nil {
		return a.weightAt(a.mixer.Time) / a.weight
	}
	if !a.enabled {
		return 0
	}
	return 1
}

func (a *Action) weightAt(now float32) float32 {
	if !a.enabled {
		return 0
	}
	if a.fade == nil {
		return a.weight
	}
	f := a.fade
	if now >= f.end || f.end <= f.start {
		return a.weight * f.to
	}
	t := (now - f.start) / (f.end - f.start)
	if t < 0 {
		t = 0
	}
	return a.weight * (f.from + (f.to-f.from)*t)
}

// update advances the action to mixer time now and returns its blend weight.
func (a *Action) update(now, dt float32) float32 {
	if !a.enabled {
		a.effective = 0
		return 0
	}
	w := a.weightAt(now)
	if a.fade != nil && now >= a.fade.end {
		if a.fade.to == 0 {
			a.enabled = false
			w = 0
		}
		a.fade = nil
	}
	a.effective = w

	if !a.Paused {
		a.advance(dt * a.TimeScale)
	}
	return w
}

func (a *Action) advance(dt float32) {
	d := a.clip.Duration
	a.time += dt
	if d <= 0 {
		a.time = 0
		return
	}
	switch a.loop {
	case LoopOnce:
		if a.time >= d {
			a.time = d
			a.enabled = false
		} else if a.time < 0 {
			a.time = 0
			a.enabled = false
		}
	default:
		for a.time >= d {
			a.loopCount++
			if a.repetitions != Infinite && a.loopCount >= a.repetitions {
				a.time = d
				a.enabled = false
				return
			}
			a.time -= d
		}
		for a.time < 0 {
			a.time += d
		}
	}
}
