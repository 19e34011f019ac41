package tween

import (
	m "math"
	"sync"
)

// Options configure a timeline. Repeat -1 loops forever.
type Options struct {
	Repeat      int
	RepeatDelay float64
	Paused      bool

	// Called on the main thread when the playhead wraps into a new iteration.
	OnRepeat func(iteration int)
	// Called when a finite timeline reaches its end playing forward, or its
	// start playing backward.
	OnComplete func()
}

/**
 * @brief A container of tweens placed at fixed offsets, played by one
 * playhead. Playing forward through the last tween wraps back to the
 * start after the repeat delay.
 */
type Timeline struct {
	Options

	tweens    []*Tween
	totalTime float64
	iteration int
	localTime float64
	reversed  bool
	paused    bool
	active    bool
	mutex     sync.RWMutex
}

func NewTimeline(opts Options) *Timeline {
	return &Timeline{
		Options: opts,
		paused:  opts.Paused,
		active:  true,
	}
}

// To appends a tween starting at the given position (in seconds from the
// timeline start). The tween's own delay is added on top of position.
func (tl *Timeline) To(name string, position float64, vars Vars, props ...PropertyTo) *Tween {
	t := NewTween(name, vars, props...)
	tl.Add(t, position)
	return t
}

func (tl *Timeline) Add(t *Tween, position float64) {
	t.Start = position + t.Delay
	tl.tweens = append(tl.tweens, t)
}

func (tl *Timeline) Tweens() []*Tween {
	return tl.tweens
}

// Duration is the length of one iteration, without repeat delay.
func (tl *Timeline) Duration() float64 {
	var d float64
	for _, t := range tl.tweens {
		d = m.Max(d, t.End())
	}
	return d
}

// CycleDuration is one iteration plus the repeat delay.
func (tl *Timeline) CycleDuration() float64 {
	return tl.Duration() + tl.RepeatDelay
}

// TotalDuration includes every repeat. Infinite when Repeat is negative.
func (tl *Timeline) TotalDuration() float64 {
	if tl.Repeat < 0 {
		return m.Inf(1)
	}
	return float64(tl.Repeat+1)*tl.Duration() + float64(tl.Repeat)*tl.RepeatDelay
}

// locate maps a total time to an iteration and the time inside it.
// Inside the repeat delay the local time holds at the iteration's end.
func (tl *Timeline) locate(total float64) (int, float64) {
	dur := tl.Duration()
	cycle := dur + tl.RepeatDelay
	if cycle <= 0 {
		return 0, 0
	}
	it := int(m.Floor(total / cycle))
	if tl.Repeat >= 0 && it > tl.Repeat {
		return tl.Repeat, dur
	}
	local := total - float64(it)*cycle
	if local > dur {
		local = dur
	}
	return it, local
}

// sweep renders every tween the playhead crosses moving from one local time
// to another. Moving backward only touches tweens that already recorded
// their start values, visiting them last to first so earlier tweens win.
func (tl *Timeline) sweep(from, to float64) {
	if to > from {
		for _, t := range tl.tweens {
			if t.Start < to && t.End() > from {
				t.render(to)
			}
		}
	} else if to < from {
		for i := len(tl.tweens) - 1; i >= 0; i-- {
			t := tl.tweens[i]
			if t.initialized && t.Start < from && t.End() > to {
				t.render(to)
			}
		}
	}
}

// setTotalTime moves the playhead, rendering everything in between, and
// reports whether the iteration changed. Callers hold the mutex.
func (tl *Timeline) setTotalTime(total float64) bool {
	total = m.Max(0, m.Min(total, tl.TotalDuration()))
	it, local := tl.locate(total)
	dur := tl.Duration()

	switch {
	case it == tl.iteration:
		tl.sweep(tl.localTime, local)
	case it > tl.iteration:
		tl.sweep(tl.localTime, dur)
		tl.sweep(dur, 0)
		tl.sweep(0, local)
	default:
		tl.sweep(tl.localTime, 0)
		tl.sweep(0, dur)
		tl.sweep(dur, local)
	}

	wrapped := it != tl.iteration
	tl.totalTime = total
	tl.iteration = it
	tl.localTime = local
	return wrapped
}

// Update advances the playhead by dt seconds in the current direction.
func (tl *Timeline) Update(dt float64) {
	tl.mutex.Lock()
	if tl.paused || !tl.active || len(tl.tweens) == 0 {
		tl.mutex.Unlock()
		return
	}
	var wrapped, completed bool
	if tl.reversed {
		wrapped = tl.setTotalTime(tl.totalTime - dt)
		if tl.totalTime <= 0 {
			tl.active = false
			completed = true
		}
	} else {
		wrapped = tl.setTotalTime(tl.totalTime + dt)
		if tl.totalTime >= tl.TotalDuration() {
			tl.active = false
			completed = true
		}
	}
	iteration := tl.iteration
	tl.mutex.Unlock()

	// callbacks may query the timeline, so they run unlocked
	if wrapped && tl.OnRepeat != nil {
		tl.OnRepeat(iteration)
	}
	if completed && tl.OnComplete != nil {
		tl.OnComplete()
	}
}

// Play resumes playback forward.
func (tl *Timeline) Play() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.reversed = false
	tl.paused = false
	tl.active = true
}

func (tl *Timeline) Pause() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.paused = true
}

// Resume unpauses without changing direction.
func (tl *Timeline) Resume() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.paused = false
	tl.active = true
}

// Reverse plays backward from the current position towards the start.
func (tl *Timeline) Reverse() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.reversed = true
	tl.paused = false
	tl.active = true
}

// Restart rewinds to the start, restoring the recorded start values, and
// plays forward.
func (tl *Timeline) Restart() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.setTotalTime(0)
	tl.reversed = false
	tl.paused = false
	tl.active = true
}

// Seek moves the playhead without changing the playback state.
func (tl *Timeline) Seek(total float64) {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.setTotalTime(total)
}

// Invalidate forgets every recorded start value, so the next render records
// them again from the current property values.
func (tl *Timeline) Invalidate() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	for _, t := range tl.tweens {
		t.invalidate()
	}
}

// State is a snapshot of the playback state.
type State struct {
	TotalTime float64 `json:"total_time"`
	Iteration int     `json:"iteration"`
	LocalTime float64 `json:"local_time"`
	Progress  float64 `json:"progress"`
	Reversed  bool    `json:"reversed"`
	Paused    bool    `json:"paused"`
	Active    bool    `json:"active"`
}

func (tl *Timeline) State() State {
	tl.mutex.RLock()
	defer tl.mutex.RUnlock()
	var progress float64
	if d := tl.Duration(); d > 0 {
		progress = tl.localTime / d
	}
	return State{
		TotalTime: tl.totalTime,
		Iteration: tl.iteration,
		LocalTime: tl.localTime,
		Progress:  progress,
		Reversed:  tl.reversed,
		Paused:    tl.paused,
		Active:    tl.active,
	}
}

func (tl *Timeline) TotalTime() float64 {
	tl.mutex.RLock()
	defer tl.mutex.RUnlock()
	return tl.totalTime
}

func (tl *Timeline) IsPaused() bool {
	tl.mutex.RLock()
	defer tl.mutex.RUnlock()
	return tl.paused
}

func (tl *Timeline) IsReversed() bool {
	tl.mutex.RLock()
	defer tl.mutex.RUnlock()
	return tl.reversed
}

func (tl *Timeline) IsActive() bool {
	tl.mutex.RLock()
	defer tl.mutex.RUnlock()
	return tl.active
}
