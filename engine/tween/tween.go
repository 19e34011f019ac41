package tween

import (
	"github.com/spaghettifunk/quadn/engine/math"
)

// PropertyTo is one animated scalar and the value it ends at.
type PropertyTo struct {
	Target *float32
	To     float32
}

type property struct {
	target *float32
	from   float32
	to     float32
}

/**
 * @brief Interpolates a set of scalars from whatever value they hold when
 * the tween first renders to their end values.
 */
type Tween struct {
	// Used in logs only.
	Name string
	// Local start time inside the owning timeline: position + delay.
	Start    float64
	Duration float64
	Delay    float64
	Ease     Ease

	props       []property
	initialized bool
}

// Vars are the per-tween options.
type Vars struct {
	Duration float64
	Delay    float64
	Ease     Ease
}

func NewTween(name string, vars Vars, props ...PropertyTo) *Tween {
	if vars.Ease == nil {
		vars.Ease = DefaultEase()
	}
	t := &Tween{
		Name:     name,
		Duration: vars.Duration,
		Delay:    vars.Delay,
		Ease:     vars.Ease,
		props:    make([]property, 0, len(props)),
	}
	for _, p := range props {
		t.props = append(t.props, property{target: p.Target, to: p.To})
	}
	return t
}

func (t *Tween) End() float64 {
	return t.Start + t.Duration
}

// progress returns the eased progress at the given timeline-local time.
func (t *Tween) progress(time float64) float64 {
	if t.Duration <= 0 {
		if time >= t.Start {
			return 1
		}
		return 0
	}
	p := math.Clamp((time-t.Start)/t.Duration, 0, 1)
	return t.Ease(p)
}

// render writes the interpolated values for the given timeline-local time.
// Start values are recorded on the first render.
func (t *Tween) render(time float64) {
	if !t.initialized {
		for i := range t.props {
			t.props[i].from = *t.props[i].target
		}
		t.initialized = true
	}
	p := float32(t.progress(time))
	for _, pr := range t.props {
		*pr.target = pr.from + (pr.to-pr.from)*p
	}
}

// invalidate forgets the recorded start values.
func (t *Tween) invalidate() {
	t.initialized = false
}
