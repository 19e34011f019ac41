package tween

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Choreography is the data form of a timeline, addressed by property paths
// such as "n2.position" so it can be authored outside the code.
type Choreography struct {
	Repeat      int      `yaml:"repeat"`
	RepeatDelay float64  `yaml:"repeat_delay"`
	Defaults    Defaults `yaml:"defaults"`
	Steps       []Step   `yaml:"steps"`
}

// Defaults apply to every step that does not override them.
type Defaults struct {
	Duration float64 `yaml:"duration"`
	Delay    float64 `yaml:"delay"`
	Ease     string  `yaml:"ease"`
}

type Step struct {
	// Target is a node property such as "n1.position" or "group.rotation".
	Target   string             `yaml:"target"`
	At       float64            `yaml:"at"`
	Duration *float64           `yaml:"duration,omitempty"`
	Delay    *float64           `yaml:"delay,omitempty"`
	Ease     string             `yaml:"ease,omitempty"`
	To       map[string]float32 `yaml:"to"`
}

// Resolver maps a full property path ("n1.position.z") to the scalar it names.
type Resolver func(path string) (*float32, error)

// ParseChoreography decodes YAML, rejecting unknown keys.
func ParseChoreography(data []byte) (*Choreography, error) {
	c := &Choreography{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("could not decode choreography: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Choreography) Validate() error {
	var errs []error
	if c.Repeat < -1 {
		errs = append(errs, fmt.Errorf("repeat must be -1 or more, got %d", c.Repeat))
	}
	if c.RepeatDelay < 0 {
		errs = append(errs, fmt.Errorf("repeat_delay must not be negative, got %f", c.RepeatDelay))
	}
	if len(c.Steps) == 0 {
		errs = append(errs, errors.New("choreography has no steps"))
	}
	for i, s := range c.Steps {
		if s.Target == "" {
			errs = append(errs, fmt.Errorf("step %d: missing target", i))
		}
		if len(s.To) == 0 {
			errs = append(errs, fmt.Errorf("step %d (%s): nothing to animate", i, s.Target))
		}
		if s.At < 0 {
			errs = append(errs, fmt.Errorf("step %d (%s): negative position %f", i, s.Target, s.At))
		}
		if d := c.duration(s); d < 0 {
			errs = append(errs, fmt.Errorf("step %d (%s): negative duration %f", i, s.Target, d))
		}
		if _, err := EaseByName(c.ease(s)); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i, s.Target, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Choreography) duration(s Step) float64 {
	if s.Duration != nil {
		return *s.Duration
	}
	return c.Defaults.Duration
}

func (c *Choreography) delay(s Step) float64 {
	if s.Delay != nil {
		return *s.Delay
	}
	return c.Defaults.Delay
}

func (c *Choreography) ease(s Step) string {
	if s.Ease != "" {
		return s.Ease
	}
	return c.Defaults.Ease
}

// Build resolves every step against the scene and returns a timeline ready to play.
func (c *Choreography) Build(resolve Resolver) (*Timeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tl := NewTimeline(Options{
		Repeat:      c.Repeat,
		RepeatDelay: c.RepeatDelay,
	})
	for _, s := range c.Steps {
		ease, err := EaseByName(c.ease(s))
		if err != nil {
			return nil, err
		}

		axes := make([]string, 0, len(s.To))
		for axis := range s.To {
			axes = append(axes, axis)
		}
		sort.Strings(axes)

		props := make([]PropertyTo, 0, len(axes))
		for _, axis := range axes {
			target, err := resolve(s.Target + "." + axis)
			if err != nil {
				return nil, fmt.Errorf("step %s at %.2f: %w", s.Target, s.At, err)
			}
			props = append(props, PropertyTo{Target: target, To: s.To[axis]})
		}

		tl.To(s.Target, s.At, Vars{
			Duration: c.duration(s),
			Delay:    c.delay(s),
			Ease:     ease,
		}, props...)
	}
	return tl, nil
}
