package systems

import (
	"fmt"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/tween"
)

type namedTimeline struct {
	name     string
	timeline *tween.Timeline
}

// AnimationSystem advances every registered timeline once per frame, in
// registration order.
type AnimationSystem struct {
	timelines []namedTimeline
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (as *AnimationSystem) Register(name string, tl *tween.Timeline) error {
	if tl == nil {
		return fmt.Errorf("timeline `%s` is nil", name)
	}
	for _, nt := range as.timelines {
		if nt.name == name {
			return fmt.Errorf("timeline `%s` already registered", name)
		}
	}
	as.timelines = append(as.timelines, namedTimeline{name: name, timeline: tl})
	core.LogDebug("Timeline '%s' registered (cycle %.2fs).", name, tl.CycleDuration())
	return nil
}

func (as *AnimationSystem) Get(name string) (*tween.Timeline, bool) {
	for _, nt := range as.timelines {
		if nt.name == name {
			return nt.timeline, true
		}
	}
	return nil, false
}

func (as *AnimationSystem) Remove(name string) bool {
	for i, nt := range as.timelines {
		if nt.name == name {
			as.timelines = append(as.timelines[:i:i], as.timelines[i+1:]...)
			return true
		}
	}
	return false
}

func (as *AnimationSystem) Update(deltaTime float64) {
	for _, nt := range as.timelines {
		nt.timeline.Update(deltaTime)
	}
}

func (as *AnimationSystem) Shutdown() error {
	as.timelines = nil
	return nil
}
