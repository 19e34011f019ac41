package showcase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/tween"
)

// Command names one playback operation.
type Command string

const (
	CommandPlay    Command = "play"
	CommandPause   Command = "pause"
	CommandResume  Command = "resume"
	CommandReverse Command = "reverse"
	CommandRestart Command = "restart"
)

// Commands in the order the button bar shows them.
var Commands = []Command{CommandPlay, CommandPause, CommandResume, CommandReverse, CommandRestart}

// Playback is what the commands drive. *tween.Timeline implements it.
type Playback interface {
	Play()
	Pause()
	Resume()
	Reverse()
	Restart()
}

// ParseCommand accepts a command name, case insensitive, with or without
// a leading '#'.
func ParseCommand(name string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#")))
	for _, known := range Commands {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownCommand, name)
}

// Dispatch runs c against p.
func Dispatch(p Playback, c Command) error {
	if p == nil {
		return fmt.Errorf("no timeline to %s: %w", c, core.ErrNotInitialized)
	}
	switch c {
	case CommandPlay:
		p.Play()
	case CommandPause:
		p.Pause()
	case CommandResume:
		p.Resume()
	case CommandReverse:
		p.Reverse()
	case CommandRestart:
		p.Restart()
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownCommand, string(c))
	}
	return nil
}

/**
 * @brief Carries commands from any goroutine to the main loop, which
 * drains it once per frame.
 */
type CommandQueue struct {
	commands chan Command
}

func NewCommandQueue(size int) *CommandQueue {
	return &CommandQueue{commands: make(chan Command, size)}
}

// Enqueue never blocks. A full queue drops the command.
func (q *CommandQueue) Enqueue(c Command) error {
	parsed, err := ParseCommand(string(c))
	if err != nil {
		return err
	}
	select {
	case q.commands <- parsed:
		return nil
	default:
		return fmt.Errorf("dropping %s: %w", c, core.ErrQueueFull)
	}
}

// Drain hands every queued command to fn and returns how many there were.
func (q *CommandQueue) Drain(fn func(Command)) int {
	n := 0
	for {
		select {
		case c := <-q.commands:
			fn(c)
			n++
		default:
			return n
		}
	}
}

// StateSnapshot publishes the timeline state from the main loop to readers
// on other goroutines.
type StateSnapshot struct {
	mutex sync.RWMutex
	state tween.State
	ready bool
}

func (s *StateSnapshot) Store(state tween.State) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = state
	s.ready = true
}

// Load returns the last stored state, and false until one was stored.
func (s *StateSnapshot) Load() (tween.State, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state, s.ready
}
