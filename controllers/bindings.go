package controllers

import (
	"fmt"

	"github.com/zeu5/pusht-hirl/types"
)

// Command is a special control request decoded from the input device.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandReset
	CommandToggle
	CommandAdvance
)

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandReset:
		return "reset"
	case CommandToggle:
		return "toggle"
	case CommandAdvance:
		return "advance"
	default:
		return "none"
	}
}

// Bindings maps logical control names to physical key names. Injected from
// configuration, never hard-coded by the arbiter.
type Bindings struct {
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`

	Quit   string `yaml:"quit"`
	Reset  string `yaml:"reset"`
	Toggle string `yaml:"toggle_control"`
	// Advance single-steps manual replay review.
	Advance string `yaml:"advance"`
}

func DefaultBindings() Bindings {
	return Bindings{
		Up:      "w",
		Down:    "s",
		Left:    "a",
		Right:   "d",
		Quit:    "q",
		Reset:   "r",
		Toggle:  "space",
		Advance: "n",
	}
}

func (b Bindings) Validate() error {
	for name, key := range map[string]string{
		"up": b.Up, "down": b.Down, "left": b.Left, "right": b.Right,
		"quit": b.Quit, "reset": b.Reset, "toggle_control": b.Toggle,
	} {
		if key == "" {
			return fmt.Errorf("%w: no key bound for %q", types.ErrConfiguration, name)
		}
	}
	return nil
}
