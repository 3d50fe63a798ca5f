package process

import (
	"fmt"
	"time"
)

// Kind identifies an action.
type Kind string

const (
	Inc    Kind = "inc"
	Dec    Kind = "dec"
	Reset  Kind = "reset"
	Report Kind = "report"
	Wait   Kind = "wait"
	Quit   Kind = "quit"
)

var kinds = map[string]Kind{
	string(Inc):    Inc,
	string(Dec):    Dec,
	string(Reset):  Reset,
	string(Report): Report,
	string(Wait):   Wait,
	string(Quit):   Quit,
}

// Action is one step of a script.
type Action struct {
	Kind Kind
	// N is the delta of Inc and Dec.
	N int32
	// Delay is the pause of Wait.
	Delay time.Duration
}

func (a Action) String() string {
	switch a.Kind {
	case Inc, Dec:
		return fmt.Sprintf("%v %d", a.Kind, a.N)
	case Wait:
		return fmt.Sprintf("%v %v", a.Kind, a.Delay)
	}
	return string(a.Kind)
}
