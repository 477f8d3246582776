package system

import (
	"fmt"
	"time"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain packet queues, dispatch handlers
	PhaseEvents               // 1: deliver last tick's events
	PhaseUpdate               // 2: game logic
	PhaseOutput               // 3: flush buffered packets
	PhasePersist              // 4: save dirty players

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "Input"
	case PhaseEvents:
		return "Events"
	case PhaseUpdate:
		return "Update"
	case PhaseOutput:
		return "Output"
	case PhasePersist:
		return "Persist"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// System is one step of the game loop tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
