package compiler

import (
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// State is a stage of one compile call
type State string

const (
	StatePending            State = "pending"
	StateValidating         State = "validating"
	StateRendering          State = "rendering"
	StateAggregating        State = "aggregating"
	StatePackaging          State = "packaging"
	StateSucceeded          State = "succeeded"
	StatePartiallySucceeded State = "partially_succeeded"
	StateFailed             State = "failed"
)

// Terminal reports whether no transition leaves the state
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StatePartiallySucceeded, StateFailed:
		return true
	}
	return false
}

// transitions lists the legal successors of every state
var transitions = map[State][]State{
	StatePending:     {StateValidating},
	StateValidating:  {StateRendering},
	StateRendering:   {StateAggregating},
	StateAggregating: {StatePackaging, StateFailed},
	StatePackaging:   {StateSucceeded, StatePartiallySucceeded, StateFailed},
}

// CanTransition reports whether from -> to is a legal step
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// finalState maps a result status onto its terminal state
func finalState(status types.Status) State {
	switch status {
	case types.StatusSucceeded:
		return StateSucceeded
	case types.StatusPartiallySucceeded:
		return StatePartiallySucceeded
	}
	return StateFailed
}

// StateHook observes every transition of a compile
type StateHook func(platform types.Platform, from, to State)
