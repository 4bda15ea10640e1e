package vac

import (
	"fmt"
	"strings"
)

// Mode selects which part of the model a forward pass runs. Each mode
// executes only its own path through the graph.
type Mode int

const (
	// ComputeActor runs the actor-side encoder and the actor head,
	// producing action-distribution parameters.
	ComputeActor Mode = iota

	// ComputeCritic runs the critic-side encoder and the critic head,
	// producing one value estimate per batch element.
	ComputeCritic

	// ComputeActorCritic runs both heads. With a shared encoder the
	// embedding is computed once and feeds both heads.
	ComputeActorCritic
)

// Modes returns every supported forward mode.
func Modes() []Mode {
	return []Mode{ComputeActor, ComputeCritic, ComputeActorCritic}
}

// String implements the fmt.Stringer interface, spelling modes the way
// configuration files do.
func (m Mode) String() string {
	switch m {
	case ComputeActor:
		return "compute_actor"
	case ComputeCritic:
		return "compute_critic"
	case ComputeActorCritic:
		return "compute_actor_critic"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the configuration spelling of a forward mode.
func ParseMode(mode string) (Mode, error) {
	for _, m := range Modes() {
		if mode == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("parsemode: unsupported forward mode %q "+
		"(supported: %v)", mode, modeList())
}

// modeList spells out the supported modes for error messages.
func modeList() string {
	names := make([]string, 0, len(Modes()))
	for _, m := range Modes() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
