package environment

import "gorgonia.org/tensor"

// Observation maps named observation components to their tensors,
// e.g. the chefs' feature planes and the action mask.
type Observation map[string]*tensor.Dense

// AgentInfo carries one chef's per-step diagnostics.
type AgentInfo struct {
	// ShapedReward is the dense shaping signal this chef earned on
	// this step.
	ShapedReward float64

	// EvalReward is the team return this chef is credited with,
	// reported on an episode's final step only.
	EvalReward float64
}

// TimeStep packages one tick of the game: the next observation, the
// sparse team reward, whether the episode ended, and per-chef info.
type TimeStep struct {
	Obs    Observation
	Reward float64
	Done   bool
	Agents []AgentInfo
}

// Last returns whether the timestep ends its episode.
func (t TimeStep) Last() bool {
	return t.Done
}
