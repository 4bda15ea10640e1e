// Package environment defines the contract between models and the
// cooperative cooking game. The game itself is an external
// collaborator; this package fixes the types that cross the boundary
// (observations, timesteps, space descriptions) and the interface the
// game exposes.
package environment

// Cardinality indicates whether the values of a space are continuous
// or discrete.
type Cardinality int

const (
	Discrete Cardinality = iota
	Continuous
)

// Environment is the game seen from the model's side. Reset starts a
// new episode and returns its first observation. Step advances the
// game by one tick given one action id per chef and reports the
// resulting timestep. Info describes the observation, action, and
// reward layouts so models can be sized before the first reset.
//
// Implementations live outside this repository; the package tests
// exercise the contract with a deterministic stand-in kitchen.
type Environment interface {
	Reset() (Observation, error)
	Step(actions []int) (TimeStep, error)
	Info() Info
	Close() error
}
