package environment

import "gonum.org/v1/gonum/spatial/r1"

// Space describes the layout of one stream crossing the environment
// boundary: the shapes of its named components, the interval its
// values fall in, and whether those values are discrete or continuous.
type Space struct {
	Shapes map[string][]int
	Bounds r1.Interval
	Cardinality
}

// Info describes an environment: how many chefs act each tick, the
// fixed episode horizon, and the observation, action, and reward
// spaces.
type Info struct {
	Agents  int
	Horizon int
	Obs     Space
	Act     Space
	Rew     Space
}
