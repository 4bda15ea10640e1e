package environment_test

import (
	"fmt"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"

	"github.com/cookrl/cookrl/environment"
)

// The stand-in cooking game used to exercise the environment contract.
// Two chefs move along a five-cell counter: an onion crate sits at one
// end, the pot in the middle, and the serving window at the other end.
// Interacting picks up an onion, loads it into the pot, or serves a
// finished soup for the sparse team reward. The kitchen is a test
// double, deterministic given its action sequence.
const (
	kitchenCells = 5
	crateCell    = 0
	potCell      = 2
	windowCell   = 4
	potCapacity  = 3

	numChefs   = 2
	numActions = 6
	chefObsDim = kitchenCells + 3

	soupReward    = 20.0
	pickupShaping = 0.2
	potShaping    = 0.5
	serveShaping  = 1.0
)

// The six chef actions, in the game's order.
const (
	actNorth = iota
	actSouth
	actEast
	actWest
	actStay
	actInteract
)

type chef struct {
	cell     int
	carrying bool
}

type stubKitchen struct {
	concatObs bool
	horizon   int

	chefs      [numChefs]chef
	pot        int
	steps      int
	teamReturn float64
	done       bool
	closed     bool
}

func newStubKitchen(concatObs bool, horizon int) *stubKitchen {
	k := &stubKitchen{concatObs: concatObs, horizon: horizon}
	k.start()
	return k
}

func (k *stubKitchen) start() {
	k.chefs = [numChefs]chef{{cell: 1}, {cell: 3}}
	k.pot = 0
	k.steps = 0
	k.teamReturn = 0
	k.done = false
}

func (k *stubKitchen) Reset() (environment.Observation, error) {
	if k.closed {
		return nil, fmt.Errorf("reset: kitchen is closed")
	}
	k.start()
	return k.observation(), nil
}

func (k *stubKitchen) Step(actions []int) (environment.TimeStep, error) {
	if k.closed {
		return environment.TimeStep{}, fmt.Errorf("step: kitchen is closed")
	}
	if k.done {
		return environment.TimeStep{}, fmt.Errorf("step: episode is " +
			"over; call Reset")
	}
	if len(actions) != numChefs {
		return environment.TimeStep{}, fmt.Errorf("step: want one action "+
			"per chef (%v), got %v", numChefs, len(actions))
	}
	for _, a := range actions {
		if a < 0 || a >= numActions {
			return environment.TimeStep{}, fmt.Errorf("step: action %v "+
				"out of range [0, %v]", a, numActions-1)
		}
	}

	agents := make([]environment.AgentInfo, numChefs)
	var reward float64
	for i := range k.chefs {
		shaped, team := k.apply(i, actions[i])
		agents[i].ShapedReward = shaped
		reward += team
	}
	k.teamReturn += reward

	k.steps++
	k.done = k.steps >= k.horizon
	if k.done {
		for i := range agents {
			agents[i].EvalReward = k.teamReturn
		}
	}

	return environment.TimeStep{
		Obs:    k.observation(),
		Reward: reward,
		Done:   k.done,
		Agents: agents,
	}, nil
}

func (k *stubKitchen) apply(i, action int) (shaped, team float64) {
	c := &k.chefs[i]
	switch action {
	case actNorth, actSouth, actStay:
		// The counter is a single row, so vertical moves bump a wall
		// and keep the chef in place.
	case actEast:
		if c.cell < kitchenCells-1 {
			c.cell++
		}
	case actWest:
		if c.cell > 0 {
			c.cell--
		}
	case actInteract:
		switch {
		case c.cell == crateCell && !c.carrying:
			c.carrying = true
			shaped = pickupShaping
		case c.cell == potCell && c.carrying && k.pot < potCapacity:
			c.carrying = false
			k.pot++
			shaped = potShaping
		case c.cell == windowCell && k.pot == potCapacity:
			k.pot = 0
			shaped = serveShaping
			team = soupReward
		}
	}
	return shaped, team
}

func (k *stubKitchen) observation() environment.Observation {
	chefs := make([][]float64, numChefs)
	for i, c := range k.chefs {
		features := make([]float64, chefObsDim)
		features[c.cell] = 1
		if c.carrying {
			features[kitchenCells] = 1
		}
		features[kitchenCells+1] = float64(k.pot) / potCapacity
		features[kitchenCells+2] = float64(k.steps) / float64(k.horizon)
		chefs[i] = features
	}

	mask := make([]float64, numChefs*numActions)
	for i := range mask {
		mask[i] = 1
	}

	obs := environment.Observation{
		"action_mask": tensor.New(
			tensor.WithShape(numChefs, numActions),
			tensor.WithBacking(mask),
		),
	}
	if k.concatObs {
		backing := append(append([]float64{}, chefs[0]...), chefs[1]...)
		obs["agent_states"] = tensor.New(
			tensor.WithShape(numChefs*chefObsDim),
			tensor.WithBacking(backing),
		)
	} else {
		for i := range chefs {
			obs[fmt.Sprintf("chef%d_state", i)] = tensor.New(
				tensor.WithShape(chefObsDim),
				tensor.WithBacking(chefs[i]),
			)
		}
	}
	return obs
}

func (k *stubKitchen) Info() environment.Info {
	shapes := map[string][]int{
		"action_mask": {numChefs, numActions},
	}
	if k.concatObs {
		shapes["agent_states"] = []int{numChefs * chefObsDim}
	} else {
		for i := 0; i < numChefs; i++ {
			shapes[fmt.Sprintf("chef%d_state", i)] = []int{chefObsDim}
		}
	}
	return environment.Info{
		Agents:  numChefs,
		Horizon: k.horizon,
		Obs: environment.Space{
			Shapes:      shapes,
			Bounds:      r1.Interval{Min: 0, Max: 1},
			Cardinality: environment.Continuous,
		},
		Act: environment.Space{
			Shapes:      map[string][]int{"action": {numChefs}},
			Bounds:      r1.Interval{Min: 0, Max: numActions - 1},
			Cardinality: environment.Discrete,
		},
		Rew: environment.Space{
			Shapes:      map[string][]int{"reward": {1}},
			Bounds:      r1.Interval{Min: 0, Max: soupReward},
			Cardinality: environment.Continuous,
		},
	}
}

func (k *stubKitchen) Close() error {
	k.closed = true
	return nil
}

// checkShapes asserts every observation component matches the shape
// the environment's Info advertises for it, and that no component is
// missing or unexpected.
func checkShapes(t *testing.T, info environment.Info,
	obs environment.Observation) {
	t.Helper()
	if len(obs) != len(info.Obs.Shapes) {
		t.Fatalf("observation has %v components, info advertises %v",
			len(obs), len(info.Obs.Shapes))
	}
	for key, want := range info.Obs.Shapes {
		component, ok := obs[key]
		if !ok {
			t.Fatalf("observation is missing component %q", key)
		}
		if !component.Shape().Eq(tensor.Shape(want)) {
			t.Fatalf("component %q has shape %v, info advertises %v",
				key, component.Shape(), want)
		}
	}
}

func TestKitchenObservationLayouts(t *testing.T) {
	cases := []struct {
		name      string
		concatObs bool
	}{
		{"concatenated", true},
		{"per-agent", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var env environment.Environment = newStubKitchen(c.concatObs, 25)
			info := env.Info()

			obs, err := env.Reset()
			if err != nil {
				t.Fatalf("reset: %v", err)
			}
			checkShapes(t, info, obs)

			rng := rand.New(rand.NewSource(192382))
			var step environment.TimeStep
			var returns float64
			for i := 0; i < info.Horizon; i++ {
				actions := make([]int, info.Agents)
				for j := range actions {
					actions[j] = rng.Intn(numActions)
				}
				step, err = env.Step(actions)
				if err != nil {
					t.Fatalf("step %v: %v", i, err)
				}
				checkShapes(t, info, step.Obs)
				returns += step.Reward

				if wantDone := i == info.Horizon-1; step.Done != wantDone {
					t.Fatalf("step %v: done is %v, want %v", i, step.Done,
						wantDone)
				}
			}

			if !step.Last() {
				t.Fatal("final step should end the episode")
			}
			if len(step.Agents) != info.Agents {
				t.Fatalf("final step reports %v agents, want %v",
					len(step.Agents), info.Agents)
			}
			for i, agent := range step.Agents {
				if !scalar.EqualWithinAbs(agent.EvalReward, returns, 1e-12) {
					t.Fatalf("agent %v eval reward is %v, want the team "+
						"return %v", i, agent.EvalReward, returns)
				}
			}
		})
	}
}

func TestKitchenSoupDelivery(t *testing.T) {
	const horizon = 24

	// Chef 0 shuttles three onions from the crate to the pot; chef 1
	// walks to the window and serves once the pot is full.
	cycle := []int{actWest, actInteract, actEast, actEast, actInteract,
		actWest}
	var chef0 []int
	for i := 0; i < 3; i++ {
		chef0 = append(chef0, cycle...)
	}
	for len(chef0) < horizon {
		chef0 = append(chef0, actStay)
	}

	chef1 := []int{actEast}
	for len(chef1) < 17 {
		chef1 = append(chef1, actStay)
	}
	chef1 = append(chef1, actInteract)
	for len(chef1) < horizon {
		chef1 = append(chef1, actStay)
	}

	env := newStubKitchen(true, horizon)
	if _, err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	var shaped [numChefs]float64
	var returns float64
	for i := 0; i < horizon; i++ {
		step, err := env.Step([]int{chef0[i], chef1[i]})
		if err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
		returns += step.Reward
		for j, agent := range step.Agents {
			shaped[j] += agent.ShapedReward
		}

		// The serve happens on the eighteenth step and is the only
		// step with a team reward.
		wantReward := 0.0
		if i == 17 {
			wantReward = soupReward
		}
		if !scalar.EqualWithinAbs(step.Reward, wantReward, 1e-12) {
			t.Fatalf("step %v: reward is %v, want %v", i, step.Reward,
				wantReward)
		}

		if !step.Done {
			for j, agent := range step.Agents {
				if agent.EvalReward != 0 {
					t.Fatalf("step %v: agent %v eval reward set to %v "+
						"before the final step", i, j, agent.EvalReward)
				}
			}
			continue
		}
		for j, agent := range step.Agents {
			if !scalar.EqualWithinAbs(agent.EvalReward, returns, 1e-12) {
				t.Fatalf("agent %v eval reward is %v, want %v", j,
					agent.EvalReward, returns)
			}
		}
	}

	if !scalar.EqualWithinAbs(returns, soupReward, 1e-12) {
		t.Fatalf("team return is %v, want %v", returns, soupReward)
	}
	wantShaped := [numChefs]float64{
		3*pickupShaping + 3*potShaping,
		serveShaping,
	}
	for i := range shaped {
		if !scalar.EqualWithinAbs(shaped[i], wantShaped[i], 1e-12) {
			t.Fatalf("chef %v accumulated shaping %v, want %v", i,
				shaped[i], wantShaped[i])
		}
	}
}

func TestKitchenRejectsBadActions(t *testing.T) {
	cases := []struct {
		name    string
		actions []int
	}{
		{"too large", []int{numActions, actStay}},
		{"negative", []int{-1, actStay}},
		{"wrong arity", []int{actStay}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := newStubKitchen(false, 10)
			if _, err := env.Reset(); err != nil {
				t.Fatalf("reset: %v", err)
			}
			if _, err := env.Step(c.actions); err == nil {
				t.Fatalf("step should reject actions %v", c.actions)
			}
		})
	}
}

func TestKitchenLifecycle(t *testing.T) {
	env := newStubKitchen(true, 2)
	if _, err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	actions := []int{actStay, actStay}
	for i := 0; i < 2; i++ {
		if _, err := env.Step(actions); err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
	}
	if _, err := env.Step(actions); err == nil {
		t.Fatal("step should fail after the episode ends")
	}

	// A reset starts a fresh episode.
	if _, err := env.Reset(); err != nil {
		t.Fatalf("reset after episode: %v", err)
	}
	if _, err := env.Step(actions); err != nil {
		t.Fatalf("step after reset: %v", err)
	}

	if err := env.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := env.Step(actions); err == nil {
		t.Fatal("step should fail after close")
	}
	if _, err := env.Reset(); err == nil {
		t.Fatal("reset should fail after close")
	}
}
