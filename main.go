package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/cookrl/cookrl/model"
	"github.com/cookrl/cookrl/model/vac"
	"github.com/cookrl/cookrl/solver"
	"github.com/cookrl/cookrl/utils/floatutils"
	"github.com/cookrl/cookrl/utils/op"
)

func main() {
	const chefs, obsDim, numActions = 2, 96, 6

	// Build the model through the registry, the way a configuration
	// file would name it.
	rawConfig := json.RawMessage(fmt.Sprintf(`{
		"ObsShape": [%d],
		"ActionShape": [%d],
		"ShareEncoder": true,
		"BatchSize": %d
	}`, obsDim, numActions, chefs))

	m, err := model.New(vac.Name, rawConfig)
	if err != nil {
		log.Fatal(err)
	}
	v := m.(*vac.VAC)
	defer v.Close()
	fmt.Println("registered models:", model.Registered())

	// One observation row per chef.
	obs := make([]float64, chefs*obsDim)
	for i := range obs {
		obs[i] = math.Sin(float64(i) / 7.0)
	}

	out, err := v.Forward(obs, vac.ComputeActorCritic)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("before training:")
	printDecisions(out, chefs, numActions)

	// The encoder is shared, so its parameters sit on both paths and a
	// single solver adapts the joint objective.
	g := v.Graph()
	actionIndices := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(chefs, numActions),
		G.WithName("selectedActions"),
	)
	advantages := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(chefs),
		G.WithName("advantages"),
	)
	returns := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(chefs),
		G.WithName("returns"),
	)

	logPdf := op.CategoricalLogPdf(v.LogitNodes()[0], actionIndices)
	policyLoss := G.Must(G.HadamardProd(logPdf, advantages))
	policyLoss = G.Must(G.Neg(G.Must(G.Mean(policyLoss))))

	valueLoss := G.Must(G.Sub(v.ValueNode(), returns))
	valueLoss = G.Must(G.Mean(G.Must(G.Square(valueLoss))))

	cost := G.Must(G.Add(policyLoss, valueLoss))
	if _, err := G.Grad(cost, v.Learnables()...); err != nil {
		log.Fatal(err)
	}

	vm := G.NewTapeMachine(g, G.BindDualValues(v.Learnables()...))
	defer vm.Close()

	adam, err := solver.NewDefaultAdam(1e-2, chefs)
	if err != nil {
		log.Fatal(err)
	}

	// Pretend chef 0 was rewarded for interacting and chef 1 for
	// moving north, and fit the values toward the observed returns.
	oneHot := make([]float64, chefs*numActions)
	oneHot[0*numActions+5] = 1
	oneHot[1*numActions+0] = 1
	advantageVals := []float64{1.5, 0.5}
	returnVals := []float64{20.0, 1.2}

	for step := 0; step < 10; step++ {
		if err := v.SetInput(obs); err != nil {
			log.Fatal(err)
		}
		err = G.Let(actionIndices, tensor.New(
			tensor.WithShape(chefs, numActions),
			tensor.WithBacking(oneHot),
		))
		if err != nil {
			log.Fatal(err)
		}
		err = G.Let(advantages, tensor.New(
			tensor.WithShape(chefs),
			tensor.WithBacking(advantageVals),
		))
		if err != nil {
			log.Fatal(err)
		}
		err = G.Let(returns, tensor.New(
			tensor.WithShape(chefs),
			tensor.WithBacking(returnVals),
		))
		if err != nil {
			log.Fatal(err)
		}

		if err := vm.RunAll(); err != nil {
			log.Fatal(err)
		}
		if err := adam.Step(v.Model()); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("step %2d: loss %.6f\n", step,
			cost.Value().Data().(float64))
		vm.Reset()
	}

	out, err = v.Forward(obs, vac.ComputeActorCritic)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("after training:")
	printDecisions(out, chefs, numActions)
}

// printDecisions prints each chef's greedy action and value estimate.
func printDecisions(out *vac.Output, chefs, numActions int) {
	logits := out.Logits[0].Data().([]float64)
	values := out.Value.Data().([]float64)
	for chef := 0; chef < chefs; chef++ {
		row := logits[chef*numActions : (chef+1)*numActions]
		_, best := floatutils.MaxSlice(row)
		fmt.Printf("  chef %v: greedy action %v, value %.4f\n",
			chef, best[0], values[chef])
	}
}
