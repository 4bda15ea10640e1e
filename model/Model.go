// Package model implements a string-keyed registry of neural network
// models. Model packages register a builder under an architecture name
// in an init function, and external configuration instantiates models
// by that name with a JSON configuration blob.
package model

import (
	"encoding/json"
	"fmt"
	"sort"

	G "gorgonia.org/gorgonia"
)

// Model is the interface satisfied by every registered model. Models
// own a Gorgonia graph holding their parameters and forward pass, and
// release any virtual machines they cache when closed.
type Model interface {
	Graph() *G.ExprGraph
	Learnables() G.Nodes
	Close() error
}

// Builder constructs a model from its JSON configuration.
type Builder func(config json.RawMessage) (Model, error)

var models = make(map[string]Builder)

// Register registers a model builder under the given name. Register
// panics if the name is already taken, since a duplicate registration
// is a programmer error.
func Register(name string, build Builder) {
	if _, ok := models[name]; ok {
		panic(fmt.Sprintf("register: model %q already registered", name))
	}
	models[name] = build
}

// New builds the model registered under name from the given JSON
// configuration.
func New(name string, config json.RawMessage) (Model, error) {
	build, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("new: unknown model %q (registered: %v)",
			name, Registered())
	}
	return build(config)
}

// Registered returns the names of all registered models in sorted
// order.
func Registered() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
