// Package solver wraps Gorgonia optimizers behind JSON serializable
// configurations, so a training setup can name its optimizer in a
// configuration file.
package solver

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type names an optimization algorithm.
type Type string

// Available optimizers
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// configOf maps each Type to the concrete Config struct describing it,
// so encoded configurations can be rebuilt.
var configOf = map[Type]reflect.Type{
	Adam:    reflect.TypeOf(AdamConfig{}),
	Vanilla: reflect.TypeOf(VanillaConfig{}),
	RMSProp: reflect.TypeOf(RMSPropConfig{}),
}

// Config describes an optimizer and creates the Gorgonia Solver it
// names.
type Config interface {
	// Create returns the described Gorgonia Solver
	Create() G.Solver

	// ValidType returns whether the Config can describe an optimizer
	// of the argument Type
	ValidType(Type) bool
}

// Solver is a JSON serializable wrapper around a Gorgonia Solver.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

// newSolver wraps the optimizer a Config describes.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newsolver: config %T cannot describe a "+
			"%v optimizer", c, t)
	}

	s := &Solver{Type: t, Config: c}
	s.Solver = c.Create()

	return s, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. The
// concrete Config is rebuilt from the encoded Type and the wrapped
// optimizer is recreated from it.
func (s *Solver) UnmarshalJSON(data []byte) error {
	var encoded struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}

	concrete, ok := configOf[encoded.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: no such optimizer type: %v",
			encoded.Type)
	}

	config := reflect.New(concrete).Interface().(Config)
	if len(encoded.Config) > 0 {
		if err := json.Unmarshal(encoded.Config, config); err != nil {
			return err
		}
	}

	s.Type = encoded.Type
	s.Config = reflect.ValueOf(config).Elem().Interface().(Config)
	s.Solver = s.Config.Create()

	return nil
}
