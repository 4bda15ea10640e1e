// Package initwfn wraps Gorgonia weight initializers behind JSON
// serializable configurations, so a model architecture can name its
// initialization scheme in a configuration file.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type names a weight initialization algorithm.
type Type string

// Available initialization algorithms
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
	Gaussian Type = "Gaussian"
	Uniform  Type = "Uniform"
)

// configOf maps each Type to the concrete Config struct describing it,
// so encoded configurations can be rebuilt.
var configOf = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
	Ones:     reflect.TypeOf(OnesConfig{}),
	Constant: reflect.TypeOf(ConstantConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
}

// Config describes a weight initialization algorithm and creates the
// Gorgonia initializer it names.
type Config interface {
	// Create returns the described Gorgonia initializer
	Create() G.InitWFn

	// Type returns the algorithm the Config describes
	Type() Type
}

// InitWFn is a JSON serializable wrapper around a Gorgonia InitWFn.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// newInitWFn wraps the initializer a Config describes.
func newInitWFn(c Config) (*InitWFn, error) {
	w := &InitWFn{Type: c.Type(), Config: c}
	w.initWFn = c.Create()

	return w, nil
}

// InitWFn returns the wrapped Gorgonia initializer.
func (w *InitWFn) InitWFn() G.InitWFn {
	return w.initWFn
}

// String implements the fmt.Stringer interface
func (w *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", w.Type, w.Config)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The
// concrete Config is rebuilt from the encoded Type and the wrapped
// initializer is recreated from it.
func (w *InitWFn) UnmarshalJSON(data []byte) error {
	var encoded struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}

	concrete, ok := configOf[encoded.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: no such initializer type: %v",
			encoded.Type)
	}

	// A parameterless algorithm may omit its Config object.
	config := reflect.New(concrete).Interface().(Config)
	if len(encoded.Config) > 0 {
		if err := json.Unmarshal(encoded.Config, config); err != nil {
			return err
		}
	}

	w.Type = encoded.Type
	w.Config = reflect.ValueOf(config).Elem().Interface().(Config)
	w.initWFn = w.Config.Create()

	return nil
}
