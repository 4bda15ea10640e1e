// Package vac implements the VAC (value actor-critic) model for the
// cooperative cooking game: an observation encoder feeding an actor
// head that parameterizes the action distribution and a critic head
// that estimates state values. The whole symbolic forward pass is
// built at construction; callers pick what to run with a forward Mode.
package vac

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/cookrl/cookrl/model"
	"github.com/cookrl/cookrl/network"
)

// Name is the key under which the model registers itself.
const Name = "vac_overcooked"

func init() {
	model.Register(Name, func(config json.RawMessage) (model.Model, error) {
		var c Config
		if err := json.Unmarshal(config, &c); err != nil {
			return nil, fmt.Errorf("vac: could not unmarshal config: %v",
				err)
		}
		return New(c)
	})
}

// Output holds the tensors produced by a forward pass. Logits holds
// one tensor of action logits per discrete action dimension; for a
// continuous model it holds exactly two tensors, the Gaussian mean
// then its standard deviation. Value holds one estimate per batch
// element and is only set by the critic-side modes.
type Output struct {
	Logits []*tensor.Dense
	Value  *tensor.Dense
}

// VAC is an actor-critic model over a single observation input node.
// All state is per-instance learned parameters; forward passes do not
// mutate anything but the cached per-mode virtual machines, so a VAC
// is a pure function of its weights.
type VAC struct {
	config Config

	g   *G.ExprGraph
	obs *G.Node

	actorEncoder  network.Encoder
	criticEncoder network.Encoder
	actorHead     network.Head
	criticHead    *network.RegressionHead

	logits     G.Nodes
	value      *G.Node
	logitReads G.Nodes
	valueRead  *G.Node
	logitVals  []G.Value
	valueVal   G.Value

	learnables G.Nodes
	model      []G.ValueGrad

	vms map[Mode]G.VM
}

// New constructs a VAC model from its configuration. The encoder kind
// is picked by observation rank: rank 1 observations get a fully
// connected encoder, rank 3 a convolutional one, anything else is
// rejected before any parameters are allocated.
func New(config Config) (*VAC, error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	v := &VAC{
		config: config,
		g:      G.NewGraph(),
		vms:    make(map[Mode]G.VM),
	}

	init := config.InitWFn.InitWFn()
	act, norm := config.Activation, config.Norm

	if len(config.ObsShape) == 1 {
		v.obs = G.NewMatrix(
			v.g,
			tensor.Float64,
			G.WithShape(config.BatchSize, config.ObsShape[0]),
			G.WithName("observation"),
			G.WithInit(G.Zeroes()),
		)
	} else {
		shape := append([]int{config.BatchSize}, config.ObsShape...)
		v.obs = G.NewTensor(
			v.g,
			tensor.Float64,
			4,
			G.WithShape(shape...),
			G.WithName("observation"),
			G.WithInit(G.Zeroes()),
		)
	}

	newEncoder := func(name string) (network.Encoder, error) {
		if len(config.ObsShape) == 1 {
			return network.NewFCEncoder(v.g, v.obs,
				config.EncoderHiddenSizes, norm, act, init, name)
		}
		return network.NewConvEncoder(v.g, v.obs,
			config.EncoderHiddenSizes, norm, act, init, name)
	}

	if config.ShareEncoder {
		encoder, err := newEncoder("Encoder")
		if err != nil {
			return nil, fmt.Errorf("new: could not construct shared "+
				"encoder: %v", err)
		}
		v.actorEncoder, v.criticEncoder = encoder, encoder
	} else {
		actorEncoder, err := newEncoder("ActorEncoder")
		if err != nil {
			return nil, fmt.Errorf("new: could not construct actor "+
				"encoder: %v", err)
		}
		criticEncoder, err := newEncoder("CriticEncoder")
		if err != nil {
			return nil, fmt.Errorf("new: could not construct critic "+
				"encoder: %v", err)
		}
		v.actorEncoder, v.criticEncoder = actorEncoder, criticEncoder
	}

	var err error
	switch {
	case config.Continuous:
		v.actorHead, err = network.NewReparamHead(v.g,
			v.actorEncoder.Output(), config.ActionShape[0],
			config.ActorHeadLayerNum, norm, act, init, "ActorHead")
	case len(config.ActionShape) > 1:
		v.actorHead, err = network.NewMultiHead(v.g,
			v.actorEncoder.Output(), config.ActionShape,
			config.ActorHeadLayerNum, norm, act, init, "ActorHead")
	default:
		v.actorHead, err = network.NewDiscreteHead(v.g,
			v.actorEncoder.Output(), config.ActionShape[0],
			config.ActorHeadLayerNum, norm, act, init, "ActorHead")
	}
	if err != nil {
		return nil, fmt.Errorf("new: could not construct actor head: %v",
			err)
	}

	v.criticHead, err = network.NewRegressionHead(v.g,
		v.criticEncoder.Output(), 1, config.CriticHeadLayerNum, norm, act,
		init, "CriticHead")
	if err != nil {
		return nil, fmt.Errorf("new: could not construct critic head: %v",
			err)
	}

	v.logits = v.actorHead.Outputs()
	v.value = v.criticHead.Output()

	// Capture outputs so that running any mode's machine fills in the
	// corresponding values.
	v.logitVals = make([]G.Value, len(v.logits))
	v.logitReads = make(G.Nodes, len(v.logits))
	for i, logit := range v.logits {
		v.logitReads[i] = G.Read(logit, &v.logitVals[i])
	}
	v.valueRead = G.Read(v.value, &v.valueVal)

	return v, nil
}

// Forward runs one forward pass in the given mode and packages the
// mode's outputs. obs is the flattened observation batch in row-major
// order; its length must equal BatchSize() times the observation
// volume.
func (v *VAC) Forward(obs []float64, mode Mode) (*Output, error) {
	vm, err := v.machine(mode)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}
	if err := v.SetInput(obs); err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward: could not run %v: %v", mode, err)
	}
	defer vm.Reset()

	// The read values alias virtual machine registers, so they are
	// cloned before the machine is reset and rerun.
	out := &Output{}
	if mode == ComputeActor || mode == ComputeActorCritic {
		out.Logits = make([]*tensor.Dense, len(v.logitVals))
		for i, val := range v.logitVals {
			out.Logits[i] = val.(*tensor.Dense).Clone().(*tensor.Dense)
		}
	}
	if mode == ComputeCritic || mode == ComputeActorCritic {
		out.Value = v.valueVal.(*tensor.Dense).Clone().(*tensor.Dense)
	}
	return out, nil
}

// machine returns the cached virtual machine for mode, compiling the
// mode's pruned program on first use. Each program runs from the
// observation node to the mode's own outputs only, so computing the
// critic never evaluates the actor head and vice versa.
func (v *VAC) machine(mode Mode) (G.VM, error) {
	if vm, ok := v.vms[mode]; ok {
		return vm, nil
	}

	var outputs G.Nodes
	switch mode {
	case ComputeActor:
		outputs = v.logitReads
	case ComputeCritic:
		outputs = G.Nodes{v.valueRead}
	case ComputeActorCritic:
		outputs = append(append(G.Nodes{}, v.logitReads...), v.valueRead)
	default:
		return nil, fmt.Errorf("unsupported forward mode %v (supported: "+
			"%v)", mode, modeList())
	}

	prog, locMap, err := G.CompileFunction(v.g, G.Nodes{v.obs}, outputs)
	if err != nil {
		return nil, fmt.Errorf("could not compile %v: %v", mode, err)
	}

	vm := G.NewTapeMachine(v.g, G.WithPrecompiled(prog, locMap))
	v.vms[mode] = vm
	return vm, nil
}

// SetInput binds the flattened observation batch to the model's input
// node before a machine is run.
func (v *VAC) SetInput(obs []float64) error {
	if len(obs) != v.obs.Shape().TotalSize() {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", v.obs.Shape().TotalSize(), len(obs))
	}
	obsTensor := tensor.New(
		tensor.WithBacking(obs),
		tensor.WithShape(v.obs.Shape()...),
	)
	return G.Let(v.obs, obsTensor)
}

// Graph returns the computational graph holding the model.
func (v *VAC) Graph() *G.ExprGraph {
	return v.g
}

// Config returns the configuration the model was built from.
func (v *VAC) Config() Config {
	return v.config
}

// BatchSize returns the number of observations per forward pass.
func (v *VAC) BatchSize() int {
	return v.config.BatchSize
}

// Input returns the observation input node.
func (v *VAC) Input() *G.Node {
	return v.obs
}

// LogitNodes returns the symbolic actor outputs, one node per action
// dimension (mean then stddev for continuous models). Callers build
// losses against these nodes.
func (v *VAC) LogitNodes() G.Nodes {
	return v.logits
}

// ValueNode returns the symbolic critic output.
func (v *VAC) ValueNode() *G.Node {
	return v.value
}

// Learnables returns the model parameters in a deterministic order:
// actor encoder, critic encoder when separate, actor head, critic
// head.
func (v *VAC) Learnables() G.Nodes {
	if v.learnables == nil {
		v.learnables = append(v.learnables,
			v.actorEncoder.Learnables()...)
		if !v.config.ShareEncoder {
			v.learnables = append(v.learnables,
				v.criticEncoder.Learnables()...)
		}
		v.learnables = append(v.learnables, v.actorHead.Learnables()...)
		v.learnables = append(v.learnables, v.criticHead.Learnables()...)
	}
	return v.learnables
}

// ActorLearnables returns the parameters on the actor path: the
// actor-side encoder and the actor head. With a shared encoder the
// encoder parameters appear on both paths, so callers giving the two
// paths separate solvers should construct the model with separate
// encoders.
func (v *VAC) ActorLearnables() G.Nodes {
	learnables := append(G.Nodes{}, v.actorEncoder.Learnables()...)
	return append(learnables, v.actorHead.Learnables()...)
}

// CriticLearnables returns the parameters on the critic path: the
// critic-side encoder and the critic head.
func (v *VAC) CriticLearnables() G.Nodes {
	learnables := append(G.Nodes{}, v.criticEncoder.Learnables()...)
	return append(learnables, v.criticHead.Learnables()...)
}

// Model returns the learnable nodes with their gradients for solvers.
func (v *VAC) Model() []G.ValueGrad {
	if v.model == nil {
		for _, node := range v.Learnables() {
			v.model = append(v.model, node)
		}
	}
	return v.model
}

// Set copies the weights of source into v index-wise. The two models
// must share an architecture.
func (v *VAC) Set(source *VAC) error {
	sourceNodes := source.Learnables()
	nodes := v.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: parameter count mismatch\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(sourceNodes))
	}
	for i, node := range nodes {
		cloned := sourceNodes[i].Clone()
		if err := G.Let(node, cloned.(*G.Node).Value()); err != nil {
			return err
		}
	}
	return nil
}

// Polyak sets the weights of v to an exponential average between its
// existing weights and the weights of source: w <- (1-tau)*w + tau*ws.
func (v *VAC) Polyak(source *VAC, tau float64) error {
	sourceNodes := source.Learnables()
	nodes := v.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("polyak: parameter count mismatch\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(sourceNodes))
	}
	for i := range nodes {
		weights := nodes[i].Value().(*tensor.Dense)
		sourceWeights := sourceNodes[i].Value().(*tensor.Dense)

		weights, err := weights.MulScalar(1-tau, true)
		if err != nil {
			return err
		}

		sourceWeights, err = sourceWeights.MulScalar(tau, true)
		if err != nil {
			return err
		}

		newWeights, err := weights.Add(sourceWeights)
		if err != nil {
			return err
		}

		if err := G.Let(nodes[i], newWeights); err != nil {
			return err
		}
	}
	return nil
}

// Clone rebuilds an identical model from the configuration and copies
// the weights across.
func (v *VAC) Clone() (*VAC, error) {
	return v.CloneWithBatch(v.config.BatchSize)
}

// CloneWithBatch rebuilds the model with a new batch size and copies
// the weights across.
func (v *VAC) CloneWithBatch(batchSize int) (*VAC, error) {
	config := v.config
	config.BatchSize = batchSize
	clone, err := New(config)
	if err != nil {
		return nil, fmt.Errorf("clonewithbatch: %v", err)
	}
	if err := clone.Set(v); err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not copy weights: %v",
			err)
	}
	return clone, nil
}

// Close releases the virtual machines cached for the forward modes.
func (v *VAC) Close() error {
	var first error
	for mode, vm := range v.vms {
		if err := vm.Close(); err != nil && first == nil {
			first = fmt.Errorf("close: could not close %v machine: %v",
				mode, err)
		}
	}
	v.vms = make(map[Mode]G.VM)
	return first
}

// GobEncode implements the gob.GobEncoder interface. The encoding
// carries the JSON configuration and every learnable tensor, so a
// decoded model reproduces the encoded model's outputs exactly.
func (v *VAC) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	config, err := json.Marshal(v.config)
	if err != nil {
		return nil, fmt.Errorf("gobencode: could not marshal config: %v",
			err)
	}
	if err := enc.Encode(config); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode config: %v",
			err)
	}

	for _, node := range v.Learnables() {
		if err := enc.Encode(node.Value().(*tensor.Dense)); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode %v: %v",
				node.Name(), err)
		}
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface.
func (v *VAC) GobDecode(in []byte) error {
	buf := bytes.NewReader(in)
	dec := gob.NewDecoder(buf)

	var config []byte
	if err := dec.Decode(&config); err != nil {
		return fmt.Errorf("gobdecode: could not decode config: %v", err)
	}
	var c Config
	if err := json.Unmarshal(config, &c); err != nil {
		return fmt.Errorf("gobdecode: could not unmarshal config: %v", err)
	}

	decoded, err := New(c)
	if err != nil {
		return fmt.Errorf("gobdecode: could not reconstruct model: %v", err)
	}
	for _, node := range decoded.Learnables() {
		var value tensor.Dense
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("gobdecode: could not decode %v: %v",
				node.Name(), err)
		}
		if err := G.Let(node, &value); err != nil {
			return fmt.Errorf("gobdecode: could not restore %v: %v",
				node.Name(), err)
		}
	}

	*v = *decoded
	return nil
}
