package node

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ecalib/internal/cfl"
	"ecalib/internal/services"
)

// ErrUnknownName marks lookups of widgets or ports a node never declared.
var ErrUnknownName = errors.New("unknown widget or port")

// Panel is an in-memory Host backed by a node Spec.
type Panel struct {
	spec    Spec
	values  map[string]Value
	inputs  map[string]cfl.Array
	outputs map[string]cfl.Array
}

// NewPanel builds a panel whose widgets hold their declared defaults.
func NewPanel(spec Spec) *Panel {
	p := &Panel{
		spec:    spec,
		values:  make(map[string]Value, len(spec.Widgets)),
		inputs:  make(map[string]cfl.Array),
		outputs: make(map[string]cfl.Array),
	}
	for _, w := range spec.Widgets {
		p.values[w.Name] = w.Default
	}
	return p
}

// Spec returns the node description the panel was built from.
func (p *Panel) Spec() Spec {
	return p.spec
}

// Set assigns a widget value after kind and minimum checks.
func (p *Panel) Set(name string, v Value) error {
	w, ok := p.spec.Widget(name)
	if !ok {
		return fmt.Errorf("%w: widget %q", ErrUnknownName, name)
	}
	accepted, err := w.Accept(v)
	if err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	p.values[name] = accepted
	return nil
}

// Connect attaches an array to an input port.
func (p *Panel) Connect(port string, arr cfl.Array) error {
	if _, ok := p.spec.InPort(port); !ok {
		return fmt.Errorf("%w: input port %q", ErrUnknownName, port)
	}
	p.inputs[port] = arr
	return nil
}

// Value implements Host.
func (p *Panel) Value(name string) (Value, error) {
	v, ok := p.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: widget %q", ErrUnknownName, name)
	}
	return v, nil
}

// Data implements Host.
func (p *Panel) Data(name string) (cfl.Array, bool) {
	arr, ok := p.inputs[name]
	return arr, ok
}

// SetData implements Host. Only declared output ports accept data.
func (p *Panel) SetData(name string, arr cfl.Array) error {
	if _, ok := p.spec.OutPort(name); !ok {
		return fmt.Errorf("%w: output port %q", ErrUnknownName, name)
	}
	p.outputs[name] = arr
	return nil
}

// Output returns the array published on an output port.
func (p *Panel) Output(name string) (cfl.Array, bool) {
	arr, ok := p.outputs[name]
	return arr, ok
}

// Outputs lists the populated output ports in name order.
func (p *Panel) Outputs() []string {
	names := make([]string, 0, len(p.outputs))
	for name := range p.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run computes n against the panel. Outputs from a previous run are cleared
// first and anything published by a failed compute is discarded.
func (p *Panel) Run(ctx context.Context, n Node) error {
	for _, port := range p.spec.InPorts {
		if port.Obligation != Required {
			continue
		}
		if _, ok := p.inputs[port.Name]; !ok {
			return fmt.Errorf("%w: required input %q is not connected", services.ErrValidation, port.Name)
		}
	}
	clear(p.outputs)
	if err := n.Compute(ctx, p); err != nil {
		clear(p.outputs)
		return err
	}
	return nil
}

// FloatValue reads a widget as float64.
func FloatValue(h Host, name string) (float64, error) {
	v, err := h.Value(name)
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// IntValue reads a widget as int.
func IntValue(h Host, name string) (int, error) {
	v, err := h.Value(name)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// BoolValue reads a widget as bool.
func BoolValue(h Host, name string) (bool, error) {
	v, err := h.Value(name)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}
