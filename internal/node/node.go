package node

import (
	"context"

	"ecalib/internal/cfl"
)

// Node is a unit of work with declared widgets and ports.
type Node interface {
	Describe() Spec
	Compute(ctx context.Context, host Host) error
}

// Host gives a node access to its widget values and port data.
type Host interface {
	Value(name string) (Value, error)
	Data(name string) (cfl.Array, bool)
	SetData(name string, arr cfl.Array) error
}

// Spec is the static description of a node kind.
type Spec struct {
	Name        string
	Description string
	Widgets     []Widget
	InPorts     []Port
	OutPorts    []Port
}

// Widget returns the widget declared under name.
func (s Spec) Widget(name string) (Widget, bool) {
	for _, w := range s.Widgets {
		if w.Name == name {
			return w, true
		}
	}
	return Widget{}, false
}

// InPort returns the input port declared under name.
func (s Spec) InPort(name string) (Port, bool) {
	return findPort(s.InPorts, name)
}

// OutPort returns the output port declared under name.
func (s Spec) OutPort(name string) (Port, bool) {
	return findPort(s.OutPorts, name)
}

func findPort(ports []Port, name string) (Port, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}
