package node

// Obligation states whether an input port must be connected before Compute.
type Obligation int

const (
	Optional Obligation = iota
	Required
)

func (o Obligation) String() string {
	if o == Required {
		return "required"
	}
	return "optional"
}

// TypeArray is the port type carrying a cfl.Array.
const TypeArray = "cfl.Array"

// Port is a named, typed slot on a node.
type Port struct {
	Name       string
	Type       string
	Obligation Obligation
}
