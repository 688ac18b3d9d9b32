package ecalib

import "strings"

// Invocation is the argument list of one tool run.
type Invocation struct {
	Binary     string
	Subcommand string
	Flags      []string
	Input      string
	Outputs    []string
}

// Args returns everything after the subcommand: flags, input, outputs.
func (inv Invocation) Args() []string {
	args := make([]string, 0, len(inv.Flags)+1+len(inv.Outputs))
	args = append(args, inv.Flags...)
	args = append(args, inv.Input)
	args = append(args, inv.Outputs...)
	return args
}

// Argv returns the full command line including the executable.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Binary, inv.Subcommand}, inv.Args()...)
}

func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}
