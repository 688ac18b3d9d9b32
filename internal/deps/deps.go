package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotConfigured is returned by Locate for a blank command.
var ErrNotConfigured = errors.New("command not configured")

// Tool names an external executable and where it is expected to live.
type Tool struct {
	Name    string
	Command string
}

// Location is the outcome of resolving a Tool.
type Location struct {
	Tool
	Path string
	Err  error
}

// Found reports whether the tool resolved to an executable path.
func (l Location) Found() bool { return l.Err == nil && l.Path != "" }

// Detail is a short human-readable description of the lookup.
func (l Location) Detail() string {
	switch {
	case l.Found():
		return l.Path
	case errors.Is(l.Err, ErrNotConfigured):
		return l.Err.Error()
	default:
		return fmt.Sprintf("binary %q not found", l.Command)
	}
}

// Locate resolves tool.Command. Commands containing a path separator are
// checked in place; bare names go through PATH.
func Locate(tool Tool) Location {
	tool.Command = strings.TrimSpace(tool.Command)
	loc := Location{Tool: tool}
	if tool.Command == "" {
		loc.Err = ErrNotConfigured
		return loc
	}
	loc.Path, loc.Err = exec.LookPath(tool.Command)
	return loc
}

// LocateAll resolves every tool in order.
func LocateAll(tools ...Tool) []Location {
	out := make([]Location, 0, len(tools))
	for _, tool := range tools {
		out = append(out, Locate(tool))
	}
	return out
}
