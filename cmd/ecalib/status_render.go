package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"ecalib/internal/preflight"
)

type outcome int

const (
	outcomePass outcome = iota
	outcomeFail
	outcomeNote
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var outcomeStyles = map[outcome]struct{ label, color string }{
	outcomePass: {"PASS", ansiGreen},
	outcomeFail: {"FAIL", ansiRed},
	outcomeNote: {"NOTE", ansiYellow},
}

const checkLabelWidth = 20

// checkLine renders "  <label>:  [PASS] detail", coloured when requested.
func checkLine(label string, o outcome, detail string, colorize bool) string {
	style := outcomeStyles[o]
	line := fmt.Sprintf("  %-*s [%s]", checkLabelWidth, label+":", style.label)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		line = style.color + line + ansiReset
	}
	return line
}

func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results)+1)
	passed := 0
	for _, r := range results {
		o := outcomeFail
		if r.Passed {
			o = outcomePass
			passed++
		}
		lines = append(lines, checkLine(r.Name, o, r.Detail, colorize))
	}
	summary := outcomePass
	if passed < len(results) {
		summary = outcomeNote
	}
	lines = append(lines, checkLine("Summary", summary, fmt.Sprintf("%d/%d checks passed", passed, len(results)), colorize))
	return lines
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
