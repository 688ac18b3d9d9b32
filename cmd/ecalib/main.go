package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ecalib/internal/services"
)

// exitCodes maps error kinds to process exit statuses. Anything else exits 1.
var exitCodes = map[string]int{
	"configuration": 2,
	"validation":    2,
	"external_tool": 3,
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if code, ok := exitCodes[services.Classify(err)]; ok {
		return code
	}
	return 1
}
