package history

import (
	"strconv"
	"strings"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// formatShape renders dims as "2x3x4".
func formatShape(dims []int) string {
	if len(dims) == 0 {
		return ""
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

func parseShape(value string) []int {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "x")
	dims := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		dims = append(dims, d)
	}
	return dims
}

// FormatShape is the shape notation used by the ledger and CLI tables.
func FormatShape(dims []int) string {
	return formatShape(dims)
}
