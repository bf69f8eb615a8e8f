package utils

import "fmt"

// Human-readable entity numbers. The stored value is the bare integer; these
// formatters are applied at the API boundary.

func FormatWorkspaceNumber(n uint64) string {
	return fmt.Sprintf("WS%d", n)
}

func FormatSpaceNumber(n uint64) string {
	return fmt.Sprintf("S%d", n)
}

func FormatTaskNumber(n uint64) string {
	return fmt.Sprintf("T%d", n)
}
