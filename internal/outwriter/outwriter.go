// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for silo names in table output
// based on terminal width and the fixed columns of the table.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}

// treatLabel picks a colored or plain label depending on config.
func treatLabel(treat schema.Treat, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(treat)
	}
	return contract.GetPlainLabel(treat)
}
