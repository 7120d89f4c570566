package outwriter

import (
	"os"

	"github.com/helexia/contractrisk/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width of free-text cells (risk names,
// project names, titles) based on terminal width and the fixed columns of the table.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 20
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
