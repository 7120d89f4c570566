// main is the entry point of the contractrisk CLI.
package main

import (
	"fmt"
	"os"

	"github.com/helexia/contractrisk/cmd"
	"github.com/helexia/contractrisk/internal/iostore"
)

func main() {
	defer iostore.CloseStore()

	if err := cmd.Execute(); err != nil {
		iostore.CloseStore()
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
