// Command fusectl fuses the renditions of one expediente from local files and
// prints the fused record with its per-field report.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
