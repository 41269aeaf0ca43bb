// Command inlinesvg inspects icon manifests and renders inline SVG catalogs.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/inlinesvg/cmd/inlinesvg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
