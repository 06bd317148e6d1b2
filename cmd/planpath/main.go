// Command planpath generates coverage flight paths offline from a GeoJSON
// polygon file.
package main

import (
	"os"
)

var version = "dev"

func main() {
	root := newRootCmd()
	root.Version = version

	if err := root.Execute(); err != nil {
		_, _ = errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
