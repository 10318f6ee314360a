// Command jyaml formats, validates and converts JYAML documents.
package main

import (
	"os"

	"github.com/shapestone/shape-jyaml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
