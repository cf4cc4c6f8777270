// Command ucum validates, analyses and converts UCUM unit expressions.
package main

import (
	"os"

	"github.com/govalues/ucum/cmd/ucum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
