// The main package for the tripser executable.
package main

import (
	"github.com/mpievolbio-scicomp/tripser-go/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
