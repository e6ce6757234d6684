// Package main is the entry point for the synapsim application. It wires
// the cobra command tree in cmd and runs whichever subcommand the operator
// invoked.
package main

import (
	"synapsim/cmd"
)

func main() {
	cmd.Execute()
}
