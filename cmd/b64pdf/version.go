package main

import (
	"fmt"

	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("github.com/alnah/go-b64pdf")
}

// runVersion prints the module path and build version.
func runVersion(env *Environment) {
	fmt.Fprintln(env.Stdout, version.Module(), version.Current())
}
