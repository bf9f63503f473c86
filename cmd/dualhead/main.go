// Package main runs the dualhead output topology configurator.
package main

import "os"

// main is the entrypoint for the dualhead CLI.
func main() {
	os.Exit(execute(os.Args[1:], defaultEnv()))
}
