// The main package for the ayudas executable.
package main

import "github.com/aidscope/ayudas-crawler/cmd"

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
