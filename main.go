package main

import "github.com/crabman-cli/crabman/cmd"

func main() {
	cmd.Execute()
}
