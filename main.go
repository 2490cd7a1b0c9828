package main

import (
	"github.com/GeorgePearse/TranspileAI/cmd"
)

func main() {
	// Execute the root command.
	cmd.Execute()
}
