package main

import (
	"os"

	"github.com/nitwit45/automation-tm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
