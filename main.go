package main

import (
	"os"

	"github.com/enersim/gridopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
