package main

import (
	"os"

	"github.com/vzahanych/climate-outlook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
