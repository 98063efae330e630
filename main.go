package main

import (
	"os"

	"github.com/churnprep/churnprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
