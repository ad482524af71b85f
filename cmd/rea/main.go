package main

import (
	"os"

	"github.com/cwbudde/go-rea/cmd/rea/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
