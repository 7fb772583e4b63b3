package main

import (
	"os"

	"github.com/askdocs/askdocs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
