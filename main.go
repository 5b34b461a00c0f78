package main

import (
	"os"

	"github.com/mailtempl/mailtempl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
