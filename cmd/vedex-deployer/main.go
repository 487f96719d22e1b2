package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	color.NoColor = false

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
