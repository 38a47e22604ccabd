// Package main provides the recettes binary: the web server of the recipe
// catalog plus a few maintenance commands.
package main

import (
	"fmt"
	"os"

	_ "github.com/tbourn/recettes/docs"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
