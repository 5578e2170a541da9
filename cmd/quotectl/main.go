// Command quotectl manages the quote collection from the terminal.
// It reads the same configuration as the service and works on the same store.
package main

import (
	"os"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		newPrinter(os.Stderr, !noColorEnv() && isTerminal(os.Stderr)).errorf("%v", err)
		os.Exit(1)
	}
}

// noColorEnv honours the NO_COLOR convention.
func noColorEnv() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
