// Command festctl inspects the festival catalog from the command line:
// festival dates for a year, what is current or upcoming for a country, and
// catalog file validation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
