package main

import (
	"fmt"
	"os"
)

// main always exits 0: stage failures are reported on the console and
// never abort the process.
func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
