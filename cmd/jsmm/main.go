// Command jsmm runs, checks and records programs written in jsmm, the
// JavaScript subset for beginners.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, styles(os.Stderr).errorText("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
