package main

import (
	"errors"
	"fmt"
	"os"
)

// errSyncFailed signals a completed run with at least one failed
// ticket; it maps to exit code 1 without an extra error line.
var errSyncFailed = errors.New("sync failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSyncFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
