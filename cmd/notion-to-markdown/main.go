package main

import (
	"errors"
	"fmt"
	"os"

	"notion-to-markdown/internal/tui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, tui.ErrAborted) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
