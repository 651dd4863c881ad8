// Command goclip extracts time ranges from video files, choosing
// between stream copy, re-encode, and a hybrid of both.
package main

import (
	"fmt"
	"os"

	"github.com/mifi/goclip/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
