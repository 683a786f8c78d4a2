package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root, a := newRootCmd()
	if err := runCommand(context.Background(), root, a); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
