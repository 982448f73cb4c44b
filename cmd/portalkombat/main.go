package main

import (
	"context"
	"fmt"
	"os"

	"portalkombat/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRoot(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "portalkombat:", err)
		os.Exit(1)
	}
}
