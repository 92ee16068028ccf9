package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cinedex/catalog-api/internal/cli"
)

func main() {
	root := cli.NewApp(os.Stdout, os.Stderr).CreateRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
