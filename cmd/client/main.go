package main

import (
	"context"
	"os"

	"github.com/dpetukhov/srpvault/internal/client/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout))
}
