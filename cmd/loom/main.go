package main

import (
	"os"

	"loom/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
