package main

import (
	"os"

	"codecorrect/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
