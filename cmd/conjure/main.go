package main

import (
	"os"

	"github.com/conjure-cli/conjure/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
