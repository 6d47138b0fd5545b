package main

import (
	"os"

	"github.com/roach88/iogen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
