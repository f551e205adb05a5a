package main

import (
	"os"

	"compgrip/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
