package main

import (
	"os"

	"github.com/idilsaglam/restaurants/internal/cli"
	"github.com/idilsaglam/restaurants/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.Fail(err.Error())
		os.Exit(1)
	}
}
