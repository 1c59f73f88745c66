package main

import (
	"os"

	"github.com/example/parkwise/internal/cli"
	"github.com/example/parkwise/internal/wire"
)

func main() {
	rootCmd := cli.NewRootCmd()

	err := rootCmd.Execute()
	if closeErr := wire.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
