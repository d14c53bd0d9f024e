package main

import (
	"os"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
