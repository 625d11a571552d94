package main

import (
	"os"

	"worldtour/cmd/worldtour/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
