package main

import (
	"os"

	"github.com/Moshiii/Alpha-Arena-Lite/cmd/arena/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
