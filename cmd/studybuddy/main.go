package main

import (
	"os"

	"github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
