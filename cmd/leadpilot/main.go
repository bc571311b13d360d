package main

import (
	"fmt"
	"os"

	"github.com/tillberg/autorestart"

	"github.com/leadpilot/leadpilot/internal/cli"
)

func main() {
	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "leadpilot:", err)
		os.Exit(1)
	}
}
