package main

import (
	"fmt"
	"os"

	"github.com/GriffinCanCode/capsulec/internal/infrastructure/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(cfg)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
