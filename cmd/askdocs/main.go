package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/askdocs/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdocs/internal/config"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "askdocs: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "askdocs: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	if err := cli.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "askdocs: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
