// Command memvault is the entry point for the media vault CLI.
package main

import (
	"os"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
