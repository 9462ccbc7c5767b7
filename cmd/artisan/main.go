/*
main.go - Application entry point

PURPOSE:
  Starts the artisan CLI. "artisan serve" runs the HTTP API; the other
  subcommands operate on the same store directly.

SEE ALSO:
  - commands/root.go: Global flags and store wiring
  - commands/serve.go: HTTP server with graceful shutdown
*/
package main

import (
	"os"

	"github.com/warp/artisan-engine/cmd/artisan/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Errors are printed by the printer package
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
