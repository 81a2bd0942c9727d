package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config string `help:"Directory holding app.env." type:"path" default:"."`
	Debug  bool   `help:"Verbose logging."`

	Migrate MigrateCmd `cmd:"" help:"Create or update the database schema."`
	Seed    SeedCmd    `cmd:"" help:"Fill empty reward and avatar catalogs."`
	Reset   ResetCmd   `cmd:"" help:"Run the daily reset."`
	Health  HealthCmd  `cmd:"" help:"Check that the app's gRPC endpoint is serving."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitrpg-ops"),
		kong.Description("Operator tasks for the habitrpg service"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&Context{ConfigDir: CLI.Config, Debug: CLI.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
