package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"mendikot.hcl" type:"path" env:"MENDIKOT_CONFIG" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel string `env:"MENDIKOT_LOG_LEVEL" help:"Log level: debug, info, warn, error (overrides config)"`
	NoColor  bool   `env:"MENDIKOT_NO_COLOR" help:"Disable coloured output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play a match against three bots"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot teams against each other and report statistics"`
}

// newLogger builds the stderr logger at the given level.
func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

func main() {
	// Environment overrides may come from a .env file in the working directory.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mendikot"),
		kong.Description("Mendikot (Band Hukum) card game with computer players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
