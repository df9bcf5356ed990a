package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Ignoring unreadable .env", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trainerwatch"),
		kong.Description("Calorie and water diary with a motivational quote after every entry."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Bind(&Global{Out: os.Stdout}),
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
