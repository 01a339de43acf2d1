package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/amaumene/gomovies/internal/constants"
)

func main() {
	app := &cli.Command{
		Name:    constants.AppName,
		Usage:   constants.AppDescription,
		Version: constants.AppVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (JSON or TOML)",
				Value: "",
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			SearchCommand(),
			TrendingCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
