package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amaumene/gomovies/internal/view"
)

// TrendingCommand creates the trending command
func TrendingCommand() *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Show the most searched terms",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showTrending(ctx, c.String("config"), c.Bool("debug"))
		},
	}
}

func showTrending(ctx context.Context, configPath string, debug bool) error {
	a, err := newApp(ctx, configPath, debug)
	if err != nil {
		return err
	}
	defer a.Close()

	a.container.Trending.Load(ctx)

	renderer := view.NewRenderer(a.cfg.ImageBaseURL, a.cfg.NoPosterURL)
	fmt.Print(formatTrending(renderer.Trending(a.container.Trending.Entries())))
	return nil
}
