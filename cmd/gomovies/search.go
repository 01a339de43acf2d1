package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/view"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search movies, or list popular ones when no term is given",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to load",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			term := strings.Join(c.Args().Slice(), " ")
			return searchMovies(ctx, c.String("config"), c.Bool("debug"), term, int(c.Int("pages")))
		},
	}
}

// searchMovies drives a controller the way a client would: submit the
// term, then press "load more" until pages are loaded or none remain.
func searchMovies(ctx context.Context, configPath string, debug bool, term string, pages int) error {
	if pages < 1 {
		return errors.New("--pages must be at least 1")
	}

	a, err := newApp(ctx, configPath, debug)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireToken(); err != nil {
		return err
	}

	opts := a.controllerOptions()
	opts.DebounceDelay = 0
	ctrl := a.container.NewController(opts)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout*4)
	defer cancel()

	ctrl.Submit(term)
	state, err := ctrl.WaitIdle(ctx)
	if err != nil {
		return fmt.Errorf("waiting for results: %w", err)
	}
	for state.Page < pages && ctrl.LoadMore() {
		if state, err = ctrl.WaitIdle(ctx); err != nil {
			return fmt.Errorf("waiting for results: %w", err)
		}
	}

	renderer := view.NewRenderer(a.cfg.ImageBaseURL, a.cfg.NoPosterURL)
	fmt.Print(formatList(renderer.List(state)))
	return nil
}
