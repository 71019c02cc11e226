package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/PublishedDoonk/notes-so/cli"
	"github.com/PublishedDoonk/notes-so/server"
)

// Default configuration for the CLI
var config = &cli.DefaultConfig

func main() {
	log.SetPrefix("[notes-so]: ")
	log.SetFlags(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Config file first so that flags override it.
	if err := cli.LoadFile(config, cli.ConfigPath()); err != nil {
		log.Fatalln(err)
	}

	// Interrupts end the process; a run never persists partial progress.
	ctx := context.Background()

	run := func() {
		if err := cli.RunInteractive(ctx, config, logger, os.Stdin, os.Stdout); err != nil {
			log.Fatalln(err)
		}
	}

	handlers := cli.Handlers{
		Run: run,
		BuildIndex: func() {
			if err := cli.BuildIndex(ctx, config, logger); err != nil {
				log.Fatalln(err)
			}
		},
		Search: func() {
			if err := cli.SearchOnce(ctx, config, logger, os.Stdout); err != nil {
				log.Fatalln(err)
			}
		},
		RunServer: func() {
			app, err := cli.Start(ctx, config, logger, nil)
			if err != nil {
				log.Fatalln(err)
			}
			defer app.Close()

			if err := server.Run(config.Port, app, logger); err != nil {
				log.Println(err)
			}
		},
	}

	// Parse the command line arguments
	flagCtx := cli.DefineFlags(config, handlers)
	subcmd, err := flagCtx.Parse(os.Args)
	if err != nil {
		log.Fatalln(err)
	}

	// Without a subcommand, index and search interactively.
	if subcmd == nil {
		run()
		return
	}

	// Run the subcommand
	subcmd.Handler()
}
