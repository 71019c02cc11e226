package cli

import (
	"github.com/abiiranathan/goflag"
)

// Handlers are the subcommand entry points wired by DefineFlags.
type Handlers struct {
	Run        func() // index then interactive loop
	BuildIndex func() // index only
	Search     func() // index then a single query
	RunServer  func() // index then HTTP search
}

func DefineFlags(config *Config, h Handlers) *goflag.Context {
	// Flags shared by several subcommands.
	directoryFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "directory",
		ShortName: "d",
		Value:     &config.Directory,
		Usage:     "The directory of PDFs to index (one level of subfolders)",
		Required:  false,
		Validator: nil,
	}

	dataFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "data",
		ShortName: "D",
		Value:     &config.DataDir,
		Usage:     "The directory holding the persisted index",
		Required:  false,
		Validator: nil,
	}

	backendFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "backend",
		ShortName: "b",
		Value:     &config.Backend,
		Usage:     "Index store backend: json or sqlite",
		Required:  false,
		Validator: nil,
	}

	outputFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "output",
		ShortName: "o",
		Value:     &config.Output,
		Usage:     "The markdown file to write results to",
		Required:  false,
		Validator: nil,
	}

	topFlag := goflag.Flag{
		FlagType:  goflag.FlagInt,
		Name:      "top",
		ShortName: "n",
		Value:     &config.Top,
		Usage:     "Maximum number of results per query (0 for all)",
		Required:  false,
		Validator: nil,
	}

	patternFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "pattern",
		ShortName: "p",
		Value:     &config.Pattern,
		Usage:     "The search query",
		Required:  true,
		Validator: nil,
	}

	// Create flag context.
	ctx := goflag.NewContext()

	// global flags
	ctx.AddFlag(goflag.FlagInt, "concurrency", "c",
		&config.Workers,
		"No of PDFs extracted at once while indexing",
		false, goflag.Min(1), goflag.Max(100))

	// register subcommands
	ctx.AddSubCommand("run", "Index new PDFs then search interactively (default)", h.Run).
		AddFlagPtr(&directoryFlag).
		AddFlagPtr(&dataFlag).
		AddFlagPtr(&backendFlag).
		AddFlagPtr(&outputFlag).
		AddFlagPtr(&topFlag)

	ctx.AddSubCommand("build_index", "Index new PDFs and exit", h.BuildIndex).
		AddFlagPtr(&directoryFlag).
		AddFlagPtr(&dataFlag).
		AddFlagPtr(&backendFlag)

	ctx.AddSubCommand("search", "Index new PDFs then run a single query", h.Search).
		AddFlagPtr(&patternFlag).
		AddFlagPtr(&directoryFlag).
		AddFlagPtr(&dataFlag).
		AddFlagPtr(&backendFlag).
		AddFlagPtr(&outputFlag).
		AddFlagPtr(&topFlag)

	ctx.AddSubCommand("runserver", "Index new PDFs then serve search over HTTP", h.RunServer).
		AddFlag(goflag.FlagInt, "port", "P", &config.Port, "The port to run the server on", false).
		AddFlagPtr(&directoryFlag).
		AddFlagPtr(&dataFlag).
		AddFlagPtr(&backendFlag)

	return ctx
}
