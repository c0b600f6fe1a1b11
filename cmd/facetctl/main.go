package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/facetdex/internal/version"
	facetdex "github.com/kailas-cloud/facetdex/pkg/sdk"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "facetctl",
		Usage:   "Operate and query a facetdex catalog server",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "facetdex server base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"FACETDEX_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Bearer token for write commands",
				EnvVars: []string{"FACETDEX_API_KEY"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: 10 * time.Second,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import projects from a YAML or JSON file",
				ArgsUsage: "FILE",
				Action:    importCommand,
			},
			{
				Name:   "list",
				Usage:  "List all projects",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "Sort key (default, most-recent)"},
				},
			},
			{
				Name:      "search",
				Usage:     "Search projects by any field",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
			},
			{
				Name:   "catalog",
				Usage:  "Render one page of the filtered catalog",
				Action: catalogCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text filter"},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Selected tag as kind:id (repeatable)"},
					&cli.StringFlag{Name: "sort", Usage: "Sort key (default, most-recent)"},
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Page number", Value: 1},
					&cli.IntFlag{Name: "width", Usage: "Viewport width in pixels; selects the page size"},
					&cli.IntFlag{Name: "per-page", Usage: "Explicit page size; wins over --width"},
				},
			},
			{
				Name:      "facets",
				Usage:     "Browse the tags of one facet grouped by letter",
				ArgsUsage: "KIND",
				Action:    facetsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Substring filter on tag names"},
					&cli.StringFlag{Name: "letter", Usage: "Show one letter group only"},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Selected tag as kind:id (repeatable)"},
				},
			},
			{
				Name:      "typeahead",
				Usage:     "Resolve suggestions; with --interactive, read keystrokes from stdin",
				ArgsUsage: "[QUERY]",
				Action:    typeaheadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "narrow", Usage: "Narrow to projects carrying a techstack:id or feature:id"},
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Read queries line by line; #N selects a suggestion, ! dismisses"},
					&cli.DurationFlag{Name: "debounce", Usage: "Typeahead quiet period", Value: 300 * time.Millisecond},
				},
			},
			{
				Name:   "health",
				Usage:  "Show server health",
				Action: healthCommand,
			},
		},
	}
}

func newClient(c *cli.Context, opts ...facetdex.Option) (*facetdex.Client, error) {
	opts = append([]facetdex.Option{
		facetdex.WithAPIKey(c.String("api-key")),
		facetdex.WithTimeout(c.Duration("timeout")),
		facetdex.WithLogger(slog.Default()),
	}, opts...)
	client, err := facetdex.New(c.String("server"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
