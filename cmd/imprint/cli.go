package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/imprint/internal/config"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/ops"
	"github.com/hpungsan/imprint/internal/settings"
	"github.com/hpungsan/imprint/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config, store *settings.Store, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "imprint",
		Usage:   "Local typed-input capture and review",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(database, cfg, store),
			listCmd(database),
			statsCmd(database),
			starCmd(database),
			tagCmd(database),
			tagsCmd(database),
			deleteCmd(database),
			exportCmd(database, store, baseDir),
			purgeCmd(database),
			sweepCmd(database, store),
			clearCmd(database, store),
			settingsCmd(store),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd runs the HTTP API that the capture side talks to.
func serveCmd(database *sql.DB, cfg *config.Config, store *settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the imprint API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			log := newLogger(cfg.LogLevel)

			bind := cfg.Bind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			cache, err := settings.NewCache(store, log)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer cache.Close()

			// Retention sweep at startup; the CLI sweep command covers the rest.
			if days := cache.Current().RetentionDays; days > 0 {
				result, err := ops.Sweep(database, ops.SweepInput{RetentionDays: days})
				if err != nil {
					log.WithError(err).Warn("retention sweep failed")
				} else if result.Swept > 0 {
					log.WithField("swept", result.Swept).Info("retention sweep")
				}
			}

			srv := web.NewServer(database, store, cache, log, bind, port)
			return web.Run(srv, log)
		},
	}
}

// listCmd lists records with the store's filter options.
func listCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List captured records",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "domain", Aliases: []string{"d"}, Usage: "Exact domain filter"},
			&cli.BoolFlag{Name: "starred", Usage: "Only starred records"},
			&cli.StringFlag{Name: "tag", Usage: "Tag membership filter"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Content substring search (case-insensitive)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max records to return"},
			&cli.IntFlag{Name: "offset", Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Starred: c.Bool("starred"),
				Limit:   c.Int("limit"),
				Offset:  c.Int("offset"),
			}
			if d := c.String("domain"); d != "" {
				input.Domain = &d
			}
			if t := c.String("tag"); t != "" {
				input.Tag = &t
			}
			if s := c.String("search"); s != "" {
				input.Search = &s
			}

			output, err := ops.List(database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statsCmd prints the aggregate snapshot.
func statsCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show capture statistics",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(database)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// starCmd toggles a record's star flag.
func starCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "star",
		Usage:     "Toggle a record's star",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.ToggleStar(database, ops.ToggleStarInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// tagCmd mutates a record's tag set.
func tagCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Add or remove a tag on a record",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a tag name to a record",
				ArgsUsage: "<record-id> <tag-name>",
				Action: func(c *cli.Context) error {
					output, err := ops.AddTag(database, ops.TagRecordInput{
						RecordID: c.Args().Get(0),
						Tag:      c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a tag name from a record",
				ArgsUsage: "<record-id> <tag-name>",
				Action: func(c *cli.Context) error {
					output, err := ops.RemoveTag(database, ops.TagRecordInput{
						RecordID: c.Args().Get(0),
						Tag:      c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// tagsCmd manages tag entities.
func tagsCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Manage tags",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all tags",
				Action: func(c *cli.Context) error {
					output, err := ops.ListTags(database)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a tag",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Usage: "Hex color (defaults to the palette)"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.CreateTag(database, ops.CreateTagInput{
						Name:  c.Args().First(),
						Color: c.String("color"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a tag (records keep the name)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteTag(database, ops.DeleteTagInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// deleteCmd soft- or hard-deletes a record.
func deleteCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a record (soft by default)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hard", Usage: "Remove the record permanently"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(database, ops.DeleteInput{
				ID:   c.Args().First(),
				Hard: c.Bool("hard"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd writes the full backup document to a file.
func exportCmd(database *sql.DB, store *settings.Store, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all data (records, tags, settings) to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Output path (default: exports dir)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ExportToFile(database, store, baseDir, c.String("path"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// purgeCmd removes soft-deleted records for good.
func purgeCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently remove soft-deleted records",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "older-than", Usage: "Only purge records soft-deleted more than N days ago"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}
			if c.IsSet("older-than") {
				days := c.Int("older-than")
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// sweepCmd runs the retention sweep using the configured retention period.
func sweepCmd(database *sql.DB, store *settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Remove records older than the configured retention period",
		Action: func(c *cli.Context) error {
			cfg, err := store.Load()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Sweep(database, ops.SweepInput{RetentionDays: cfg.RetentionDays})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// clearCmd wipes everything.
func clearCmd(database *sql.DB, store *settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove all records and tags and reset settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "Skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("pass --yes to confirm clearing all data"))
			}

			output, err := ops.Clear(database, store)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// settingsCmd shows and edits the persisted settings slot.
func settingsCmd(store *settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change capture settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print current settings",
				Action: func(c *cli.Context) error {
					cfg, err := store.Load()
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(cfg)
				},
			},
			{
				Name:  "set",
				Usage: "Update settings (unset flags keep their current value)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "enabled", Usage: "Enable or disable capture"},
					&cli.StringFlag{Name: "whitelist", Usage: "Comma-separated whitelist domains (empty = all)"},
					&cli.StringFlag{Name: "blacklist", Usage: "Comma-separated blacklist domains"},
					&cli.IntFlag{Name: "retention-days", Usage: "Retention period in days (0 = keep forever)"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := store.Load()
					if err != nil {
						return outputError(errors.NewInternal(err))
					}

					if c.IsSet("enabled") {
						cfg.Enabled = c.Bool("enabled")
					}
					if c.IsSet("whitelist") {
						cfg.WhitelistDomains = parseDomains(c.String("whitelist"))
					}
					if c.IsSet("blacklist") {
						cfg.BlacklistDomains = parseDomains(c.String("blacklist"))
					}
					if c.IsSet("retention-days") {
						days := c.Int("retention-days")
						if days < 0 {
							return outputError(errors.NewInvalidRequest("retention-days must not be negative"))
						}
						cfg.RetentionDays = days
					}

					if err := store.Save(cfg); err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(cfg)
				},
			},
		},
	}
}

// newLogger builds the serve-mode logger.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// outputJSON prints a value as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if iErr, ok := err.(*errors.ImprintError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", iErr.Code, iErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseDomains splits a comma-separated domain list.
func parseDomains(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		d := strings.TrimSpace(p)
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
