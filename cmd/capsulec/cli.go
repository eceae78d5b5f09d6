package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/domain/composition"
	"github.com/GriffinCanCode/capsulec/internal/domain/orchestrator"
	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/domain/schema"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/config"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/export"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// jsonAPI keeps '<' and '>' in generated code readable
var jsonAPI = sonic.Config{SortMapKeys: true}.Froze()

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	if cfg == nil {
		cfg = config.Default()
	}
	app := &cli.App{
		Name:    "capsulec",
		Usage:   "Compile capsule compositions into web, iOS, Android and desktop projects",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "catalog", Aliases: []string{"c"}, Value: cfg.Catalog.Dir, Usage: "Capsule catalog directory"},
			&cli.StringFlag{Name: "pattern", Value: cfg.Catalog.Pattern, Usage: "Catalog file glob, relative to the catalog directory"},
			&cli.StringFlag{Name: "prop-mode", Value: cfg.Compile.PropMode, Usage: "Undeclared prop handling: strict|lenient"},
			&cli.StringFlag{Name: "log-level", Value: cfg.Logging.Level, Usage: "Log level: debug|info|warn|error"},
			&cli.BoolFlag{Name: "log-dev", Value: cfg.Logging.Development, Usage: "Human readable logs"},
		},
		Commands: []*cli.Command{
			compileCmd(cfg),
			validateCmd(cfg),
			catalogCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// session is everything one command invocation needs
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *monitoring.Metrics
	manager *registry.Manager
	seeder  *registry.Seeder
	report  *registry.LoadReport
}

// openSession builds the logger and loads the catalog
func openSession(c *cli.Context, cfg *config.Config) (*session, error) {
	logger, err := logging.New(logging.Config{
		Level:       c.String("log-level"),
		Development: c.Bool("log-dev"),
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	manager := registry.NewManager().WithLogger(logger.Logger).WithObserver(metrics)
	seeder := registry.NewSeeder(manager, c.String("catalog"), c.String("pattern")).
		WithLogger(logger.Logger).
		WithMaxFileSize(cfg.Catalog.MaxInputBytes)

	report, err := seeder.Load()
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		logger:  logger.Logger,
		metrics: metrics,
		manager: manager,
		seeder:  seeder,
		report:  report,
	}, nil
}

func (s *session) orchestrator(c *cli.Context) (*orchestrator.Orchestrator, error) {
	mode, err := schema.ParseMode(c.String("prop-mode"))
	if err != nil {
		return nil, err
	}
	hash, err := utils.ParseHashAlgorithm(s.cfg.Compile.Hash)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(s.manager, orchestrator.Options{
		Parallelism: s.cfg.Compile.Parallelism,
		CacheSize:   s.cfg.Compile.CacheSize,
		Hash:        hash,
		PropMode:    mode,
		Logger:      s.logger,
		Observer:    s.metrics,
	})
}

// readComposition parses the composition named by the first argument
func (s *session) readComposition(c *cli.Context) (*types.AppComposition, error) {
	if c.NArg() < 1 {
		return nil, fmt.Errorf("composition file is required")
	}
	return composition.NewParser(s.cfg.Catalog.MaxInputBytes).ParseFile(c.Args().First())
}

// compileSummary is the per-platform line of the compile output
type compileSummary struct {
	Platform     types.Platform     `json:"platform"`
	Status       types.Status       `json:"status"`
	Files        int                `json:"files"`
	Dependencies []types.Dependency `json:"dependencies"`
	Warnings     []*errors.Issue    `json:"warnings"`
	Errors       []*errors.Issue    `json:"errors"`
	Output       string             `json:"output,omitempty"`
}

// compileCmd creates the compile command.
func compileCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile a composition for its targets",
		ArgsUsage: "<composition>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "target", Aliases: []string{"t"}, Usage: "Target platform (repeatable); overrides the composition's targets"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: cfg.Output.Dir, Usage: "Output directory"},
			&cli.StringFlag{Name: "archive", Value: cfg.Output.Archive, Usage: "Pack each project: none|gzip|zstd"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Compile without writing files"},
			&cli.StringFlag{Name: "metrics-out", Usage: "Write Prometheus metrics to this file"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Value: cfg.Catalog.Watch, Usage: "Recompile whenever the catalog changes"},
		},
		Action: func(c *cli.Context) error {
			archive, err := export.ParseArchive(c.String("archive"))
			if err != nil {
				return outputError(err)
			}
			s, err := openSession(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer s.logger.Sync()

			app, err := s.readComposition(c)
			if err != nil {
				return outputError(err)
			}
			if targets := c.StringSlice("target"); len(targets) > 0 {
				app.Targets = make([]types.Platform, len(targets))
				for i, t := range targets {
					app.Targets[i] = types.Platform(t)
				}
			}

			orch, err := s.orchestrator(c)
			if err != nil {
				return outputError(err)
			}
			var writer *export.Writer
			if !c.Bool("dry-run") {
				writer = export.NewWriter(c.String("out"), archive, s.logger)
			}

			run := func() error {
				summaries, failed, err := compileOnce(orch, app, writer)
				if err != nil {
					return err
				}
				if err := outputJSON(c, summaries); err != nil {
					return err
				}
				if path := c.String("metrics-out"); path != "" {
					if err := s.metrics.WriteFile(path); err != nil {
						return err
					}
				}
				if failed && !c.Bool("watch") {
					return cli.Exit("one or more targets failed", 1)
				}
				return nil
			}

			if err := run(); err != nil {
				return outputError(err)
			}
			if !c.Bool("watch") {
				return nil
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, s, func(report *registry.LoadReport) {
				if err := run(); err != nil {
					s.logger.Error("Recompile failed", zap.Error(err))
				}
			})
		},
	}
}

// compileOnce validates and compiles app, writing every result through
// writer when one is given
func compileOnce(orch *orchestrator.Orchestrator, app *types.AppComposition, writer *export.Writer) ([]compileSummary, bool, error) {
	comp, err := orch.Build(app)
	if err != nil {
		return nil, false, err
	}

	results := orch.CompileAll(comp)
	summaries := make([]compileSummary, 0, len(results))
	failed := false
	for _, r := range results {
		summary := compileSummary{
			Platform:     r.Platform,
			Status:       r.Status,
			Files:        len(r.Files),
			Dependencies: r.Dependencies,
			Warnings:     r.Warnings,
			Errors:       r.Errors,
		}
		if r.Status == types.StatusFailed {
			failed = true
		} else if writer != nil && len(r.Files) > 0 {
			out, err := writer.Write(r)
			if err != nil {
				return nil, false, err
			}
			summary.Output = out.Path
		}
		summaries = append(summaries, summary)
	}
	return summaries, failed, nil
}

// validationReport is the output of the validate command
type validationReport struct {
	Valid     bool            `json:"valid"`
	Instances int             `json:"instances"`
	Issues    []*errors.Issue `json:"issues"`
}

// validateCmd creates the validate command.
func validateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a composition against the catalog",
		ArgsUsage: "<composition>",
		Action: func(c *cli.Context) error {
			s, err := openSession(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer s.logger.Sync()

			report := validationReport{Issues: []*errors.Issue{}}
			app, err := s.readComposition(c)
			if err == nil {
				var orch *orchestrator.Orchestrator
				if orch, err = s.orchestrator(c); err != nil {
					return outputError(err)
				}
				var comp *composition.Composition
				if comp, err = orch.Build(app); err == nil {
					report.Instances = comp.Len()
				}
			}

			if err != nil {
				issues := errors.Issues(err)
				if issues == nil {
					return outputError(err)
				}
				report.Issues = issues
			}
			report.Valid = len(report.Issues) == 0

			if err := outputJSON(c, report); err != nil {
				return err
			}
			if !report.Valid {
				return cli.Exit(fmt.Sprintf("%d issue(s) found", len(report.Issues)), 1)
			}
			return nil
		},
	}
}

// capsuleSummary is one line of catalog list
type capsuleSummary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Version   string           `json:"version"`
	Tags      []string         `json:"tags,omitempty"`
	Platforms []types.Platform `json:"platforms"`
}

// catalogCmd creates the catalog command group.
func catalogCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the capsule catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List capsules",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Only capsules in this category"},
					&cli.StringFlag{Name: "tag", Usage: "Only capsules carrying this tag"},
				},
				Action: func(c *cli.Context) error {
					s, err := openSession(c, cfg)
					if err != nil {
						return outputError(err)
					}
					snap := s.manager.Snapshot()

					var defs []*types.CapsuleDefinition
					switch {
					case c.String("category") != "":
						defs = snap.ListByCategory(c.String("category"))
					case c.String("tag") != "":
						defs = snap.ListByTag(c.String("tag"))
					default:
						defs = snap.List()
					}

					out := make([]capsuleSummary, 0, len(defs))
					for _, def := range defs {
						if tag := c.String("tag"); tag != "" && !def.HasTag(tag) {
							continue
						}
						out = append(out, capsuleSummary{
							ID:        def.ID,
							Name:      def.Name,
							Category:  def.Category,
							Version:   def.Version,
							Tags:      def.Tags,
							Platforms: def.SupportedPlatforms(),
						})
					}
					return outputJSON(c, out)
				},
			},
			{
				Name:      "show",
				Usage:     "Print one capsule definition",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(fmt.Errorf("capsule id is required"))
					}
					s, err := openSession(c, cfg)
					if err != nil {
						return outputError(err)
					}
					def, ok := s.manager.Get(c.Args().First())
					if !ok {
						return outputError(errors.NewNotFound(c.Args().First()))
					}
					return outputJSON(c, def)
				},
			},
			{
				Name:  "docs",
				Usage: "Render an HTML reference page for the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write the page to this file instead of stdout"},
					&cli.StringFlag{Name: "title", Value: "Capsule catalog", Usage: "Page title"},
				},
				Action: func(c *cli.Context) error {
					s, err := openSession(c, cfg)
					if err != nil {
						return outputError(err)
					}
					defs := s.manager.Snapshot().List()

					if c.String("out") == "" {
						if err := export.WriteCatalogHTML(c.App.Writer, c.String("title"), defs); err != nil {
							return outputError(err)
						}
						return nil
					}
					var buf bytes.Buffer
					if err := export.WriteCatalogHTML(&buf, c.String("title"), defs); err != nil {
						return outputError(err)
					}
					if err := os.WriteFile(c.String("out"), buf.Bytes(), 0o644); err != nil {
						return outputError(fmt.Errorf("failed to write docs: %w", err))
					}
					s.logger.Info("Catalog docs written",
						zap.String("path", c.String("out")),
						zap.Int("capsules", len(defs)),
					)
					return nil
				},
			},
			{
				Name:  "watch",
				Usage: "Reload the catalog whenever it changes, until interrupted",
				Action: func(c *cli.Context) error {
					s, err := openSession(c, cfg)
					if err != nil {
						return outputError(err)
					}
					defer s.logger.Sync()

					if err := outputJSON(c, s.manager.Stats()); err != nil {
						return err
					}
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return watch(ctx, s, func(*registry.LoadReport) {
						if err := outputJSON(c, s.manager.Stats()); err != nil {
							s.logger.Warn("Failed to print stats", zap.Error(err))
						}
					})
				},
			},
		},
	}
}

// watch reloads the catalog on change and calls fn after each successful
// reload, until ctx is done
func watch(ctx context.Context, s *session, fn func(*registry.LoadReport)) error {
	w := registry.NewWatcher(s.seeder).OnReload(func(report *registry.LoadReport, err error) {
		if err != nil {
			s.logger.Error("Catalog reload failed", zap.Error(err))
			return
		}
		fn(report)
	})
	if err := w.Run(ctx); err != nil {
		return outputError(err)
	}
	return nil
}

// outputJSON writes v as indented JSON to the app's writer.
func outputJSON(c *cli.Context, v any) error {
	out, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	if exit, ok := err.(cli.ExitCoder); ok {
		return exit
	}
	if issues := errors.Issues(err); len(issues) > 0 {
		lines := make([]string, len(issues))
		for i, issue := range issues {
			lines[i] = fmt.Sprintf("[%s] %s", issue.Code, issue.Message)
		}
		return cli.Exit(strings.Join(lines, "\n"), 1)
	}
	return cli.Exit(err.Error(), 1)
}
