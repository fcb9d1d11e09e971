package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
	internalcli "github.com/themizzi/storefront-e2e/internal/cli"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/database"
	"github.com/themizzi/storefront-e2e/internal/handlers"
	"github.com/themizzi/storefront-e2e/internal/logging"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/scenarios"
	"github.com/themizzi/storefront-e2e/internal/services"
	"github.com/themizzi/storefront-e2e/internal/session"
)

var version = "0.1.0"

// flagEnv maps flags that override environment variables
var flagEnv = map[string]string{
	"base-url":       "BASE_URL",
	"browser":        "BROWSER",
	"headless":       "HEADLESS",
	"slow-mo":        "SLOW_MO",
	"action-timeout": "ACTION_TIMEOUT",
	"storage-state":  "STORAGE_STATE",
	"workers":        "WORKERS",
	"log-level":      "LOG_LEVEL",
	"log-format":     "LOG_FORMAT",
	"log-file":       "LOG_FILE",
	"port":           "PORT",
}

// getenvFor overlays the flags set on the command line on os.Getenv
func getenvFor(c *cli.Context) func(string) string {
	overrides := make(map[string]string)
	for name, key := range flagEnv {
		if c.IsSet(name) {
			overrides[key] = c.String(name)
		}
	}
	return func(key string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return os.Getenv(key)
	}
}

var loggingFlags = []cli.Flag{
	&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
	&cli.StringFlag{Name: "log-format", Usage: "console or json"},
	&cli.StringFlag{Name: "log-file", Usage: "also write JSON logs to this rotated file"},
}

var browserFlags = []cli.Flag{
	&cli.StringFlag{Name: "base-url", Usage: "storefront base URL"},
	&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
	&cli.BoolFlag{Name: "headless", Usage: "run the browser without a window", Value: true},
	&cli.DurationFlag{Name: "slow-mo", Usage: "delay between browser operations"},
	&cli.DurationFlag{Name: "action-timeout", Usage: "bound on every page interaction"},
	&cli.StringFlag{Name: "storage-state", Usage: "session state file"},
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// newLogger builds the console logger and installs it as the zap global
func newLogger(getenv func(string) string) (*zap.Logger, func(), error) {
	logCfg, err := config.LoadLoggingConfig(getenv)
	if err != nil {
		return nil, nil, err
	}
	logger, cleanup, err := logging.NewConsole(logCfg)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return logger, func() {
		restore()
		cleanup()
	}, nil
}

// newRuntime launches the configured browser
func newRuntime(cfg *config.SuiteConfig, logger *zap.Logger) (*browser.PlaywrightRuntime, error) {
	return browser.NewPlaywrightRuntime(browser.PlaywrightConfig{
		BaseURL:       cfg.BaseURL,
		Browser:       cfg.Browser,
		Headless:      cfg.Headless,
		SlowMo:        cfg.SlowMo,
		ActionTimeout: cfg.ActionTimeout,
	}, logger)
}

// openLedger connects to Postgres when it is configured and falls back to
// an in-process ledger otherwise. The returned func closes the connection.
func openLedger(getenv func(string) string, logger *zap.Logger) (services.RunRepository, func(), error) {
	if !database.Configured(getenv) {
		logger.Debug("POSTGRES_HOSTNAME not set, recording runs in memory")
		return repository.NewMemoryRunRepository(), func() {}, nil
	}

	if err := database.ConnectWith(getenv); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Connected to run ledger")
	return repository.NewRunRepository(), func() { database.Close() }, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// SetupCommand returns the setup command
func SetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Log in once and save the session state",
		Flags: withFlags(loggingFlags, browserFlags, []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "log in even when the saved state is fresh"},
		}),
		Action: func(c *cli.Context) error {
			getenv := getenvFor(c)
			logger, cleanup, err := newLogger(getenv)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg, err := config.LoadSuiteConfig(getenv)
			if err != nil {
				return err
			}
			runtime, err := newRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			ctx, stop := signalContext()
			defer stop()

			b := session.NewBootstrap(runtime, config.LoadCredentials(getenv), cfg, logger)
			return internalcli.RunSetup(ctx, b, c.Bool("force"), c.App.Writer)
		},
	}
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios against the storefront",
		Flags: withFlags(loggingFlags, browserFlags, []cli.Flag{
			&cli.StringSliceFlag{Name: "suite", Aliases: []string{"s"}, Usage: "run every scenario of this suite (repeatable)"},
			&cli.StringSliceFlag{Name: "scenario", Aliases: []string{"n"}, Usage: "run the scenario with this name (repeatable)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "scenarios run in parallel"},
		}),
		Action: func(c *cli.Context) error {
			getenv := getenvFor(c)
			logger, cleanup, err := newLogger(getenv)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := scenarios.Select(c.StringSlice("scenario"), c.StringSlice("suite"))
			if err != nil {
				return err
			}

			cfg, err := config.LoadSuiteConfig(getenv)
			if err != nil {
				return err
			}
			creds := config.LoadCredentials(getenv)

			repo, closeLedger, err := openLedger(getenv, logger)
			if err != nil {
				return err
			}
			defer closeLedger()

			runtime, err := newRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			ctx, stop := signalContext()
			defer stop()

			b := session.NewBootstrap(runtime, creds, cfg, logger)
			runner := services.NewSuiteRunner(runtime, services.NewRunService(repo), creds, cfg, logger)
			_, err = internalcli.RunSuite(ctx, b, runner, list, c.App.Writer)
			return err
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List scenarios, or recorded runs with --runs",
		Flags: withFlags(loggingFlags, []cli.Flag{
			&cli.StringSliceFlag{Name: "suite", Aliases: []string{"s"}, Usage: "only scenarios of this suite"},
			&cli.BoolFlag{Name: "runs", Usage: "list recorded runs instead of scenarios"},
			&cli.StringFlag{Name: "run-id", Usage: "list the scenarios of one suite run"},
			&cli.IntFlag{Name: "limit", Usage: "maximum number of runs", Value: 20},
		}),
		Action: func(c *cli.Context) error {
			if !c.Bool("runs") && !c.IsSet("run-id") {
				list, err := scenarios.Select(nil, c.StringSlice("suite"))
				if err != nil {
					return err
				}
				internalcli.WriteScenarios(c.App.Writer, list)
				return nil
			}

			getenv := getenvFor(c)
			logger, cleanup, err := newLogger(getenv)
			if err != nil {
				return err
			}
			defer cleanup()

			if !database.Configured(getenv) {
				return fmt.Errorf("listing runs needs the Postgres ledger: POSTGRES_HOSTNAME is required")
			}
			repo, closeLedger, err := openLedger(getenv, logger)
			if err != nil {
				return err
			}
			defer closeLedger()

			svc := services.NewRunService(repo)
			var runs []*models.ScenarioRun
			if id := c.String("run-id"); id != "" {
				runs, err = svc.RunsFor(id)
			} else {
				runs, err = svc.RecentRuns(c.Int("limit"))
			}
			if err != nil {
				return err
			}
			internalcli.WriteRuns(c.App.Writer, runs)
			return nil
		},
	}
}

// ReportCommand returns the report command
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Serve the run ledger over HTTP",
		Flags: withFlags(loggingFlags, []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port"},
			&cli.StringFlag{Name: "templates", Usage: "template directory", Value: "templates"},
		}),
		Action: func(c *cli.Context) error {
			getenv := getenvFor(c)
			logger, cleanup, err := newLogger(getenv)
			if err != nil {
				return err
			}
			defer cleanup()

			if !database.Configured(getenv) {
				return fmt.Errorf("the report server needs the Postgres ledger: POSTGRES_HOSTNAME is required")
			}
			repo, closeLedger, err := openLedger(getenv, logger)
			if err != nil {
				return err
			}
			defer closeLedger()

			runsHandler, err := handlers.NewRunsHandler(c.String("templates")+"/runs.html", services.NewRunService(repo))
			if err != nil {
				return fmt.Errorf("failed to create runs handler: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: config.LoadServerConfig(getenv),
				RunsHandler:  runsHandler,
				Logger:       logger,
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storefront-e2e",
		Usage:   "End-to-end checks for the demo storefront",
		Version: version,
		Commands: []*cli.Command{
			SetupCommand(),
			RunCommand(),
			ListCommand(),
			ReportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
