package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "allure2testit"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
	}
	app.cli = &cli.App{
		Name:      AppName,
		Usage:     "Import an Allure results directory into a TestIT test run",
		ArgsUsage: "[INPUT_DIR URL TOKEN PROJECT_ID CONFIGURATION_ID TEST_RUN_NAME]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file with connection settings",
			},
			&cli.StringFlag{
				Name:    "input-dir",
				Aliases: []string{"i"},
				Usage:   "Allure results directory",
				EnvVars: []string{"ALLURE_RESULTS_DIR"},
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "TestIT instance URL",
				EnvVars: []string{"TESTIT_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "TestIT private token",
				EnvVars: []string{"TESTIT_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "project-id",
				Usage:   "Target project id",
				EnvVars: []string{"TESTIT_PROJECT_ID"},
			},
			&cli.StringFlag{
				Name:    "configuration-id",
				Usage:   "Configuration id attached to submitted results",
				EnvVars: []string{"TESTIT_CONFIGURATION_ID"},
			},
			&cli.StringFlag{
				Name:    "test-run-name",
				Usage:   "Name of the test run to create or reuse (generated when empty)",
				EnvVars: []string{"TESTIT_TEST_RUN_NAME"},
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Usage:   "Disable TLS certificate verification",
				EnvVars: []string{"TESTIT_INSECURE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Action: app.runImport,
	}
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}
}
