package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/importer"
	"github.com/qatools/allure2testit/testit"
)

func (a *App) runImport(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.Insecure {
		a.logger.Warn().Msg("TLS certificate verification is disabled")
	}

	results, err := allure.LoadResults(a.logger, cfg.InputDir)
	if err != nil {
		return err
	}
	a.logger.Info().Int("tests", len(results)).Str("dir", cfg.InputDir).Msg("Loaded result files")

	client := testit.New(a.logger, cfg.URL, cfg.Token, testit.Options{
		InsecureSkipVerify: cfg.Insecure,
	})

	imp := importer.New(a.logger, client, importer.Config{
		InputDir:        cfg.InputDir,
		ProjectID:       cfg.ProjectID,
		ConfigurationID: cfg.ConfigurationID,
		TestRunName:     cfg.TestRunName,
	})

	return imp.Run(ctx.Context, results)
}
