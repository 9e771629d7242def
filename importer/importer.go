package importer

// This file drives one import invocation: resolve the test run once, then
// replay every loaded record into the service, strictly in order.

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/testit"
)

// API is the slice of the remote client the importer depends on.
type API interface {
	SearchTestRuns(ctx context.Context, projectID string) ([]testit.TestRun, error)
	CreateTestRun(ctx context.Context, projectID, name string) (testit.TestRun, error)
	SearchAutoTests(ctx context.Context, projectID, externalID string) ([]testit.AutoTest, error)
	CreateAutoTest(ctx context.Context, create testit.AutoTestCreate) (testit.AutoTest, error)
	UpdateAutoTest(ctx context.Context, update testit.AutoTestUpdate) error
	AddTestResults(ctx context.Context, runID string, results []testit.TestResult) error
	UploadAttachment(ctx context.Context, path, contentType string) (testit.AttachmentRef, error)
}

// Config identifies where records come from and where they go.
type Config struct {
	// InputDir is the Allure results directory; attachment sources resolve
	// against it.
	InputDir string
	// ProjectID is the target project.
	ProjectID string
	// ConfigurationID is attached to every submitted result.
	ConfigurationID string
	// TestRunName names the run that collects this invocation's results.
	TestRunName string
}

// Importer replays loaded Allure records into the service.
type Importer struct {
	logger zerolog.Logger
	client API
	cfg    Config
}

func New(logger zerolog.Logger, client API, cfg Config) *Importer {
	return &Importer{
		logger: logger,
		client: client,
		cfg:    cfg,
	}
}

// Run resolves the test run, then imports every record sequentially. The
// first remote failure aborts the whole invocation; records committed
// before the failure stay committed.
func (imp *Importer) Run(ctx context.Context, results []allure.Result) error {
	run, err := imp.resolveRun(ctx)
	if err != nil {
		return err
	}

	for _, result := range results {
		if err := imp.importResult(ctx, run.ID, result); err != nil {
			return fmt.Errorf("failed to import %q: %w", result.Name, err)
		}
	}

	imp.logger.Info().Int("tests", len(results)).Str("run", run.Name).Msg("Import finished")
	return nil
}

// resolveRun finds the run named cfg.TestRunName in the project, creating
// it when no exact name match exists. Called exactly once per invocation.
func (imp *Importer) resolveRun(ctx context.Context) (testit.TestRun, error) {
	runs, err := imp.client.SearchTestRuns(ctx, imp.cfg.ProjectID)
	if err != nil {
		return testit.TestRun{}, fmt.Errorf("failed to search test runs: %w", err)
	}

	for _, run := range runs {
		if run.Name == imp.cfg.TestRunName {
			imp.logger.Debug().Str("id", run.ID).Str("name", run.Name).Msg("Using existing test run")
			return run, nil
		}
	}

	run, err := imp.client.CreateTestRun(ctx, imp.cfg.ProjectID, imp.cfg.TestRunName)
	if err != nil {
		return testit.TestRun{}, fmt.Errorf("failed to create test run %q: %w", imp.cfg.TestRunName, err)
	}
	imp.logger.Info().Str("id", run.ID).Str("name", imp.cfg.TestRunName).Msg("Created test run")
	return run, nil
}

func (imp *Importer) importResult(ctx context.Context, runID string, result allure.Result) error {
	imp.logger.Info().Str("name", result.Name).Str("historyId", result.HistoryID).Msg("Importing test")

	stepSpecs, stepResults, err := imp.translateSteps(ctx, result.Steps)
	if err != nil {
		return err
	}

	attachments, err := imp.uploadAttachments(ctx, result.Attachments)
	if err != nil {
		return err
	}

	outcome := MapStatus(result.Status)
	duration := DurationBetween(result.Start, result.Stop)

	if err := imp.syncAutoTest(ctx, result, stepSpecs, stepResults, outcome, duration); err != nil {
		return err
	}

	testResult := testit.TestResult{
		ConfigurationID:    imp.cfg.ConfigurationID,
		AutoTestExternalID: result.HistoryID,
		Outcome:            outcome,
		Duration:           duration,
		StartedOn:          TimeFromMillis(result.Start),
		CompletedOn:        TimeFromMillis(result.Stop),
		StepResults:        stepResults,
		Attachments:        attachments,
		Message:            result.StatusDetails.Message,
		Traces:             result.StatusDetails.Trace,
	}
	if err := imp.client.AddTestResults(ctx, runID, []testit.TestResult{testResult}); err != nil {
		return fmt.Errorf("failed to add result to run: %w", err)
	}
	return nil
}

// syncAutoTest creates or updates the autotest matching the record's
// historyId. Updates replace definition fields only; the execution outcome
// travels on the create payload and on the appended test result.
func (imp *Importer) syncAutoTest(ctx context.Context, result allure.Result, stepSpecs []testit.StepSpec, stepResults []testit.StepResult, outcome testit.Outcome, duration int64) error {
	existing, err := imp.client.SearchAutoTests(ctx, imp.cfg.ProjectID, result.HistoryID)
	if err != nil {
		return fmt.Errorf("failed to search autotests: %w", err)
	}

	namespace := result.LabelValue("package")
	classname := result.LabelValue("testClass")

	if len(existing) > 0 {
		// The service does not enforce externalId uniqueness; on an
		// ambiguous match the first returned element wins.
		update := testit.AutoTestUpdate{
			ID:         existing[0].ID,
			ExternalID: result.HistoryID,
			ProjectID:  imp.cfg.ProjectID,
			Name:       result.Name,
			Namespace:  namespace,
			Classname:  classname,
			Steps:      stepSpecs,
		}
		if err := imp.client.UpdateAutoTest(ctx, update); err != nil {
			return fmt.Errorf("failed to update autotest: %w", err)
		}
		imp.logger.Debug().Str("id", existing[0].ID).Msg("Updated autotest")
		return nil
	}

	create := testit.AutoTestCreate{
		ExternalID:      result.HistoryID,
		ProjectID:       imp.cfg.ProjectID,
		Name:            result.Name,
		Namespace:       namespace,
		Classname:       classname,
		Steps:           stepSpecs,
		ConfigurationID: imp.cfg.ConfigurationID,
		Outcome:         outcome,
		Duration:        duration,
		StartedOn:       TimeFromMillis(result.Start),
		CompletedOn:     TimeFromMillis(result.Stop),
		StepResults:     stepResults,
	}
	created, err := imp.client.CreateAutoTest(ctx, create)
	if err != nil {
		return fmt.Errorf("failed to create autotest: %w", err)
	}
	imp.logger.Debug().Str("id", created.ID).Msg("Created autotest")
	return nil
}
