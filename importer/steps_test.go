package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/testit"
)

func TestTranslateSteps_Empty(t *testing.T) {
	imp := newTestImporter(t, newFakeAPI())

	specs, results, err := imp.translateSteps(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, specs)
	require.Empty(t, results)
}

func TestTranslateSteps_Nested(t *testing.T) {
	imp := newTestImporter(t, newFakeAPI())

	steps := []allure.Step{
		{
			Name:   "Login",
			Status: "passed",
			Start:  1000,
			Stop:   1400,
			Steps: []allure.Step{
				{Name: "Open page", Status: "passed", Start: 1000, Stop: 1100},
				{Name: "Submit form", Status: "broken", Start: 1100, Stop: 1400},
			},
		},
		{
			Name:   "Check inbox",
			Status: "skipped",
			Parameters: []allure.Parameter{
				{Name: "mailbox", Value: "primary"},
				{Name: "retries", Value: "1"},
				{Name: "retries", Value: "3"},
			},
		},
	}

	specs, results, err := imp.translateSteps(context.Background(), steps)
	require.NoError(t, err)

	wantSpecs := []testit.StepSpec{
		{
			Title: "Login",
			Steps: []testit.StepSpec{
				{Title: "Open page"},
				{Title: "Submit form"},
			},
		},
		{Title: "Check inbox"},
	}
	if diff := cmp.Diff(wantSpecs, specs, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("step specs mismatch (-want +got):\n%s", diff)
	}

	wantResults := []testit.StepResult{
		{
			Title:    "Login",
			Outcome:  testit.OutcomePassed,
			Duration: 400,
			StepResults: []testit.StepResult{
				{Title: "Open page", Outcome: testit.OutcomePassed, Duration: 100},
				{Title: "Submit form", Outcome: testit.OutcomeFailed, Duration: 300},
			},
		},
		{
			Title:   "Check inbox",
			Outcome: testit.OutcomeSkipped,
			// Later duplicate parameter wins.
			Parameters: map[string]string{"mailbox": "primary", "retries": "3"},
		},
	}
	if diff := cmp.Diff(wantResults, results, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("step results mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSteps_DropsUnnamedSubtree(t *testing.T) {
	api := newFakeAPI()
	imp := newTestImporter(t, api)

	// The unnamed step's attachment exists on disk; it must still never be
	// uploaded because the subtree is not visited.
	require.NoError(t, os.WriteFile(filepath.Join(imp.cfg.InputDir, "hidden.txt"), []byte("data"), 0644))

	steps := []allure.Step{
		{Name: "Visible", Status: "passed"},
		{
			Name:        "",
			Status:      "passed",
			Attachments: []allure.Attachment{{Source: "hidden.txt", Type: "text/plain"}},
			Steps:       []allure.Step{{Name: "Nested under unnamed", Status: "passed"}},
		},
	}

	specs, results, err := imp.translateSteps(context.Background(), steps)
	require.NoError(t, err)

	require.Len(t, specs, 1)
	require.Len(t, results, 1)
	require.Equal(t, "Visible", specs[0].Title)
	require.Empty(t, api.uploaded)
}

func TestTranslateSteps_UploadsStepAttachmentsInOrder(t *testing.T) {
	api := newFakeAPI()
	imp := newTestImporter(t, api)

	for _, name := range []string{"first.txt", "second.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(imp.cfg.InputDir, name), []byte("x"), 0644))
	}

	steps := []allure.Step{
		{
			Name:   "Step with files",
			Status: "passed",
			Attachments: []allure.Attachment{
				{Source: "first.txt", Type: "text/plain"},
				{Source: "second.txt", Type: "text/plain"},
			},
		},
	}

	_, results, err := imp.translateSteps(context.Background(), steps)
	require.NoError(t, err)

	require.Equal(t, []string{"first.txt", "second.txt"}, api.uploaded)
	require.Equal(t, []testit.AttachmentRef{{ID: "ref-first.txt"}, {ID: "ref-second.txt"}}, results[0].Attachments)
}

func TestTranslateSteps_UploadFailureAborts(t *testing.T) {
	api := newFakeAPI()
	api.uploadErr = &testit.RemoteError{StatusCode: 500, Body: "storage down"}
	imp := newTestImporter(t, api)

	require.NoError(t, os.WriteFile(filepath.Join(imp.cfg.InputDir, "file.txt"), []byte("x"), 0644))

	steps := []allure.Step{
		{
			Name:        "Step",
			Status:      "passed",
			Attachments: []allure.Attachment{{Source: "file.txt", Type: "text/plain"}},
		},
	}

	_, _, err := imp.translateSteps(context.Background(), steps)
	var remoteErr *testit.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, 500, remoteErr.StatusCode)
}
