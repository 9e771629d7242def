package importer

import (
	"context"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/testit"
)

// translateSteps converts a step tree into its two target shapes: the
// structural step specs and the per-step results. Both outputs carry the
// same titles in the same order. A step without a name is dropped together
// with its entire subtree.
func (imp *Importer) translateSteps(ctx context.Context, steps []allure.Step) ([]testit.StepSpec, []testit.StepResult, error) {
	specs := make([]testit.StepSpec, 0, len(steps))
	results := make([]testit.StepResult, 0, len(steps))

	for _, step := range steps {
		if step.Name == "" {
			imp.logger.Debug().Msg("Dropping unnamed step and its subtree")
			continue
		}

		childSpecs, childResults, err := imp.translateSteps(ctx, step.Steps)
		if err != nil {
			return nil, nil, err
		}

		attachments, err := imp.uploadAttachments(ctx, step.Attachments)
		if err != nil {
			return nil, nil, err
		}

		specs = append(specs, testit.StepSpec{
			Title: step.Name,
			Steps: childSpecs,
		})
		results = append(results, testit.StepResult{
			Title:       step.Name,
			Outcome:     MapStatus(step.Status),
			Duration:    DurationBetween(step.Start, step.Stop),
			Parameters:  parameterMap(step.Parameters),
			Attachments: attachments,
			StepResults: childResults,
		})
	}

	return specs, results, nil
}

// parameterMap flattens the ordered parameter list into a mapping. A later
// duplicate name overwrites an earlier one.
func parameterMap(params []allure.Parameter) map[string]string {
	if len(params) == 0 {
		return nil
	}
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Name] = p.Value
	}
	return m
}
