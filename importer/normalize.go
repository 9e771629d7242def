package importer

import (
	"time"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/testit"
)

// MapStatus converts the open Allure status vocabulary into the service's
// closed outcome set. A missing status means the adapter never got to run
// the test, hence Blocked; every unrecognized value lands in Failed.
func MapStatus(status string) testit.Outcome {
	switch status {
	case "":
		return testit.OutcomeBlocked
	case allure.StatusPassed:
		return testit.OutcomePassed
	case allure.StatusSkipped:
		return testit.OutcomeSkipped
	default:
		return testit.OutcomeFailed
	}
}

// TimeFromMillis converts an epoch-millisecond value to an absolute
// timestamp. Zero means "not recorded" and maps to nil, never to the epoch
// itself.
func TimeFromMillis(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

// DurationBetween returns stop-start in milliseconds, or 0 when either end
// is unrecorded. A stop before start passes through as a negative value.
func DurationBetween(start, stop int64) int64 {
	if start == 0 || stop == 0 {
		return 0
	}
	return stop - start
}
