package allure

// This file loads an Allure results directory: every immediate *-result.json
// entry is parsed, unparseable files are logged and skipped, and the
// surviving records are ordered and de-duplicated by historyId.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// ResultFileSuffix is the naming convention Allure adapters use for test
// result files.
const ResultFileSuffix = "-result.json"

var (
	// ErrDirNotFound reports a results directory that does not exist.
	ErrDirNotFound = errors.New("results directory not found")
	// ErrNoResults reports a directory with no parseable result files.
	ErrNoResults = errors.New("no result files found")
)

// LoadResults reads every result file in dir and returns one record per
// historyId.
//
// Records are sorted by ascending start time (missing start sorts as 0,
// ties keep directory enumeration order). When two files share a historyId
// the record sorted later wins, but it keeps the position where that
// historyId first appeared. The returned order is the processing order for
// the whole import.
//
// A file that fails to parse is logged and excluded; the parse errors are
// only surfaced when nothing at all survives, aggregated behind
// ErrNoResults.
func LoadResults(logger zerolog.Logger, dir string) ([]Result, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return nil, fmt.Errorf("failed to access results directory %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory %s: %w", dir, err)
	}

	var parseErrs *multierror.Error
	var results []Result
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ResultFileSuffix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		result, err := parseResultFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unparseable result file")
			parseErrs = multierror.Append(parseErrs, err)
			continue
		}
		if result.HistoryID == "" {
			logger.Warn().Str("file", entry.Name()).Msg("Skipping result without historyId")
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		err := fmt.Errorf("%w in %s", ErrNoResults, dir)
		if parseErrs != nil {
			return nil, multierror.Append(err, parseErrs.Errors...)
		}
		return nil, err
	}

	// ReadDir returns entries sorted by name, so ties on start keep a
	// deterministic enumeration order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Start < results[j].Start
	})

	return dedupeByHistoryID(results), nil
}

// dedupeByHistoryID collapses records sharing a historyId: position follows
// the first occurrence, the value comes from the last.
func dedupeByHistoryID(results []Result) []Result {
	index := make(map[string]int, len(results))
	deduped := make([]Result, 0, len(results))
	for _, r := range results {
		if i, ok := index[r.HistoryID]; ok {
			deduped[i] = r
			continue
		}
		index[r.HistoryID] = len(deduped)
		deduped = append(deduped, r)
	}
	return deduped
}

func parseResultFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return result, nil
}
