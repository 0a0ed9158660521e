package launcher

import (
	"fmt"
	"net/url"
	"strings"

	"galaxy-launch/internal/galaxy"
)

// ImportedPrefix is the marker Galaxy puts in front of an imported
// workflow's name.
const ImportedPrefix = "imported: "

// RunPath is the Galaxy page that runs a workflow given its id.
const RunPath = "/workflow/run"

// Matcher reports whether candidate is the name of an imported copy of a
// workflow named original.
type Matcher func(candidate, original string) bool

// IsImportOf is the default [Matcher]: candidate must start with
// [ImportedPrefix] and end with original.
//
// Only the prefix and suffix are checked, so a copy of "xfoo" also matches
// "foo", and an original that already starts with the marker matches itself.
func IsImportOf(candidate, original string) bool {
	return strings.HasPrefix(candidate, ImportedPrefix) && strings.HasSuffix(candidate, original)
}

// FindImported returns the id of the first workflow, in list order, whose
// name satisfies match for original.
func FindImported(workflows []galaxy.WorkflowSummary, original string, match Matcher) (string, bool) {
	for _, wf := range workflows {
		if match(wf.Name, original) {
			return wf.ID, true
		}
	}
	return "", false
}

// RunURL returns the relative URL of the page that runs workflow id.
func RunURL(id string) string {
	return RunPath + "?id=" + url.QueryEscape(id)
}

// AbsoluteURL places a run URL under the platform base URL. A Galaxy served
// from a sub-path such as https://host/galaxy keeps that prefix, the same way
// the API client prefixes its requests.
func AbsoluteURL(baseURL, runURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	ref, err := url.Parse(runURL)
	if err != nil {
		return "", fmt.Errorf("invalid run URL: %w", err)
	}
	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return u.String(), nil
}
