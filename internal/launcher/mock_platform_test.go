package launcher

import (
	"context"
	"fmt"
	"strings"

	"galaxy-launch/internal/galaxy"
)

// fakePlatform is an in-memory Galaxy for testing.
//
// Published holds shared workflows by id. Owned is the user's workflow list
// in platform order. Importing appends "imported: <name>" to Owned unless
// ImportInvisibleFor says the copy should stay out of the next N lists.
type fakePlatform struct {
	Published map[string]string
	Owned     []galaxy.WorkflowSummary

	// Calls records every call in order, e.g. "summary:abc", "list", "import:abc".
	Calls []string

	// ImportInvisibleFor hides a new copy from this many subsequent list calls.
	ImportInvisibleFor int

	// ImportCreatesNothing makes imports succeed without adding a copy.
	ImportCreatesNothing bool

	// FailOn maps a call name ("summary", "list", "import") to the error it returns.
	// FailListOnCall limits a "list" failure to the Nth list call (1-based); 0 means all.
	FailOn         map[string]error
	FailListOnCall int

	nextID    int
	listCalls int
	pending   []galaxy.WorkflowSummary
	hiddenFor int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		Published: map[string]string{},
		FailOn:    map[string]error{},
	}
}

func (f *fakePlatform) GetWorkflow(ctx context.Context, id string) (*galaxy.WorkflowSummary, error) {
	f.Calls = append(f.Calls, "summary:"+id)
	if err := f.FailOn["summary"]; err != nil {
		return nil, err
	}
	name, ok := f.Published[id]
	if !ok {
		return nil, &galaxy.APIError{Method: "GET", Path: "/api/workflows/" + id, StatusCode: 404}
	}
	return &galaxy.WorkflowSummary{ID: id, Name: name}, nil
}

func (f *fakePlatform) ListWorkflows(ctx context.Context) ([]galaxy.WorkflowSummary, error) {
	f.Calls = append(f.Calls, "list")
	f.listCalls++
	if err := f.FailOn["list"]; err != nil && (f.FailListOnCall == 0 || f.FailListOnCall == f.listCalls) {
		return nil, err
	}

	if len(f.pending) > 0 {
		if f.hiddenFor > 0 {
			f.hiddenFor--
		} else {
			f.Owned = append(f.Owned, f.pending...)
			f.pending = nil
		}
	}

	out := make([]galaxy.WorkflowSummary, len(f.Owned))
	copy(out, f.Owned)
	return out, nil
}

func (f *fakePlatform) ImportWorkflow(ctx context.Context, id string) error {
	f.Calls = append(f.Calls, "import:"+id)
	if err := f.FailOn["import"]; err != nil {
		return err
	}
	if f.ImportCreatesNothing {
		return nil
	}
	f.nextID++
	f.pending = append(f.pending, galaxy.WorkflowSummary{
		ID:   fmt.Sprintf("copy-%d", f.nextID),
		Name: ImportedPrefix + f.Published[id],
	})
	f.hiddenFor = f.ImportInvisibleFor
	return nil
}

func (f *fakePlatform) importCount() int {
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "import:") {
			n++
		}
	}
	return n
}
