package launcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-launch/internal/galaxy"
)

const publishedID = "0a248a1f62a0cc04"

func setupPlatform(owned ...galaxy.WorkflowSummary) *fakePlatform {
	p := newFakePlatform()
	p.Published[publishedID] = "RNA-Seq"
	p.Owned = owned
	return p
}

func newLauncher(t *testing.T, platform Platform, opts Options) *Launcher {
	t.Helper()
	l, err := New(platform, opts)
	require.NoError(t, err)
	return l
}

func TestResolveRunURL_ExistingCopySkipsImport(t *testing.T) {
	platform := setupPlatform(
		galaxy.WorkflowSummary{ID: "w1", Name: "RNA-Seq"},
		galaxy.WorkflowSummary{ID: "w2", Name: "imported: RNA-Seq"},
	)
	l := newLauncher(t, platform, Options{})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, "/workflow/run?id=w2", url)
	assert.Equal(t, []string{"summary:" + publishedID, "list"}, platform.Calls,
		"an existing copy needs exactly a summary and a list call")
	assert.Zero(t, platform.importCount())
}

func TestResolveRunURL_NoCopyImportsThenRescans(t *testing.T) {
	platform := setupPlatform(galaxy.WorkflowSummary{ID: "w1", Name: "imported: Other"})
	l := newLauncher(t, platform, Options{})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, "/workflow/run?id=copy-1", url)
	assert.Equal(t, []string{
		"summary:" + publishedID,
		"list",
		"import:" + publishedID,
		"list",
	}, platform.Calls)
}

func TestResolve_ReportsHowItResolved(t *testing.T) {
	tests := []struct {
		name         string
		owned        []galaxy.WorkflowSummary
		wantResolved string
		wantImported bool
	}{
		{
			name:         "reused",
			owned:        []galaxy.WorkflowSummary{{ID: "w9", Name: "imported: RNA-Seq"}},
			wantResolved: "w9",
			wantImported: false,
		},
		{
			name:         "imported",
			owned:        nil,
			wantResolved: "copy-1",
			wantImported: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := setupPlatform(tt.owned...)
			res, err := newLauncher(t, platform, Options{}).Resolve(context.Background(), publishedID)

			require.NoError(t, err)
			assert.Equal(t, publishedID, res.WorkflowID)
			assert.Equal(t, "RNA-Seq", res.Name)
			assert.Equal(t, tt.wantResolved, res.ResolvedID)
			assert.Equal(t, tt.wantImported, res.Imported)
			assert.Equal(t, RunURL(tt.wantResolved), res.URL)
		})
	}
}

func TestResolveRunURL_NoMatchAfterImport(t *testing.T) {
	platform := setupPlatform()
	platform.ImportCreatesNothing = true
	l := newLauncher(t, platform, Options{})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatchFound))
	assert.False(t, errors.Is(err, ErrResolutionFailed))
	assert.Empty(t, url)
	assert.Len(t, platform.Calls, 4)
}

func TestResolveRunURL_CheckThenImportIsIdempotent(t *testing.T) {
	platform := setupPlatform()
	l := newLauncher(t, platform, Options{Strategy: CheckThenImport})

	first, err := l.ResolveRunURL(context.Background(), publishedID)
	require.NoError(t, err)
	second, err := l.ResolveRunURL(context.Background(), publishedID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, platform.importCount(), "second resolution must reuse the first copy")
}

func TestResolveRunURL_AlwaysImport(t *testing.T) {
	platform := setupPlatform(galaxy.WorkflowSummary{ID: "old", Name: "imported: RNA-Seq"})
	l := newLauncher(t, platform, Options{Strategy: AlwaysImport})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"summary:" + publishedID,
		"import:" + publishedID,
		"list",
	}, platform.Calls, "always-import never checks before importing")
	// The pre-existing copy comes first in list order, so it wins the scan.
	assert.Equal(t, "/workflow/run?id=old", url)

	_, err = l.ResolveRunURL(context.Background(), publishedID)
	require.NoError(t, err)
	assert.Equal(t, 2, platform.importCount(), "always-import duplicates on every call")
}

func TestResolveRunURL_EmptyWorkflowID(t *testing.T) {
	platform := setupPlatform()
	l := newLauncher(t, platform, Options{})

	_, err := l.ResolveRunURL(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyWorkflowID)
	assert.Empty(t, platform.Calls)
}

func TestResolveRunURL_APIFailures(t *testing.T) {
	apiErr := &galaxy.APIError{Method: "GET", Path: "/api/workflows", StatusCode: 500, Message: "boom"}

	tests := []struct {
		name      string
		strategy  Strategy
		failOn    string
		failCall  int
		owned     []galaxy.WorkflowSummary
		wantCalls int
	}{
		{name: "summary fails", strategy: CheckThenImport, failOn: "summary", wantCalls: 1},
		{name: "first list fails", strategy: CheckThenImport, failOn: "list", failCall: 1, wantCalls: 2},
		{name: "import fails", strategy: CheckThenImport, failOn: "import", wantCalls: 3},
		{name: "rescan fails", strategy: CheckThenImport, failOn: "list", failCall: 2, wantCalls: 4},
		{name: "always-import import fails", strategy: AlwaysImport, failOn: "import", wantCalls: 2},
		{name: "always-import rescan fails", strategy: AlwaysImport, failOn: "list", wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := setupPlatform(tt.owned...)
			platform.FailOn[tt.failOn] = apiErr
			platform.FailListOnCall = tt.failCall
			l := newLauncher(t, platform, Options{Strategy: tt.strategy, Rescans: 3})

			url, err := l.ResolveRunURL(context.Background(), publishedID)

			require.Error(t, err)
			assert.Empty(t, url)
			assert.ErrorIs(t, err, ErrResolutionFailed)
			assert.NotErrorIs(t, err, ErrNoMatchFound)

			var got *galaxy.APIError
			require.ErrorAs(t, err, &got)
			assert.Equal(t, 500, got.StatusCode)

			assert.Len(t, platform.Calls, tt.wantCalls, "failures are not retried")
		})
	}
}

func TestResolveRunURL_UnknownWorkflow(t *testing.T) {
	platform := setupPlatform()
	l := newLauncher(t, platform, Options{})

	_, err := l.ResolveRunURL(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, ErrResolutionFailed)
	var apiErr *galaxy.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestResolveRunURL_RescansUntilVisible(t *testing.T) {
	platform := setupPlatform()
	platform.ImportInvisibleFor = 2
	l := newLauncher(t, platform, Options{Rescans: 5, RescanBackoff: time.Millisecond})

	var steps []Step
	var attempts []int
	l.SetProgressCallback(func(step Step, attempt int) {
		steps = append(steps, step)
		attempts = append(attempts, attempt)
	})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, "/workflow/run?id=copy-1", url)
	assert.Equal(t, 1, platform.importCount(), "re-scans never re-import")
	assert.Equal(t, []Step{StepSummary, StepList, StepImport, StepRescan, StepRescan, StepRescan}, steps)
	assert.Equal(t, []int{1, 1, 1, 1, 2, 3}, attempts)
}

func TestResolveRunURL_RescansExhausted(t *testing.T) {
	platform := setupPlatform()
	platform.ImportInvisibleFor = 10
	l := newLauncher(t, platform, Options{Rescans: 3, RescanBackoff: time.Millisecond})

	_, err := l.ResolveRunURL(context.Background(), publishedID)

	require.ErrorIs(t, err, ErrNoMatchFound)
	assert.Contains(t, err.Error(), "3 scan(s)")
	assert.Equal(t, []string{
		"summary:" + publishedID,
		"list",
		"import:" + publishedID,
		"list", "list", "list",
	}, platform.Calls)
}

func TestResolveRunURL_SingleRescanByDefault(t *testing.T) {
	platform := setupPlatform()
	platform.ImportInvisibleFor = 1
	l := newLauncher(t, platform, Options{})

	_, err := l.ResolveRunURL(context.Background(), publishedID)

	assert.ErrorIs(t, err, ErrNoMatchFound)
	assert.Len(t, platform.Calls, 4)
}

func TestResolveRunURL_ContextCanceledDuringBackoff(t *testing.T) {
	platform := setupPlatform()
	platform.ImportInvisibleFor = 10
	l := newLauncher(t, platform, Options{Rescans: 5, RescanBackoff: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	l.SetProgressCallback(func(step Step, attempt int) {
		if step == StepRescan {
			cancel()
		}
	})

	_, err := l.ResolveRunURL(ctx, publishedID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveRunURL_CustomMatcher(t *testing.T) {
	platform := setupPlatform(
		galaxy.WorkflowSummary{ID: "w1", Name: "imported: RNA-Seq"},
		galaxy.WorkflowSummary{ID: "w2", Name: "copy of RNA-Seq"},
	)
	matcher := func(candidate, original string) bool {
		return candidate == "copy of "+original
	}
	l := newLauncher(t, platform, Options{Matcher: matcher})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, "/workflow/run?id=w2", url)
}

func TestNew_Defaults(t *testing.T) {
	l := newLauncher(t, newFakePlatform(), Options{})

	assert.Equal(t, CheckThenImport, l.Strategy())
	assert.Equal(t, 1, l.rescans)
	assert.NotNil(t, l.matcher)
	assert.NotNil(t, l.log)
}

func TestNew_UnknownStrategy(t *testing.T) {
	platform := setupPlatform(galaxy.WorkflowSummary{ID: "w2", Name: "imported: RNA-Seq"})

	l, err := New(platform, Options{Strategy: Strategy("bogus")})

	require.Error(t, err)
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Contains(t, err.Error(), "check-then-import, always-import")
	assert.Empty(t, platform.Calls)
}

func TestNew_NormalisesStrategy(t *testing.T) {
	platform := setupPlatform(galaxy.WorkflowSummary{ID: "w2", Name: "imported: RNA-Seq"})
	l := newLauncher(t, platform, Options{Strategy: Strategy(" Check-Then-Import ")})

	url, err := l.ResolveRunURL(context.Background(), publishedID)

	require.NoError(t, err)
	assert.Equal(t, CheckThenImport, l.Strategy())
	assert.Equal(t, "/workflow/run?id=w2", url)
	assert.Equal(t, []string{"summary:" + publishedID, "list"}, platform.Calls)
}
