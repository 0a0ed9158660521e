// Package launcher resolves a published Galaxy workflow to a runnable copy
// owned by the current user.
//
// Galaxy names an imported copy "imported: <original name>", and that name is
// the only link between a copy and its source. [Launcher] looks the copy up by
// that convention, imports the workflow when no copy exists (or always, under
// [AlwaysImport]), and yields the relative URL of the page that runs the copy.
//
// Key types:
//   - [Launcher] runs one resolution per call as a strictly sequential chain
//   - [Strategy] selects check-then-import or always-import
//   - [Matcher] is the naming-convention predicate; [IsImportOf] is the default
//   - [Resolution] describes the outcome of a successful resolution
//
// Failures fall into three sentinel categories: [ErrEmptyWorkflowID],
// [ErrResolutionFailed] (any platform call failed) and [ErrNoMatchFound] (the
// import succeeded but no copy could be located afterwards).
//
// Nothing is cached between calls. Two concurrent resolutions of the same
// workflow are not coordinated and may both import it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"galaxy-launch/internal/galaxy"
	"galaxy-launch/internal/logger"
)

// Sentinel errors for workflow resolution. Returned errors wrap one of these;
// test with errors.Is.
var (
	// ErrEmptyWorkflowID is returned before any network call when the
	// workflow id is empty.
	ErrEmptyWorkflowID = errors.New("workflow id is empty")

	// ErrResolutionFailed wraps any failure of a platform call. The
	// underlying error (often a *galaxy.APIError) is wrapped as well.
	ErrResolutionFailed = errors.New("workflow resolution failed")

	// ErrNoMatchFound means the import was issued but the imported copy
	// could not be found by name afterwards.
	ErrNoMatchFound = errors.New("imported workflow not found")

	// ErrUnknownStrategy is returned by [New] and [ParseStrategy] for a
	// strategy other than [CheckThenImport] or [AlwaysImport].
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// errNotVisible marks a re-scan that found nothing, so go-retry can retry it.
var errNotVisible = errors.New("imported copy not listed yet")

// Platform is the subset of the Galaxy API the launcher depends on.
// The [galaxy.Client] type implements this interface.
type Platform interface {
	GetWorkflow(ctx context.Context, id string) (*galaxy.WorkflowSummary, error)
	ListWorkflows(ctx context.Context) ([]galaxy.WorkflowSummary, error)
	ImportWorkflow(ctx context.Context, id string) error
}

var _ Platform = (*galaxy.Client)(nil)

// Step names a platform call made during a resolution.
type Step string

const (
	StepSummary Step = "summary"
	StepList    Step = "list"
	StepImport  Step = "import"
	StepRescan  Step = "rescan"
)

// ProgressCallback is invoked before each platform call. attempt is 1-based
// and only exceeds 1 for repeated [StepRescan] calls.
type ProgressCallback func(step Step, attempt int)

// Options configures a [Launcher]. Zero values select the defaults.
type Options struct {
	// Strategy defaults to [CheckThenImport].
	Strategy Strategy

	// Matcher defaults to [IsImportOf].
	Matcher Matcher

	// Rescans is how many times the workflow list is fetched after an import.
	// Defaults to 1, which is exactly one list call after the import.
	Rescans int

	// RescanBackoff is the base of the exponential delay between re-scans.
	RescanBackoff time.Duration

	Logger logger.Logger
}

// Resolution is the outcome of a successful [Launcher.Resolve].
type Resolution struct {
	// WorkflowID is the published workflow's id, as supplied by the caller.
	WorkflowID string

	// Name is the published workflow's name.
	Name string

	// ResolvedID is the id of the user's own copy.
	ResolvedID string

	// Imported reports whether this call issued an import.
	Imported bool

	// URL is the relative URL of the page that runs the copy.
	URL string
}

// Launcher resolves published workflows to runnable user-owned copies.
//
// Create with [New]. A Launcher holds configuration only and is safe for
// concurrent use, but concurrent resolutions are independent of each other.
type Launcher struct {
	platform Platform
	strategy Strategy
	matcher  Matcher
	rescans  int
	backoff  time.Duration
	log      logger.Logger
	progress ProgressCallback
}

// New creates a [Launcher] that talks to platform. opts.Strategy is
// normalised with [ParseStrategy]; any other value fails with
// [ErrUnknownStrategy].
func New(platform Platform, opts Options) (*Launcher, error) {
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	l := &Launcher{
		platform: platform,
		strategy: strategy,
		matcher:  opts.Matcher,
		rescans:  opts.Rescans,
		backoff:  opts.RescanBackoff,
		log:      opts.Logger,
	}
	if l.matcher == nil {
		l.matcher = IsImportOf
	}
	if l.rescans < 1 {
		l.rescans = 1
	}
	if l.backoff <= 0 {
		l.backoff = time.Millisecond
	}
	if l.log == nil {
		l.log = logger.Discard()
	}
	return l, nil
}

// SetProgressCallback configures an optional callback invoked before each
// platform call.
func (l *Launcher) SetProgressCallback(cb ProgressCallback) {
	l.progress = cb
}

// Strategy returns the strategy this launcher was built with.
func (l *Launcher) Strategy() Strategy {
	return l.strategy
}

// ResolveRunURL returns the relative URL of the page that runs the current
// user's copy of the published workflow workflowID, importing it first when
// the strategy requires.
func (l *Launcher) ResolveRunURL(ctx context.Context, workflowID string) (string, error) {
	res, err := l.Resolve(ctx, workflowID)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// Resolve performs the resolution and reports how it was reached.
//
// Under [CheckThenImport] the calls are: summary, list, and only when the list
// holds no copy, import followed by the re-scan list calls. Under
// [AlwaysImport] the calls are: summary, import, re-scan list calls. Each call
// starts only after the previous one returned.
func (l *Launcher) Resolve(ctx context.Context, workflowID string) (*Resolution, error) {
	if workflowID == "" {
		return nil, ErrEmptyWorkflowID
	}
	log := l.log.With("workflow_id", workflowID, "strategy", l.strategy)

	l.report(StepSummary, 1)
	summary, err := l.platform.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, failed("fetch workflow summary", err)
	}
	name := summary.Name
	log.Debug("fetched workflow summary", "name", name)

	res := &Resolution{WorkflowID: workflowID, Name: name}

	switch l.strategy {
	case CheckThenImport:
		l.report(StepList, 1)
		workflows, err := l.platform.ListWorkflows(ctx)
		if err != nil {
			return nil, failed("list workflows", err)
		}
		if id, ok := FindImported(workflows, name, l.matcher); ok {
			log.Debug("found existing copy", "resolved_id", id)
			return l.finish(log, res, id), nil
		}
		log.Debug("no existing copy", "scanned", len(workflows))
	case AlwaysImport:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, l.strategy)
	}

	l.report(StepImport, 1)
	if err := l.platform.ImportWorkflow(ctx, workflowID); err != nil {
		return nil, failed("import workflow", err)
	}
	res.Imported = true
	log.Debug("import requested")

	id, err := l.rescan(ctx, name)
	if err != nil {
		return nil, err
	}
	return l.finish(log, res, id), nil
}

// rescan lists the user's workflows until a copy of name shows up or the
// configured number of re-scans is used up. Only "not found" is retried.
func (l *Launcher) rescan(ctx context.Context, name string) (string, error) {
	var (
		resolved string
		attempt  int
	)
	backoff := retry.WithMaxRetries(uint64(l.rescans-1), retry.NewExponential(l.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		l.report(StepRescan, attempt)
		workflows, err := l.platform.ListWorkflows(ctx)
		if err != nil {
			return failed("list workflows after import", err)
		}
		id, ok := FindImported(workflows, name, l.matcher)
		if !ok {
			return retry.RetryableError(errNotVisible)
		}
		resolved = id
		return nil
	})

	switch {
	case err == nil:
		return resolved, nil
	case errors.Is(err, errNotVisible):
		return "", fmt.Errorf("%w: no copy of %q listed after %d scan(s)", ErrNoMatchFound, name, attempt)
	case errors.Is(err, ErrResolutionFailed):
		return "", err
	default:
		// Context ended while waiting between re-scans.
		return "", failed("wait for imported copy", err)
	}
}

func (l *Launcher) finish(log logger.Logger, res *Resolution, resolvedID string) *Resolution {
	res.ResolvedID = resolvedID
	res.URL = RunURL(resolvedID)
	log.Info("resolved workflow", "resolved_id", resolvedID, "imported", res.Imported)
	return res
}

func (l *Launcher) report(step Step, attempt int) {
	if l.progress != nil {
		l.progress(step, attempt)
	}
}

func failed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrResolutionFailed, op, err)
}
