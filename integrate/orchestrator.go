package integrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/mergetrain/config"
	"github.com/randalmurphal/mergetrain/describe"
	clierrors "github.com/randalmurphal/mergetrain/errors"
	"github.com/randalmurphal/mergetrain/git"
	"github.com/randalmurphal/mergetrain/notify"
	"github.com/randalmurphal/mergetrain/pr"
	"github.com/randalmurphal/mergetrain/state"
	"github.com/randalmurphal/mergetrain/template"
)

// Git is the version-control capability set the orchestrator needs.
// *git.Context implements it; tests substitute a fake.
type Git interface {
	CurrentBranch() (string, error)
	Checkout(ref string) error
	CheckoutNew(name string) error
	CheckoutTrack(remote, branch string) error
	BranchExists(name string) bool
	RemoteBranchExists(remote, name string) bool
	Pull(remote, branch string) error
	Fetch(remote, ref string) error
	MergeNoFF(ref, message string) error
	ConflictFiles() ([]string, error)
	Push(remote, branch string, setUpstream bool) error
}

// Orchestrator drives one integration run: validation, branch setup,
// ordered non-fast-forward merges with persisted progress, and creation
// of the integration PR. It is the sole owner of the state store.
type Orchestrator struct {
	git      Git
	provider pr.Provider
	store    state.Store
	tmpl     *template.Template
	logger   *slog.Logger
	notifier notify.Notifier
	remote   string
	phase    Phase
}

// Option configures Orchestrator.
type Option func(*Orchestrator)

// New creates an orchestrator over the given backends.
func New(g Git, provider pr.Provider, store state.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		git:      g,
		provider: provider,
		store:    store,
		logger:   slog.Default(),
		notifier: notify.NopNotifier{},
		remote:   "origin",
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithNotifier sets the lifecycle event notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithRemote sets the remote name. Default is "origin".
func WithRemote(remote string) Option {
	return func(o *Orchestrator) {
		o.remote = remote
	}
}

// WithTemplate sets the PR body template the generated description is
// substituted into. Without one the description is used verbatim.
func WithTemplate(t *template.Template) Option {
	return func(o *Orchestrator) {
		o.tmpl = t
	}
}

// Phase returns the current state machine phase.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// OpenRepository validates that path exists and is a git repository and
// returns a Context rooted there.
func OpenRepository(path string) (*git.Context, error) {
	gitCtx, err := git.NewContext(path)
	if err != nil {
		return nil, &RepositoryError{Path: path, Err: err}
	}
	return gitCtx, nil
}

// Run starts a new integration run. It refuses to start while persisted
// state exists: at most one integration may be in progress per state store.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Integration) error {
	if o.store.Exists() {
		return clierrors.New(ErrRunInProgress,
			"An integration run is already in progress.",
			"Finish it with --continue, or delete the state file to abandon it.")
	}

	o.setPhase(PhaseValidating)
	if err := cfg.Validate(); err != nil {
		return err
	}

	prs, err := o.validatePullRequests(ctx, cfg.PullRequests)
	if err != nil {
		return err
	}

	session := &Session{
		RunID:  newRunID(),
		Config: *cfg,
		PRs:    prs,
	}

	o.logger.Info("starting integration run",
		"run_id", session.RunID,
		"release", cfg.ReleaseName,
		"prs", len(prs),
	)
	o.notify(ctx, notify.Event{
		Type:     notify.EventRunStarted,
		RunID:    session.RunID,
		Release:  cfg.ReleaseName,
		Message:  fmt.Sprintf("integrating %d pull requests into %s", len(prs), cfg.ReleaseName),
		Severity: notify.SeverityInfo,
	})

	if err := o.ensureIntegrationBranch(cfg.ReleaseName, cfg.MainBranch); err != nil {
		return err
	}
	o.setPhase(PhaseBranchReady)

	return o.finishRun(ctx, session)
}

// Resume reloads persisted state and re-enters the merge loop at the
// persisted cursor. The failed PR, if any, is retried first.
func (o *Orchestrator) Resume(ctx context.Context) error {
	persisted, err := o.store.Load()
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return clierrors.New(ErrNoRunInProgress,
				"No integration run is in progress.",
				"Start one with --config <path>.")
		}
		return err
	}

	cfg := persisted.Config
	cfg.ApplyDefaults()

	o.setPhase(PhaseValidating)
	prs, err := o.validatePullRequests(ctx, cfg.PullRequests)
	if err != nil {
		return err
	}

	session := &Session{
		RunID:       persisted.RunID,
		Config:      cfg,
		PRs:         prs,
		NextPRIndex: persisted.NextPRIndex,
	}

	o.logger.Info("resuming integration run",
		"run_id", session.RunID,
		"release", cfg.ReleaseName,
		"next_index", session.NextPRIndex,
	)
	o.notify(ctx, notify.Event{
		Type:     notify.EventRunResumed,
		RunID:    session.RunID,
		Release:  cfg.ReleaseName,
		Message:  fmt.Sprintf("resuming at pull request %d of %d", session.NextPRIndex+1, len(prs)),
		Severity: notify.SeverityInfo,
	})

	if err := o.ensureIntegrationBranch(cfg.ReleaseName, cfg.MainBranch); err != nil {
		return err
	}
	o.setPhase(PhaseBranchReady)

	return o.finishRun(ctx, session)
}

// finishRun performs the merge loop from the session cursor onward, then
// the integration PR step, and deletes persisted state on full success.
func (o *Orchestrator) finishRun(ctx context.Context, session *Session) error {
	if err := o.mergeSequentially(ctx, session); err != nil {
		return err
	}
	o.setPhase(PhaseAllMerged)

	description := describe.Build(session.PRs)
	body := description
	if o.tmpl != nil {
		rendered, err := o.tmpl.Render(description)
		if err != nil {
			return err
		}
		body = rendered
	}
	o.setPhase(PhasePullRequestReady)

	if err := o.createOrUpdateIntegrationPullRequest(ctx, session, body); err != nil {
		return err
	}

	if err := o.store.Delete(); err != nil {
		return err
	}
	o.setPhase(PhaseDone)

	o.logger.Info("integration run completed", "run_id", session.RunID)
	o.notify(ctx, notify.Event{
		Type:     notify.EventRunCompleted,
		RunID:    session.RunID,
		Release:  session.Config.ReleaseName,
		Message:  "integration run completed",
		Severity: notify.SeverityInfo,
	})
	return nil
}

// validatePullRequests fetches each configured PR in input order and
// checks it is open. Any failure aborts the whole validation phase before
// branch work begins; input order is preserved and becomes merge order.
func (o *Orchestrator) validatePullRequests(ctx context.Context, numbers []int) ([]*pr.PullRequest, error) {
	prs := make([]*pr.PullRequest, 0, len(numbers))
	for _, number := range numbers {
		record, err := o.provider.GetPR(ctx, number)
		if err != nil {
			return nil, &PullRequestFetchError{Number: number, Err: err}
		}
		if record.State != pr.StateOpen {
			return nil, &PullRequestStateError{Number: number, State: record.State}
		}
		prs = append(prs, record)
	}
	return prs, nil
}

// mergeSequentially merges the session's PRs from the cursor onward. After
// a successful merge of PR i the cursor is persisted as i+1; after a
// failure it is persisted as i so the failed PR is retried on resume, and
// the run pauses with the working tree left mid-conflict.
func (o *Orchestrator) mergeSequentially(ctx context.Context, session *Session) error {
	o.setPhase(PhaseMerging)

	for i := session.NextPRIndex; i < len(session.PRs); i++ {
		record := session.PRs[i]
		logger := o.logger.With("run_id", session.RunID, "pr", record.Number, "index", i)

		if err := o.git.Fetch(o.remote, record.Head); err != nil {
			return o.pause(ctx, session, i,
				&BranchOperationError{Op: "fetch " + record.Head, Number: record.Number, Err: err})
		}

		message := fmt.Sprintf("Merge pull request #%d from %s", record.Number, record.Head)
		if err := o.git.MergeNoFF(o.remote+"/"+record.Head, message); err != nil {
			if errors.Is(err, git.ErrMergeConflict) {
				files, _ := o.git.ConflictFiles()
				return o.pause(ctx, session, i,
					&MergeConflictError{Number: record.Number, Index: i, Files: files, Err: err})
			}
			return o.pause(ctx, session, i,
				&BranchOperationError{Op: "merge " + record.Head, Number: record.Number, Err: err})
		}

		session.NextPRIndex = i + 1
		if err := o.persist(session); err != nil {
			return err
		}

		logger.Info("merged pull request", "head", record.Head)
		o.notify(ctx, notify.Event{
			Type:     notify.EventMergeCompleted,
			RunID:    session.RunID,
			Release:  session.Config.ReleaseName,
			Message:  fmt.Sprintf("merged pull request #%d (%d of %d)", record.Number, i+1, len(session.PRs)),
			Severity: notify.SeverityInfo,
		})
	}

	return nil
}

// pause persists the cursor at the failed index and returns an actionable
// error. The working tree is deliberately left as the failure left it;
// together with the persisted cursor that is the full recovery state.
func (o *Orchestrator) pause(ctx context.Context, session *Session, index int, cause error) error {
	o.setPhase(PhaseConflictPaused)

	session.NextPRIndex = index
	if err := o.persist(session); err != nil {
		return errors.Join(cause, err)
	}

	record := session.PRs[index]
	o.logger.Error("integration run paused",
		"run_id", session.RunID,
		"pr", record.Number,
		"index", index,
		"error", cause,
	)
	o.notify(ctx, notify.Event{
		Type:     notify.EventMergeConflict,
		RunID:    session.RunID,
		Release:  session.Config.ReleaseName,
		Message:  cause.Error(),
		Severity: notify.SeverityWarning,
		Metadata: map[string]any{"pr": record.Number, "index": index},
	})

	cliErr := clierrors.New(cause,
		fmt.Sprintf("Integration paused at pull request #%d.", record.Number),
		"Resolve the conflicts in the repository, commit the merge, then run mergetrain --continue.")

	var conflictErr *MergeConflictError
	if errors.As(cause, &conflictErr) && len(conflictErr.Files) > 0 {
		cliErr = cliErr.WithDetails("Conflicted files:\n  " + strings.Join(conflictErr.Files, "\n  "))
	}
	return cliErr
}

// createOrUpdateIntegrationPullRequest pushes the release branch and
// creates the integration PR, or refreshes its body if one already exists.
// With pushToOrigin disabled it only logs what would happen.
func (o *Orchestrator) createOrUpdateIntegrationPullRequest(ctx context.Context, session *Session, body string) error {
	cfg := session.Config

	if !cfg.PushToOrigin {
		o.logger.Info("pushToOrigin disabled; skipping push and integration PR",
			"run_id", session.RunID,
			"release", cfg.ReleaseName,
		)
		return nil
	}

	if err := o.git.Push(o.remote, cfg.ReleaseName, true); err != nil {
		return &BranchOperationError{Op: "push " + cfg.ReleaseName, Err: err}
	}

	existing, err := o.provider.ListPRs(ctx, pr.Filter{
		State: pr.StateOpen,
		Head:  cfg.ReleaseName,
		Base:  cfg.MainBranch,
	})
	if err != nil {
		return fmt.Errorf("list integration PRs: %w", err)
	}

	if len(existing) > 0 {
		current := existing[0]
		if current.Body == body {
			o.logger.Info("integration PR already up to date",
				"run_id", session.RunID, "pr", current.Number)
			return nil
		}

		updated, err := o.provider.UpdatePR(ctx, current.Number, pr.UpdateOptions{Body: &body})
		if err != nil {
			return fmt.Errorf("update integration PR #%d: %w", current.Number, err)
		}
		o.logger.Info("updated integration PR",
			"run_id", session.RunID, "pr", updated.Number, "url", updated.URL)
		o.notify(ctx, notify.Event{
			Type:     notify.EventPRUpdated,
			RunID:    session.RunID,
			Release:  cfg.ReleaseName,
			Message:  fmt.Sprintf("updated integration PR #%d", updated.Number),
			Severity: notify.SeverityInfo,
		})
		return nil
	}

	created, err := o.provider.CreatePR(ctx, pr.Options{
		Title: cfg.Title,
		Body:  body,
		Base:  cfg.MainBranch,
		Head:  cfg.ReleaseName,
		Draft: cfg.IsDraft(),
	})
	if err != nil {
		return fmt.Errorf("create integration PR: %w", err)
	}

	o.logger.Info("created integration PR",
		"run_id", session.RunID, "pr", created.Number, "url", created.URL)
	o.notify(ctx, notify.Event{
		Type:     notify.EventPRCreated,
		RunID:    session.RunID,
		Release:  cfg.ReleaseName,
		Message:  fmt.Sprintf("created integration PR #%d: %s", created.Number, created.URL),
		Severity: notify.SeverityInfo,
	})
	return nil
}

// persist writes the session snapshot to the state store.
func (o *Orchestrator) persist(session *Session) error {
	return o.store.Save(&state.Persisted{
		RunID:       session.RunID,
		Config:      session.Config,
		NextPRIndex: session.NextPRIndex,
		Timestamp:   time.Now(),
	})
}

func (o *Orchestrator) setPhase(p Phase) {
	if o.phase != p {
		o.logger.Debug("phase transition", "from", o.phase, "to", p)
		o.phase = p
	}
}

func (o *Orchestrator) notify(ctx context.Context, event notify.Event) {
	if o.notifier == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := o.notifier.Notify(ctx, event); err != nil {
		o.logger.Warn("notification failed", "error", err, "event_type", event.Type)
	}
}
