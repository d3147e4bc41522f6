package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/dates"
	"voice-todoist-be/pkg/extract"
	"voice-todoist-be/pkg/match"
)

var (
	ErrUnknownConversation = errors.New("conversation not found or expired")
	ErrConversationExists  = errors.New("conversation already exists")
	ErrEmptyInput          = errors.New("empty input")
	ErrUpstream            = errors.New("upstream call failed")
)

// DefaultMaxRetries bounds consecutive unrecognized replies at one step
// before the conversation is cancelled instead of looping forever.
const DefaultMaxRetries = 5

var affirmatives = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "confirm": {}, "create": {}, "do it": {}, "sure": {},
}

var cancellations = map[string]struct{}{
	"cancel": {}, "abort": {}, "stop": {}, "quit": {}, "never mind": {}, "nevermind": {},
}

var noDateWords = map[string]struct{}{
	"none": {}, "no": {}, "skip": {}, "blank": {}, "no date": {}, "no due date": {},
}

var createPattern = regexp.MustCompile(`(?i)^(?:create|new project|make)\s+(.+)$`)

// Config tunes the engine. Zero values fall back to package defaults.
type Config struct {
	MaxResults            int
	MaxRetries            int
	DefaultTimeoutSeconds int
	DefaultPriority       int
	DefaultLabels         []string
	Clock                 func() time.Time
}

// Engine drives the multi-turn dialogue from raw utterance to a task
// creation request. Matching, extraction and date resolution are pure and
// synchronous; only the collaborator calls touch the network.
type Engine struct {
	store    SessionStore
	projects ProjectSource
	creator  ProjectCreator
	sink     TaskSink
	logger   *log.Logger
	cfg      Config

	// Per-conversation turn serialization. Cross-key operations never
	// hold more than one conversation lock at a time. mu also guards
	// pendingTimeouts.
	mu              sync.Mutex
	locks           map[string]*keyedLock
	pendingTimeouts []*Turn
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewEngine(
	store SessionStore,
	projects ProjectSource,
	creator ProjectCreator,
	sink TaskSink,
	logger *log.Logger,
	cfg Config,
) *Engine {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = match.DefaultMaxResults
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.DefaultTimeoutSeconds <= 0 {
		cfg.DefaultTimeoutSeconds = DefaultTimeoutSeconds
	}
	cfg.DefaultPriority = assemble.NormalizePriority(cfg.DefaultPriority)
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Engine{
		store:    store,
		projects: projects,
		creator:  creator,
		sink:     sink,
		logger:   logger,
		cfg:      cfg,
		locks:    make(map[string]*keyedLock),
	}
}

// StartInput is one start_conversation request.
type StartInput struct {
	Text           string
	ConversationID string // optional; collisions with live sessions are errors
	TimeoutSeconds int
	Priority       int
	Labels         []string
	Context        map[string]interface{}
}

// Turn is what one processed utterance produced: the new state plus
// whatever the host should say or do next.
type Turn struct {
	ConversationID    string            `json:"conversation_id"`
	State             State             `json:"state"`
	Message           string            `json:"message"`
	Actions           []string          `json:"actions,omitempty"`
	Candidates        []match.Candidate `json:"candidates,omitempty"`
	AvailableProjects []string          `json:"available_projects,omitempty"`
	Summary           *Summary          `json:"summary,omitempty"`
	Receipt           *assemble.Receipt `json:"receipt,omitempty"`
	Done              bool              `json:"done"`

	// Archival context. Terminal turns are the last chance to read these
	// since the session is evicted with them.
	RawInput  string    `json:"raw_input,omitempty"`
	Title     string    `json:"title,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Summary is the final-confirmation recap.
type Summary struct {
	Project     string   `json:"project"`
	ProjectID   string   `json:"project_id,omitempty"`
	DueDate     string   `json:"due_date"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels,omitempty"`
	Actions     []string `json:"actions"`
	ActionCount int      `json:"action_count"`
}

// Start opens a new conversation from the first utterance and advances it
// as far as the utterance allows.
func (e *Engine) Start(ctx context.Context, in StartInput) (*Turn, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	id := in.ConversationID
	if id == "" {
		id = uuid.NewString()
	}

	unlock := e.lock(id)
	defer unlock()

	now := e.cfg.Clock()
	if existing, ok := e.store.Get(id); ok {
		if !existing.Expired(now) {
			return nil, fmt.Errorf("%w: %s", ErrConversationExists, id)
		}
		expired := e.terminate(existing, StateTimedOut, "Conversation timed out.")
		e.mu.Lock()
		e.pendingTimeouts = append(e.pendingTimeouts, expired)
		e.mu.Unlock()
	}

	timeout := in.TimeoutSeconds
	if timeout <= 0 {
		timeout = e.cfg.DefaultTimeoutSeconds
	}
	labels := in.Labels
	if labels == nil {
		labels = append([]string(nil), e.cfg.DefaultLabels...)
	}

	priority := in.Priority
	if priority == 0 {
		priority = e.cfg.DefaultPriority
	}
	sess := &Session{
		ID:             id,
		State:          StateStarted,
		RawInput:       text,
		Priority:       assemble.NormalizePriority(priority),
		Labels:         labels,
		Context:        in.Context,
		CreatedAt:      now,
		LastActivityAt: now,
		TimeoutSeconds: timeout,
	}

	sess.State = StateExtractingActions
	result := extract.Actions(text)
	if len(result.Actions) == 0 {
		return nil, fmt.Errorf("%w: no actionable content", ErrEmptyInput)
	}
	sess.Actions = result.Actions
	sess.Title = result.Title
	e.logf("conversation %s: extracted %d actions", id, len(sess.Actions))

	turn, err := e.resolveProjectFromUtterance(ctx, sess)
	if err != nil {
		return nil, err
	}
	e.persist(sess)
	return turn, nil
}

// Continue processes one follow-up utterance for an existing conversation.
// Turns for a given id run strictly one at a time in arrival order.
func (e *Engine) Continue(ctx context.Context, id, text string) (*Turn, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, ErrEmptyInput
	}

	unlock := e.lock(id)
	defer unlock()

	sess, err := e.liveSession(id)
	if err != nil {
		return nil, err
	}

	now := e.cfg.Clock()
	sess.Touch(now)

	if _, cancelled := cancellations[strings.ToLower(input)]; cancelled {
		return e.terminate(sess, StateCancelled, "Task creation cancelled."), nil
	}

	var turn *Turn
	switch sess.State {
	case StateAwaitingProjectSelection:
		turn, err = e.handleProjectSelection(ctx, sess, input)
	case StateAwaitingProjectCreationConfirm:
		turn, err = e.handleProjectCreation(ctx, sess, input)
	case StateAwaitingDateInput:
		turn, err = e.handleDateInput(sess, input)
	case StateAwaitingFinalConfirmation:
		turn, err = e.handleConfirmation(ctx, sess, input)
	default:
		// STARTED/EXTRACTING_ACTIONS never persist across turns.
		return nil, fmt.Errorf("%w: %s", ErrUnknownConversation, id)
	}
	if err != nil {
		// The session keeps its prior awaiting state so the user can
		// retry without losing progress.
		e.persist(sess)
		return nil, err
	}
	if !sess.State.Terminal() {
		e.persist(sess)
	}
	return turn, nil
}

// Status returns the public view of a live conversation.
func (e *Engine) Status(id string) (Snapshot, error) {
	unlock := e.lock(id)
	defer unlock()

	sess, err := e.liveSession(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Cancel terminates a live conversation explicitly.
func (e *Engine) Cancel(id string) (*Turn, error) {
	unlock := e.lock(id)
	defer unlock()

	sess, err := e.liveSession(id)
	if err != nil {
		return nil, err
	}
	return e.terminate(sess, StateCancelled, "Task creation cancelled."), nil
}

// Active lists live session snapshots. Expired entries the janitor has not
// collected yet are skipped. Each session is read under its own turn lock;
// the listing never holds more than one lock at a time.
func (e *Engine) Active() []Snapshot {
	now := e.cfg.Clock()
	var out []Snapshot
	for _, stale := range e.store.Active() {
		id := stale.ID
		unlock := e.lock(id)
		if sess, ok := e.store.Get(id); ok && !sess.Expired(now) {
			out = append(out, sess.Snapshot())
		}
		unlock()
	}
	return out
}

// SweepExpired evicts sessions past their inactivity window and returns
// their terminal TIMED_OUT turns, together with any sessions already
// evicted lazily by an intervening Continue or Status. The caller archives
// the returned turns.
func (e *Engine) SweepExpired() []*Turn {
	now := e.cfg.Clock()
	var turns []*Turn
	for _, stale := range e.store.Active() {
		id := stale.ID
		unlock := e.lock(id)
		if sess, ok := e.store.Get(id); ok && sess.Expired(now) {
			turns = append(turns, e.terminate(sess, StateTimedOut, "Conversation timed out."))
		}
		unlock()
	}

	e.mu.Lock()
	turns = append(turns, e.pendingTimeouts...)
	e.pendingTimeouts = nil
	e.mu.Unlock()

	if len(turns) > 0 {
		e.logf("swept %d expired conversations", len(turns))
	}
	return turns
}

// --- step handlers ---

func (e *Engine) resolveProjectFromUtterance(ctx context.Context, sess *Session) (*Turn, error) {
	hint := extract.ProjectHint(sess.RawInput)
	if hint == "" {
		return e.promptProjectSelection(ctx, sess,
			fmt.Sprintf("Found %d actions. Which project should I use?", len(sess.Actions))), nil
	}

	projects, err := e.projects.Snapshot(ctx)
	if err != nil {
		// Degrade to a manual prompt; the selection turn retries the
		// snapshot.
		e.logf("conversation %s: project snapshot failed: %v", sess.ID, err)
		sess.State = StateAwaitingProjectSelection
		return e.turn(sess, "I couldn't load your projects. Which project should I use?"), nil
	}

	outcome := match.Rank(hint, projects, e.cfg.MaxResults)
	switch outcome.Kind {
	case match.KindUnique:
		stripRoutingHints(sess)
		e.selectProject(sess, outcome.Top().Project)
		return e.enterDatePhase(sess), nil
	case match.KindAmbiguous:
		sess.State = StateAwaitingProjectSelection
		sess.ProjectCandidates = outcome.Candidates
		turn := e.turn(sess, fmt.Sprintf("Several projects match %q. Which one did you mean?", hint))
		turn.Candidates = outcome.Candidates
		return turn, nil
	default:
		sess.State = StateAwaitingProjectSelection
		sess.ProjectCandidates = nil
		turn := e.turn(sess, fmt.Sprintf("No project matches %q. Pick an existing project or say 'create %s'.",
			hint, generateProjectName(hint)))
		turn.AvailableProjects = projectNames(projects)
		return turn, nil
	}
}

func (e *Engine) promptProjectSelection(ctx context.Context, sess *Session, message string) *Turn {
	sess.State = StateAwaitingProjectSelection
	turn := e.turn(sess, message)
	if projects, err := e.projects.Snapshot(ctx); err == nil {
		turn.AvailableProjects = projectNames(projects)
	} else {
		e.logf("conversation %s: project snapshot failed: %v", sess.ID, err)
	}
	return turn
}

func (e *Engine) handleProjectSelection(ctx context.Context, sess *Session, input string) (*Turn, error) {
	if m := createPattern.FindStringSubmatch(input); m != nil {
		sess.PendingProjectName = generateProjectName(m[1])
		sess.State = StateAwaitingProjectCreationConfirm
		sess.Retries = 0
		return e.turn(sess, fmt.Sprintf("Create new project %q?", sess.PendingProjectName)), nil
	}

	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 1 || idx > len(sess.ProjectCandidates) {
			return e.retryStep(sess, fmt.Sprintf("There is no option %d. Pick a number between 1 and %d.",
				idx, len(sess.ProjectCandidates)))
		}
		e.selectProject(sess, sess.ProjectCandidates[idx-1].Project)
		return e.enterDatePhase(sess), nil
	}

	projects, err := e.projects.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing projects: %v", ErrUpstream, err)
	}

	outcome := match.Rank(input, projects, e.cfg.MaxResults)
	switch outcome.Kind {
	case match.KindUnique:
		e.selectProject(sess, outcome.Top().Project)
		return e.enterDatePhase(sess), nil
	case match.KindAmbiguous:
		sess.ProjectCandidates = outcome.Candidates
		turn, err := e.retryStep(sess, fmt.Sprintf("Several projects match %q. Which one did you mean?", input))
		if turn != nil {
			turn.Candidates = outcome.Candidates
		}
		return turn, err
	default:
		sess.PendingProjectName = generateProjectName(input)
		sess.State = StateAwaitingProjectCreationConfirm
		sess.Retries = 0
		return e.turn(sess, fmt.Sprintf("No project matches %q. Create new project %q?",
			input, sess.PendingProjectName)), nil
	}
}

func (e *Engine) handleProjectCreation(ctx context.Context, sess *Session, input string) (*Turn, error) {
	lower := strings.ToLower(input)

	if _, yes := affirmatives[lower]; yes {
		project, err := e.creator.CreateProject(ctx, sess.PendingProjectName)
		if err != nil {
			return nil, fmt.Errorf("%w: creating project %q: %v", ErrUpstream, sess.PendingProjectName, err)
		}
		e.logf("conversation %s: created project %s (%s)", sess.ID, project.Name, project.ID)
		sess.PendingProjectName = ""
		e.selectProject(sess, project)
		return e.enterDatePhase(sess), nil
	}

	if lower == "no" || lower == "n" {
		// Correction loop-back to selection.
		sess.PendingProjectName = ""
		sess.Retries = 0
		return e.promptProjectSelection(ctx, sess,
			"Project creation cancelled. Which existing project should I use?"), nil
	}

	return e.retryStep(sess, fmt.Sprintf("Say 'yes' to create %q or 'no' to pick an existing project.",
		sess.PendingProjectName))
}

func (e *Engine) handleDateInput(sess *Session, input string) (*Turn, error) {
	if _, none := noDateWords[strings.ToLower(input)]; none {
		sess.NoDueDate = true
		sess.ResolvedDueDate = ""
		sess.Retries = 0
		return e.enterConfirmation(sess), nil
	}

	res, err := dates.Resolve(input, e.cfg.Clock())
	if err != nil {
		sess.Retries++
		return nil, err
	}
	if !res.Resolved {
		return e.retryStep(sess,
			"I couldn't understand that date. Try 'today', 'tomorrow', 'friday', '2025-06-01', or 'none'.")
	}

	sess.PendingDateExpression = input
	sess.ResolvedDueDate = res.ISO()
	sess.NoDueDate = false
	sess.Retries = 0
	return e.enterConfirmation(sess), nil
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *Session, input string) (*Turn, error) {
	lower := strings.ToLower(input)

	if _, yes := affirmatives[lower]; yes {
		req, err := assemble.Build(assemble.Input{
			Title:     sess.Title,
			Actions:   sess.Actions,
			ProjectID: sess.SelectedProject.ID,
			DueDate:   sess.DueDateForExport(),
			Priority:  sess.Priority,
			Labels:    sess.Labels,
			CreatedAt: sess.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		receipt, err := e.sink.ExportTasks(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: exporting tasks: %v", ErrUpstream, err)
		}
		e.logf("conversation %s: exported %d/%d tasks", sess.ID, receipt.Created, receipt.Total)
		turn := e.terminate(sess, StateCompleted,
			fmt.Sprintf("Created %d of %d tasks in %s.", receipt.Created, receipt.Total, sess.SelectedProject.Name))
		turn.Receipt = &receipt
		return turn, nil
	}

	if lower == "no" || lower == "n" {
		return e.terminate(sess, StateCancelled, "Task creation cancelled."), nil
	}

	// Explicit correction: a date expression re-runs the date resolver
	// and overwrites the resolved due date.
	if res, err := dates.Resolve(input, e.cfg.Clock()); err == nil && res.Resolved {
		sess.PendingDateExpression = input
		sess.ResolvedDueDate = res.ISO()
		sess.NoDueDate = false
		sess.Retries = 0
		turn := e.turn(sess, "Updated the due date. Ready to create tasks. Please confirm:")
		turn.Summary = e.summary(sess)
		return turn, nil
	}

	return e.retryStep(sess, "Say 'yes' to create the tasks or 'no' to cancel.")
}

// --- phase transitions ---

func (e *Engine) selectProject(sess *Session, project match.Project) {
	p := project
	sess.SelectedProject = &p
	sess.Retries = 0
	e.logf("conversation %s: selected project %s (%s)", sess.ID, project.Name, project.ID)
}

func (e *Engine) enterDatePhase(sess *Session) *Turn {
	if hint := extract.DateHint(sess.RawInput); hint != "" {
		if res, err := dates.Resolve(hint, e.cfg.Clock()); err == nil && res.Resolved {
			sess.PendingDateExpression = hint
			sess.ResolvedDueDate = res.ISO()
			return e.enterConfirmation(sess)
		}
	}
	sess.State = StateAwaitingDateInput
	turn := e.turn(sess,
		"When should these tasks be due? Say a date like 'tomorrow' or 'friday', or 'none' for no due date.")
	return turn
}

func (e *Engine) enterConfirmation(sess *Session) *Turn {
	sess.State = StateAwaitingFinalConfirmation
	turn := e.turn(sess, "Ready to create tasks. Please confirm:")
	turn.Summary = e.summary(sess)
	return turn
}

func (e *Engine) summary(sess *Session) *Summary {
	// DueDate stays the raw ISO value ("" for none); presentation layers
	// render the no-date label.
	due := sess.DueDateForExport()
	project := ""
	projectID := ""
	if sess.SelectedProject != nil {
		project = sess.SelectedProject.Name
		projectID = sess.SelectedProject.ID
	}
	return &Summary{
		Project:     project,
		ProjectID:   projectID,
		DueDate:     due,
		Priority:    sess.Priority,
		Labels:      sess.Labels,
		Actions:     sess.Actions,
		ActionCount: len(sess.Actions),
	}
}

// retryStep loops back on the current step, bounded by MaxRetries.
func (e *Engine) retryStep(sess *Session, message string) (*Turn, error) {
	sess.Retries++
	if sess.Retries >= e.cfg.MaxRetries {
		return e.terminate(sess, StateCancelled,
			"Too many unrecognized replies. Cancelling; start over when you're ready."), nil
	}
	return e.turn(sess, message), nil
}

// terminate marks the session terminal and evicts it.
func (e *Engine) terminate(sess *Session, state State, message string) *Turn {
	sess.State = state
	e.store.Delete(sess.ID)
	e.logf("conversation %s: %s", sess.ID, state)
	turn := e.turn(sess, message)
	turn.Done = true
	turn.Summary = e.summary(sess)
	return turn
}

// --- internals ---

func (e *Engine) liveSession(id string) (*Session, error) {
	sess, ok := e.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConversation, id)
	}
	if sess.Expired(e.cfg.Clock()) {
		// Evict lazily but keep the terminal turn for the next sweep so
		// the timeout is still archived.
		turn := e.terminate(sess, StateTimedOut, "Conversation timed out.")
		e.mu.Lock()
		e.pendingTimeouts = append(e.pendingTimeouts, turn)
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s timed out", ErrUnknownConversation, id)
	}
	return sess, nil
}

func (e *Engine) persist(sess *Session) {
	e.store.Save(sess)
}

func (e *Engine) turn(sess *Session, message string) *Turn {
	return &Turn{
		ConversationID: sess.ID,
		State:          sess.State,
		Message:        message,
		Actions:        sess.Actions,
		RawInput:       sess.RawInput,
		Title:          sess.Title,
		StartedAt:      sess.CreatedAt,
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// lock serializes turns per conversation id.
func (e *Engine) lock(id string) func() {
	e.mu.Lock()
	kl, ok := e.locks[id]
	if !ok {
		kl = &keyedLock{}
		e.locks[id] = kl
	}
	kl.refs++
	e.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		e.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(e.locks, id)
		}
		e.mu.Unlock()
	}
}

// stripRoutingHints drops the inline project phrase from each action once it
// has served its purpose, so task content does not repeat it. Actions that
// were nothing but the hint keep their original text.
func stripRoutingHints(sess *Session) {
	for i, action := range sess.Actions {
		if stripped := extract.StripProjectHint(action); stripped != "" {
			sess.Actions[i] = stripped
		}
	}
	if sess.Title != "" {
		if stripped := extract.StripProjectHint(sess.Title); stripped != "" {
			sess.Title = stripped
		}
	}
}

func projectNames(projects []match.Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

var articlePattern = regexp.MustCompile(`(?i)^(my|the|a|an|our)\s+`)

// generateProjectName turns a raw hint into a presentable project name:
// articles stripped, spaces collapsed, title case.
func generateProjectName(hint string) string {
	cleaned := articlePattern.ReplaceAllString(strings.TrimSpace(hint), "")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return "New Project"
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
