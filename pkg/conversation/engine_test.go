package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/match"
)

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*Session)}
}

func (s *fakeStore) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *fakeStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *fakeStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *fakeStore) Active() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

type fakeBackend struct {
	projects    []match.Project
	snapshotErr error
	createErr   error
	exportErr   error

	created  []string
	exported []assemble.Request
}

func (b *fakeBackend) Snapshot(_ context.Context) ([]match.Project, error) {
	if b.snapshotErr != nil {
		return nil, b.snapshotErr
	}
	return b.projects, nil
}

func (b *fakeBackend) CreateProject(_ context.Context, name string) (match.Project, error) {
	if b.createErr != nil {
		return match.Project{}, b.createErr
	}
	b.created = append(b.created, name)
	p := match.Project{ID: "new-" + name, Name: name}
	b.projects = append(b.projects, p)
	return p, nil
}

func (b *fakeBackend) ExportTasks(_ context.Context, req assemble.Request) (assemble.Receipt, error) {
	if b.exportErr != nil {
		return assemble.Receipt{}, b.exportErr
	}
	b.exported = append(b.exported, req)
	total := 1 + len(req.Subtasks)
	return assemble.Receipt{MainTaskID: "task-1", Created: total, Total: total}, nil
}

var testRef = time.Date(2025, time.January, 14, 10, 0, 0, 0, time.UTC) // a Tuesday

func newTestEngine(backend *fakeBackend, clock *time.Time) (*Engine, *fakeStore) {
	store := newFakeStore()
	eng := NewEngine(store, backend, backend, backend, nil, Config{
		DefaultLabels: []string{"voice", "ha"},
		Clock:         func() time.Time { return *clock },
	})
	return eng, store
}

func defaultBackend() *fakeBackend {
	return &fakeBackend{projects: []match.Project{
		{ID: "p1", Name: "Groceries"},
		{ID: "p2", Name: "Work"},
		{ID: "p3", Name: "Home"},
	}}
}

func TestFullFlowToCompletion(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	eng, store := newTestEngine(backend, &clock)
	ctx := context.Background()

	turn, err := eng.Start(ctx, StartInput{Text: "I need to buy milk and then buy bread"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if turn.State != StateAwaitingProjectSelection {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingProjectSelection)
	}
	if len(turn.Actions) != 2 {
		t.Fatalf("actions = %v, want 2", turn.Actions)
	}
	id := turn.ConversationID

	turn, err = eng.Continue(ctx, id, "groceries")
	if err != nil {
		t.Fatalf("Continue(project): %v", err)
	}
	if turn.State != StateAwaitingDateInput {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingDateInput)
	}

	turn, err = eng.Continue(ctx, id, "tomorrow")
	if err != nil {
		t.Fatalf("Continue(date): %v", err)
	}
	if turn.State != StateAwaitingFinalConfirmation {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingFinalConfirmation)
	}
	if turn.Summary == nil || turn.Summary.DueDate != "2025-01-15" {
		t.Fatalf("summary = %+v, want due 2025-01-15", turn.Summary)
	}

	turn, err = eng.Continue(ctx, id, "yes")
	if err != nil {
		t.Fatalf("Continue(confirm): %v", err)
	}
	if turn.State != StateCompleted || !turn.Done {
		t.Fatalf("state = %s done = %v, want completed", turn.State, turn.Done)
	}
	if turn.Receipt == nil || turn.Receipt.Created != 2 {
		t.Fatalf("receipt = %+v, want 2 created", turn.Receipt)
	}
	if len(backend.exported) != 1 || backend.exported[0].ProjectID != "p1" {
		t.Fatalf("exported = %+v", backend.exported)
	}
	if _, ok := store.Get(id); ok {
		t.Fatal("completed session still in store")
	}
}

func TestStartWithProjectAndDateHints(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	eng, _ := newTestEngine(backend, &clock)

	turn, err := eng.Start(context.Background(), StartInput{
		Text: "add buy milk to my groceries list tomorrow",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if turn.State != StateAwaitingFinalConfirmation {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingFinalConfirmation)
	}
	if turn.Summary.Project != "Groceries" {
		t.Fatalf("project = %q, want Groceries", turn.Summary.Project)
	}
	if turn.Summary.DueDate != "2025-01-15" {
		t.Fatalf("due = %q, want 2025-01-15", turn.Summary.DueDate)
	}
}

func TestStartEmptyInput(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)

	for _, text := range []string{"", "   ", "..."} {
		if _, err := eng.Start(context.Background(), StartInput{Text: text}); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Start(%q) err = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestStartIDCollision(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	if _, err := eng.Start(ctx, StartInput{Text: "buy milk", ConversationID: "conv-1"}); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := eng.Start(ctx, StartInput{Text: "buy bread", ConversationID: "conv-1"}); !errors.Is(err, ErrConversationExists) {
		t.Fatalf("second Start err = %v, want ErrConversationExists", err)
	}

	// After the first conversation expires the id is reusable.
	clock = clock.Add(10 * time.Minute)
	if _, err := eng.Start(ctx, StartInput{Text: "buy bread", ConversationID: "conv-1"}); err != nil {
		t.Fatalf("Start after expiry: %v", err)
	}
}

func TestContinueUnknownConversation(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)

	if _, err := eng.Continue(context.Background(), "nope", "yes"); !errors.Is(err, ErrUnknownConversation) {
		t.Fatalf("err = %v, want ErrUnknownConversation", err)
	}
}

func TestTimeoutEvictsSession(t *testing.T) {
	clock := testRef
	eng, store := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, err := eng.Start(ctx, StartInput{Text: "buy milk", TimeoutSeconds: 60})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := turn.ConversationID

	clock = clock.Add(2 * time.Minute)
	if _, err := eng.Continue(ctx, id, "groceries"); !errors.Is(err, ErrUnknownConversation) {
		t.Fatalf("err = %v, want ErrUnknownConversation", err)
	}
	if _, ok := store.Get(id); ok {
		t.Fatal("expired session still in store")
	}
}

func TestActivityExtendsTimeout(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk", TimeoutSeconds: 60})
	id := turn.ConversationID

	// Each turn inside the window resets the inactivity clock.
	for i := 0; i < 3; i++ {
		clock = clock.Add(45 * time.Second)
		if _, err := eng.Continue(ctx, id, "what?"); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
}

func TestCancelKeywordAtAnyState(t *testing.T) {
	clock := testRef
	eng, store := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID

	turn, err := eng.Continue(ctx, id, "never mind")
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if turn.State != StateCancelled || !turn.Done {
		t.Fatalf("state = %s done = %v, want cancelled", turn.State, turn.Done)
	}
	if _, ok := store.Get(id); ok {
		t.Fatal("cancelled session still in store")
	}
}

func TestAmbiguousSelectionByNumber(t *testing.T) {
	clock := testRef
	backend := &fakeBackend{projects: []match.Project{
		{ID: "p1", Name: "Home"},
		{ID: "p2", Name: "Homework"},
	}}
	eng, _ := newTestEngine(backend, &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID

	turn, err := eng.Continue(ctx, id, "hom")
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if len(turn.Candidates) != 2 {
		t.Fatalf("candidates = %+v, want 2", turn.Candidates)
	}

	turn, err = eng.Continue(ctx, id, "2")
	if err != nil {
		t.Fatalf("Continue(number): %v", err)
	}
	if turn.State != StateAwaitingDateInput {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingDateInput)
	}
}

func TestNoMatchOffersCreation(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	eng, _ := newTestEngine(backend, &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID

	turn, err := eng.Continue(ctx, id, "my vacation planning")
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if turn.State != StateAwaitingProjectCreationConfirm {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingProjectCreationConfirm)
	}

	turn, err = eng.Continue(ctx, id, "yes")
	if err != nil {
		t.Fatalf("Continue(yes): %v", err)
	}
	if len(backend.created) != 1 || backend.created[0] != "Vacation Planning" {
		t.Fatalf("created = %v, want [Vacation Planning]", backend.created)
	}
	if turn.State != StateAwaitingDateInput {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingDateInput)
	}
}

func TestCreationDeclinedLoopsBackToSelection(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID

	eng.Continue(ctx, id, "vacation")
	turn, err := eng.Continue(ctx, id, "no")
	if err != nil {
		t.Fatalf("Continue(no): %v", err)
	}
	if turn.State != StateAwaitingProjectSelection {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingProjectSelection)
	}

	// The loop-back still accepts a normal selection.
	turn, err = eng.Continue(ctx, id, "work")
	if err != nil {
		t.Fatalf("Continue(work): %v", err)
	}
	if turn.State != StateAwaitingDateInput {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingDateInput)
	}
}

func TestDateInputSkip(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")

	turn, err := eng.Continue(ctx, id, "none")
	if err != nil {
		t.Fatalf("Continue(none): %v", err)
	}
	if turn.State != StateAwaitingFinalConfirmation {
		t.Fatalf("state = %s, want %s", turn.State, StateAwaitingFinalConfirmation)
	}
	if turn.Summary.DueDate != "" {
		t.Fatalf("due = %q, want empty for no date", turn.Summary.DueDate)
	}
}

func TestMalformedDateKeepsState(t *testing.T) {
	clock := testRef
	eng, store := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")

	if _, err := eng.Continue(ctx, id, "2025-13-45"); err == nil {
		t.Fatal("want error for malformed date")
	}
	sess, ok := store.Get(id)
	if !ok || sess.State != StateAwaitingDateInput {
		t.Fatalf("session state = %v ok = %v, want awaiting date", sess, ok)
	}
}

func TestConfirmationDateCorrection(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "tomorrow")

	turn, err := eng.Continue(ctx, id, "next friday")
	if err != nil {
		t.Fatalf("Continue(correction): %v", err)
	}
	if turn.State != StateAwaitingFinalConfirmation {
		t.Fatalf("state = %s, want still confirming", turn.State)
	}
	if turn.Summary.DueDate != "2025-01-17" {
		t.Fatalf("due = %q, want 2025-01-17", turn.Summary.DueDate)
	}
}

func TestConfirmationDeclinedCancels(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")

	turn, err := eng.Continue(ctx, id, "no")
	if err != nil {
		t.Fatalf("Continue(no): %v", err)
	}
	if turn.State != StateCancelled {
		t.Fatalf("state = %s, want cancelled", turn.State)
	}
}

func TestExportFailureKeepsConfirmation(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	eng, store := newTestEngine(backend, &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")

	backend.exportErr = errors.New("todoist 503")
	if _, err := eng.Continue(ctx, id, "yes"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	sess, ok := store.Get(id)
	if !ok || sess.State != StateAwaitingFinalConfirmation {
		t.Fatalf("session after failure = %+v ok = %v, want still confirming", sess, ok)
	}

	// Retry succeeds once the upstream recovers.
	backend.exportErr = nil
	turn, err := eng.Continue(ctx, id, "yes")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if turn.State != StateCompleted {
		t.Fatalf("state = %s, want completed", turn.State)
	}
}

func TestRetryBoundCancels(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")

	var last *Turn
	for i := 0; i < DefaultMaxRetries; i++ {
		var err error
		last, err = eng.Continue(ctx, id, "banana")
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	if last.State != StateCancelled {
		t.Fatalf("state = %s, want cancelled after %d retries", last.State, DefaultMaxRetries)
	}
}

func TestSnapshotFailureAtStartDegrades(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	backend.snapshotErr = errors.New("todoist down")
	eng, _ := newTestEngine(backend, &clock)

	turn, err := eng.Start(context.Background(), StartInput{Text: "add buy milk to my groceries list"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if turn.State != StateAwaitingProjectSelection {
		t.Fatalf("state = %s, want selection fallback", turn.State)
	}
}

func TestStatusAndActive(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk", ConversationID: "conv-a"})

	snap, err := eng.Status(turn.ConversationID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snap.State != StateAwaitingProjectSelection {
		t.Fatalf("snapshot state = %s", snap.State)
	}
	if got := eng.Active(); len(got) != 1 {
		t.Fatalf("active = %d, want 1", len(got))
	}

	clock = clock.Add(10 * time.Minute)
	if got := eng.Active(); len(got) != 0 {
		t.Fatalf("active after expiry = %d, want 0", len(got))
	}
	turns := eng.SweepExpired()
	if len(turns) != 1 {
		t.Fatalf("swept = %d, want 1", len(turns))
	}
	if turns[0].State != StateTimedOut || !turns[0].Done {
		t.Fatalf("swept turn = %s done=%v, want terminal %s", turns[0].State, turns[0].Done, StateTimedOut)
	}
}

func TestDefaultLabelsApplied(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	eng, _ := newTestEngine(backend, &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")
	if _, err := eng.Continue(ctx, id, "yes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	req := backend.exported[0]
	if len(req.Labels) != 2 || req.Labels[0] != "voice" || req.Labels[1] != "ha" {
		t.Fatalf("labels = %v, want [voice ha]", req.Labels)
	}
}

func TestSweepReturnsTimedOutTurns(t *testing.T) {
	clock := testRef
	eng, store := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk", ConversationID: "conv-a"})
	id := turn.ConversationID

	clock = clock.Add(10 * time.Minute)
	turns := eng.SweepExpired()
	if len(turns) != 1 {
		t.Fatalf("swept = %d, want 1", len(turns))
	}
	got := turns[0]
	if got.ConversationID != id || got.State != StateTimedOut || !got.Done {
		t.Fatalf("turn = %+v, want terminal %s for %s", got, StateTimedOut, id)
	}
	if got.Summary == nil || len(got.Summary.Actions) != 1 || got.Summary.Actions[0] != "buy milk" {
		t.Fatalf("summary = %+v, want actions carried over", got.Summary)
	}
	if _, ok := store.Get(id); ok {
		t.Fatal("timed out session still in store")
	}
	if again := eng.SweepExpired(); len(again) != 0 {
		t.Fatalf("second sweep = %d, want 0", len(again))
	}
}

func TestLazyEvictionQueuedForSweep(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID

	clock = clock.Add(10 * time.Minute)
	if _, err := eng.Continue(ctx, id, "groceries"); !errors.Is(err, ErrUnknownConversation) {
		t.Fatalf("err = %v, want ErrUnknownConversation", err)
	}

	// The eviction happened on the Continue path; the sweep still hands it out
	// once so the caller can archive it.
	turns := eng.SweepExpired()
	if len(turns) != 1 || turns[0].ConversationID != id || turns[0].State != StateTimedOut {
		t.Fatalf("turns = %+v, want one timed out turn for %s", turns, id)
	}
}

func TestStartOverExpiredIDQueuesTimeout(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	eng.Start(ctx, StartInput{Text: "buy milk", ConversationID: "conv-a"})
	clock = clock.Add(10 * time.Minute)

	turn, err := eng.Start(ctx, StartInput{Text: "walk the dog", ConversationID: "conv-a"})
	if err != nil {
		t.Fatalf("Start over expired id: %v", err)
	}
	if turn.State != StateAwaitingProjectSelection {
		t.Fatalf("state = %s, want fresh conversation", turn.State)
	}

	turns := eng.SweepExpired()
	if len(turns) != 1 || turns[0].State != StateTimedOut {
		t.Fatalf("turns = %+v, want the displaced conversation timed out", turns)
	}
	if got := len(eng.Active()); got != 1 {
		t.Fatalf("active = %d, want the fresh conversation kept", got)
	}
}

func TestConfiguredDefaultPriority(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	store := newFakeStore()
	eng := NewEngine(store, backend, backend, backend, nil, Config{
		DefaultPriority: 2,
		Clock:           func() time.Time { return clock },
	})
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk"})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")
	if _, err := eng.Continue(ctx, id, "yes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := backend.exported[0].Priority; got != 2 {
		t.Fatalf("priority = %d, want configured default 2", got)
	}
}

func TestExplicitPriorityBeatsDefault(t *testing.T) {
	clock := testRef
	backend := defaultBackend()
	store := newFakeStore()
	eng := NewEngine(store, backend, backend, backend, nil, Config{
		DefaultPriority: 2,
		Clock:           func() time.Time { return clock },
	})
	ctx := context.Background()

	turn, _ := eng.Start(ctx, StartInput{Text: "buy milk", Priority: 1})
	id := turn.ConversationID
	eng.Continue(ctx, id, "groceries")
	eng.Continue(ctx, id, "none")
	if _, err := eng.Continue(ctx, id, "yes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := backend.exported[0].Priority; got != 1 {
		t.Fatalf("priority = %d, want explicit 1", got)
	}
}

func TestConcurrentTurnsAndListing(t *testing.T) {
	clock := testRef
	eng, _ := newTestEngine(defaultBackend(), &clock)
	ctx := context.Background()

	ids := make([]string, 4)
	for i := range ids {
		turn, err := eng.Start(ctx, StartInput{Text: "buy milk", ConversationID: fmt.Sprintf("conv-%d", i)})
		if err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		ids[i] = turn.ConversationID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			// Alternate between an unmatched selection and backing out of the
			// creation prompt so the conversation never terminates.
			inputs := []string{"zzz qqq", "no"}
			for i := 0; i < 50; i++ {
				if _, err := eng.Continue(ctx, id, inputs[i%2]); err != nil {
					t.Errorf("Continue %s: %v", id, err)
					return
				}
			}
		}(id)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			eng.Active()
			eng.SweepExpired()
		}
	}()
	wg.Wait()

	if got := len(eng.Active()); got != len(ids) {
		t.Fatalf("active = %d, want %d", got, len(ids))
	}
}
