package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/infrastructure/session"
	"ArticleBot/internal/infrastructure/storage"
	"ArticleBot/internal/view"
)

type call struct {
	Op    string
	Msg   view.Message
	Input view.TextInput
}

// recorder is a ports.Responder that keeps every call.
type recorder struct {
	mu    sync.Mutex
	calls []call
	fail  error
}

func (r *recorder) record(c call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.fail
}

func (r *recorder) Reply(_ context.Context, msg view.Message) error {
	return r.record(call{Op: "reply", Msg: msg})
}

func (r *recorder) Defer(_ context.Context, ephemeral bool) error {
	return r.record(call{Op: "defer", Msg: view.Message{Ephemeral: ephemeral}})
}

func (r *recorder) DeferUpdate(context.Context) error {
	return r.record(call{Op: "defer_update"})
}

func (r *recorder) Update(_ context.Context, msg view.Message) error {
	return r.record(call{Op: "update", Msg: msg})
}

func (r *recorder) EditReply(_ context.Context, msg view.Message) error {
	return r.record(call{Op: "edit", Msg: msg})
}

func (r *recorder) OpenTextInput(_ context.Context, input view.TextInput) error {
	return r.record(call{Op: "modal", Input: input})
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recorder) Last() call {
	calls := r.Calls()
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

func (r *recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// countingStore wraps the memory repository with call counters and
// optional failures.
type countingStore struct {
	*storage.MemoryRepository
	mu         sync.Mutex
	inserts    int
	getErr     error
	insertErr  error
	conflictOn string
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryRepository: storage.NewMemoryRepository()}
}

func (s *countingStore) GetByURL(ctx context.Context, url string) (domain.Article, error) {
	if s.getErr != nil {
		return domain.Article{}, s.getErr
	}
	return s.MemoryRepository.GetByURL(ctx, url)
}

func (s *countingStore) Insert(ctx context.Context, a domain.Article) (domain.Article, error) {
	s.mu.Lock()
	s.inserts++
	s.mu.Unlock()
	if s.insertErr != nil {
		return domain.Article{}, s.insertErr
	}
	if s.conflictOn == a.URL {
		// another writer stored the URL between lookup and insert
		winner := a
		winner.ID = "winner"
		winner.SubmittedBy = "someone-else"
		_, _ = s.MemoryRepository.Insert(ctx, winner)
	}
	return s.MemoryRepository.Insert(ctx, a)
}

func (s *countingStore) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

type stubResolver struct {
	mu    sync.Mutex
	calls int
	meta  domain.ArticleMetadata
	err   error
}

func (r *stubResolver) Resolve(context.Context, string) (domain.ArticleMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return domain.ArticleMetadata{}, r.err
	}
	return r.meta, nil
}

func (r *stubResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type recordingMetrics struct {
	mu          sync.Mutex
	outcomes    []string
	transitions []domain.SelectionState
}

func (m *recordingMetrics) SubmissionCompleted(_ domain.SubmissionSource, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) MetadataFetched(time.Duration, error) {}

func (m *recordingMetrics) SelectionTransition(state domain.SelectionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, state)
}

func (m *recordingMetrics) Transitions() []domain.SelectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SelectionState(nil), m.transitions...)
}

type sentMessage struct {
	ChannelID string
	ReplyTo   string
	Msg       view.Message
}

type fakeGateway struct {
	mu       sync.Mutex
	messages []domain.ThreadMessage
	tags     map[string]string
	tagsErr  error
	readErr  error
	sent     []sentMessage
	limits   []int
}

func (g *fakeGateway) RecentMessages(_ context.Context, _ string, limit int) ([]domain.ThreadMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.limits = append(g.limits, limit)
	return g.messages, g.readErr
}

func (g *fakeGateway) ForumTags(context.Context, string) (map[string]string, error) {
	return g.tags, g.tagsErr
}

func (g *fakeGateway) Send(_ context.Context, channelID, replyTo string, msg view.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentMessage{ChannelID: channelID, ReplyTo: replyTo, Msg: msg})
	return nil
}

func (g *fakeGateway) Sent() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.sent...)
}

type fakePublisher struct {
	mu    sync.Mutex
	posts []view.ForumPost
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, _ string, post view.ForumPost) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	if p.err != nil {
		return "", p.err
	}
	return "thread-42", nil
}

var errBoom = errors.New("boom")

var fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))

func newTestSubmitter(store *countingStore, resolver *stubResolver, metrics *recordingMetrics) *Submitter {
	return NewSubmitter(SubmitterDeps{
		Store:    store,
		Resolver: resolver,
		Metrics:  metrics,
		Now:      func() time.Time { return fixedNow },
		NewID:    func() string { return "article-1" },
	})
}

func newTestSelection(timeout time.Duration, metrics *recordingMetrics) (*SelectionFlow, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return NewSelectionFlow(SelectionDeps{
		Sessions: store,
		Metrics:  metrics,
		Timeout:  timeout,
	}), store
}
