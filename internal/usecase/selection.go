package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/view"
)

// DefaultSelectionTimeout is how long a selection stays open after it is rendered.
const DefaultSelectionTimeout = 180 * time.Second

// SelectionDeps wires the tag selection state machine.
type SelectionDeps struct {
	Sessions ports.SessionStore
	Metrics  ports.Metrics
	Logger   *slog.Logger
	Timeout  time.Duration
	Now      func() time.Time
}

// SelectionFlow drives the tag selection state machine. Every operation on
// a session runs under that session's lock, from the store read to the
// render, and the store's Finish picks the single terminal transition.
type SelectionFlow struct {
	sessions ports.SessionStore
	metrics  ports.Metrics
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
	locks    *keyedMutex

	mu      sync.Mutex
	pending map[string]*expiry
}

// expiry is the timer of a live session plus the responder of the
// interaction that rendered it, needed to edit the selection message later.
type expiry struct {
	timer  *time.Timer
	origin ports.Responder
}

// NewSelectionFlow constructs the state machine.
func NewSelectionFlow(deps SelectionDeps) *SelectionFlow {
	f := &SelectionFlow{
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		timeout:  deps.Timeout,
		now:      deps.Now,
		locks:    newKeyedMutex(),
		pending:  map[string]*expiry{},
	}
	if f.metrics == nil {
		f.metrics = nopMetrics{}
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	if f.timeout <= 0 {
		f.timeout = DefaultSelectionTimeout
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Start opens a session for the invoking user and renders the controls.
func (f *SelectionFlow) Start(ctx context.Context, ev domain.CommandEvent, r ports.Responder) error {
	id := ev.InteractionID
	if id == "" {
		id = uuid.NewString()
	}
	session := domain.SelectionSession{
		ID:        id,
		OwnerID:   ev.User.ID,
		ChannelID: ev.ChannelID,
		CreatedAt: f.now().UTC(),
	}

	unlock := f.locks.Lock(id)
	defer unlock()

	if err := f.sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := r.Reply(ctx, SelectionMessage(session)); err != nil {
		_, _ = f.sessions.Finish(ctx, id)
		return err
	}

	f.arm(id, r)
	f.metrics.SelectionTransition(domain.StateCollecting)
	f.logger.Debug("selection started", "session_id", id, "owner_id", session.OwnerID)
	return nil
}

// Toggle flips value in the session and re-renders every control in place.
func (f *SelectionFlow) Toggle(ctx context.Context, ev domain.ComponentEvent, sessionID, value string, r ports.Responder) error {
	unlock := f.locks.Lock(sessionID)
	defer unlock()

	session, ok, err := f.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return r.DeferUpdate(ctx)
	}
	if session.OwnerID != ev.User.ID {
		return r.Reply(ctx, view.Notice(TextNotOwner, true))
	}
	if !domain.IsCategory(value) {
		return r.DeferUpdate(ctx)
	}

	updated, err := f.sessions.Mutate(ctx, sessionID, func(s *domain.SelectionSession) error {
		return s.Toggle(value)
	})
	switch {
	case errors.Is(err, domain.ErrSelectionFull):
		return r.Reply(ctx, view.Notice(TextMaxTags, true))
	case errors.Is(err, domain.ErrSessionNotFound):
		return r.DeferUpdate(ctx)
	case err != nil:
		return fmt.Errorf("toggle tag: %w", err)
	}

	return r.Update(ctx, SelectionMessage(updated))
}

// Confirm ends the session and hands the selection to the URL form.
func (f *SelectionFlow) Confirm(ctx context.Context, ev domain.ComponentEvent, sessionID string, r ports.Responder) error {
	unlock := f.locks.Lock(sessionID)
	defer unlock()

	session, ok, err := f.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return r.DeferUpdate(ctx)
	}
	if session.OwnerID != ev.User.ID {
		return r.Reply(ctx, view.Notice(TextNotOwner, true))
	}
	if len(session.Selected) == 0 {
		return r.Reply(ctx, view.Notice(TextSelectAtLeastOne, true))
	}

	won, err := f.sessions.Finish(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if !won {
		return r.DeferUpdate(ctx)
	}
	origin := f.disarm(sessionID)
	f.metrics.SelectionTransition(domain.StateAwaitingURL)

	if err := r.OpenTextInput(ctx, URLInput(session.Selected)); err != nil {
		// The session is already finished, so the picker must not stay live.
		f.closeSelection(ctx, origin, sessionID, TextFormUnavailable)
		return err
	}
	f.closeSelection(ctx, origin, sessionID, TextSelectionComplete)
	return nil
}

// closeSelection replaces the picker message with a notice and no controls.
func (f *SelectionFlow) closeSelection(ctx context.Context, origin ports.Responder, sessionID, notice string) {
	if origin == nil {
		return
	}
	if err := origin.EditReply(ctx, TerminalSelectionMessage(notice)); err != nil {
		f.logger.Warn("clear selection controls", "session_id", sessionID, "error", err)
	}
}

// Expire ends the session if it is still open. It is a no-op when confirm
// already won.
func (f *SelectionFlow) Expire(ctx context.Context, sessionID string) {
	unlock := f.locks.Lock(sessionID)
	defer unlock()

	won, err := f.sessions.Finish(ctx, sessionID)
	if err != nil {
		f.logger.Error("expire session", "session_id", sessionID, "error", err)
		return
	}
	origin := f.disarm(sessionID)
	if !won {
		return
	}
	f.metrics.SelectionTransition(domain.StateExpired)
	f.logger.Debug("selection expired", "session_id", sessionID)

	f.closeSelection(ctx, origin, sessionID, TextSelectionExpired)
}

// Shutdown stops all pending expiry timers.
func (f *SelectionFlow) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.pending {
		p.timer.Stop()
		delete(f.pending, id)
	}
}

func (f *SelectionFlow) load(ctx context.Context, sessionID string) (domain.SelectionSession, bool, error) {
	session, err := f.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.SelectionSession{}, false, nil
	}
	if err != nil {
		return domain.SelectionSession{}, false, fmt.Errorf("load session: %w", err)
	}
	return session, true, nil
}

func (f *SelectionFlow) arm(sessionID string, origin ports.Responder) {
	timer := time.AfterFunc(f.timeout, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		f.Expire(ctx, sessionID)
	})

	f.mu.Lock()
	f.pending[sessionID] = &expiry{timer: timer, origin: origin}
	f.mu.Unlock()
}

func (f *SelectionFlow) disarm(sessionID string) ports.Responder {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[sessionID]
	if !ok {
		return nil
	}
	p.timer.Stop()
	delete(f.pending, sessionID)
	return p.origin
}
