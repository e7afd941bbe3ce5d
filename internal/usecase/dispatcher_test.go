package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleBot/internal/command"
	"ArticleBot/internal/domain"
)

type dispatcherFixture struct {
	dispatcher *Dispatcher
	selection  *SelectionFlow
	store      *countingStore
	resolver   *stubResolver
	publisher  *fakePublisher
}

func newDispatcherFixture(t *testing.T) dispatcherFixture {
	t.Helper()

	store := newCountingStore()
	resolver := &stubResolver{meta: domain.ArticleMetadata{Title: "Example", Description: domain.StringPtr("About things")}}
	submitter := newTestSubmitter(store, resolver, &recordingMetrics{})
	selection, _ := newTestSelection(time.Minute, &recordingMetrics{})
	t.Cleanup(selection.Shutdown)

	registry := command.NewRegistry()
	RegisterDefaultCommands(registry, selection)

	publisher := &fakePublisher{}
	return dispatcherFixture{
		dispatcher: NewDispatcher(DispatcherDeps{
			Commands:  registry,
			Selection: selection,
			Submitter: submitter,
			Publisher: publisher,
			ForumID:   "forum-1",
		}),
		selection: selection,
		store:     store,
		resolver:  resolver,
		publisher: publisher,
	}
}

func modalEvent(id, url string) domain.ModalEvent {
	return domain.ModalEvent{
		CustomID:  id,
		Fields:    map[string]string{URLFieldID: url},
		User:      domain.User{ID: "user-1", Name: "alice"},
		ChannelID: "channel-1",
	}
}

func TestDispatcherEndToEnd(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	ctx := context.Background()
	user := domain.User{ID: "user-1", Name: "alice"}

	origin := &recorder{}
	fx.dispatcher.HandleCommand(ctx, domain.CommandEvent{
		Name: "article", User: user, InteractionID: "i-1", Source: domain.CommandSlash,
	}, origin)
	require.Equal(t, "reply", origin.Last().Op)

	button := &recorder{}
	fx.dispatcher.HandleComponent(ctx, domain.ComponentEvent{CustomID: TagControlID("i-1", "backend"), User: user}, button)
	require.Equal(t, "update", button.Last().Op)

	confirm := &recorder{}
	fx.dispatcher.HandleComponent(ctx, domain.ComponentEvent{CustomID: ConfirmControlID("i-1"), User: user}, confirm)
	form := confirm.Last()
	require.Equal(t, "modal", form.Op)

	modal := &recorder{}
	fx.dispatcher.HandleModal(ctx, modalEvent(form.Input.ID, "https://example.com/a"), modal)

	calls := modal.Calls()
	require.Len(t, calls, 2, "defer then exactly one edit")
	assert.Equal(t, "defer", calls[0].Op)
	assert.False(t, calls[0].Msg.Ephemeral)
	assert.Equal(t, "edit", calls[1].Op)
	assert.Contains(t, calls[1].Msg.Content, TextCreated)
	assert.Contains(t, calls[1].Msg.Content, "<#thread-42>")
	assert.Equal(t, "Backend", calls[1].Msg.Card.Fields[0].Value)

	stored, err := fx.store.GetByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend"}, stored.Categories)
	require.Len(t, fx.publisher.posts, 1)
	assert.Equal(t, "Example", fx.publisher.posts[0].Name)

	again := &recorder{}
	fx.dispatcher.HandleModal(ctx, modalEvent(form.Input.ID, "https://example.com/a"), again)
	assert.Equal(t, TextDuplicate, again.Last().Msg.Content)
	assert.Len(t, fx.publisher.posts, 1, "duplicates are not republished")
}

func TestDispatcherModalValidationError(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	r := &recorder{}
	fx.dispatcher.HandleModal(context.Background(), modalEvent("article:modal:backend", "not a url"), r)

	assert.Equal(t, 1, r.Count("edit"))
	assert.Equal(t, "Please enter a valid URL.", r.Last().Msg.Content)
	assert.Zero(t, fx.store.Inserts())
}

func TestDispatcherModalMetadataError(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	fx.resolver.err = &domain.ExternalServiceError{Service: "OpenGraph", Err: errBoom}

	r := &recorder{}
	fx.dispatcher.HandleModal(context.Background(), modalEvent("article:modal:backend", "https://example.com/a"), r)

	assert.Equal(t, TextMetadataFailed, r.Last().Msg.Content)
	assert.Empty(t, fx.publisher.posts)
}

func TestDispatcherPublishFailureStillConfirms(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	fx.publisher.err = errBoom

	r := &recorder{}
	fx.dispatcher.HandleModal(context.Background(), modalEvent("article:modal:backend", "https://example.com/a"), r)

	assert.Equal(t, TextCreated, r.Last().Msg.Content)
}

func TestDispatcherCommands(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	ctx := context.Background()

	text := &recorder{}
	fx.dispatcher.HandleCommand(ctx, domain.CommandEvent{Name: "article", Source: domain.CommandText}, text)
	assert.Equal(t, TextUseSlashCommand, text.Last().Msg.Content)

	help := &recorder{}
	fx.dispatcher.HandleCommand(ctx, domain.CommandEvent{Name: "help", Source: domain.CommandSlash}, help)
	card := help.Last().Msg.Card
	require.NotNil(t, card)
	require.Len(t, card.Fields, 2)
	assert.Equal(t, "/article", card.Fields[0].Name)
	assert.Equal(t, "/help", card.Fields[1].Name)

	unknown := &recorder{}
	fx.dispatcher.HandleCommand(ctx, domain.CommandEvent{Name: "ping"}, unknown)
	assert.Equal(t, TextUnknownCommand, unknown.Last().Msg.Content)
}

func TestDispatcherUnknownControlsAreAcknowledged(t *testing.T) {
	t.Parallel()

	fx := newDispatcherFixture(t)
	ctx := context.Background()

	r := &recorder{}
	fx.dispatcher.HandleComponent(ctx, domain.ComponentEvent{CustomID: "something-else"}, r)
	fx.dispatcher.HandleComponent(ctx, domain.ComponentEvent{CustomID: TagControlID("gone", "backend")}, r)
	fx.dispatcher.HandleModal(ctx, domain.ModalEvent{CustomID: "other-form"}, r)

	assert.Equal(t, 3, r.Count("defer_update"))
	assert.Len(t, r.Calls(), 3)
}
