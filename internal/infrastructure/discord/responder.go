package discord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/view"
)

var errUnsupported = errors.New("not supported for text commands")

// interactionAPI is the part of *discordgo.Session used to answer interactions.
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// InteractionResponder answers one interaction.
type InteractionResponder struct {
	api         interactionAPI
	interaction *discordgo.Interaction
}

var _ ports.Responder = (*InteractionResponder)(nil)

func NewInteractionResponder(api interactionAPI, i *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{api: api, interaction: i}
}

func (r *InteractionResponder) respond(ctx context.Context, op string, resp *discordgo.InteractionResponse) error {
	if err := r.api.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return &domain.ProtocolError{Op: op, Err: err}
	}
	return nil
}

func (r *InteractionResponder) Reply(ctx context.Context, msg view.Message) error {
	return r.respond(ctx, "reply", &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(msg),
	})
}

func (r *InteractionResponder) Defer(ctx context.Context, ephemeral bool) error {
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return r.respond(ctx, "defer", resp)
}

func (r *InteractionResponder) DeferUpdate(ctx context.Context) error {
	return r.respond(ctx, "acknowledge", &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (r *InteractionResponder) Update(ctx context.Context, msg view.Message) error {
	return r.respond(ctx, "update", &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: responseData(msg),
	})
}

func (r *InteractionResponder) EditReply(ctx context.Context, msg view.Message) error {
	if _, err := r.api.InteractionResponseEdit(r.interaction, webhookEdit(msg), discordgo.WithContext(ctx)); err != nil {
		return &domain.ProtocolError{Op: "edit reply", Err: err}
	}
	return nil
}

func (r *InteractionResponder) OpenTextInput(ctx context.Context, input view.TextInput) error {
	return r.respond(ctx, "open form", &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modalData(input),
	})
}

// messageAPI is the part of *discordgo.Session used to answer text commands.
type messageAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// MessageResponder answers a prefix text command by replying in the channel.
// Edits target the last reply it sent.
type MessageResponder struct {
	api       messageAPI
	channelID string
	messageID string

	mu     sync.Mutex
	sentID string
}

var _ ports.Responder = (*MessageResponder)(nil)

func NewMessageResponder(api messageAPI, channelID, messageID string) *MessageResponder {
	return &MessageResponder{api: api, channelID: channelID, messageID: messageID}
}

func (r *MessageResponder) Reply(ctx context.Context, msg view.Message) error {
	sent, err := r.api.ChannelMessageSendComplex(r.channelID, messageSend(msg, r.channelID, r.messageID), discordgo.WithContext(ctx))
	if err != nil {
		return &domain.ProtocolError{Op: "reply", Err: err}
	}
	r.mu.Lock()
	r.sentID = sent.ID
	r.mu.Unlock()
	return nil
}

func (r *MessageResponder) Defer(ctx context.Context, _ bool) error {
	if err := r.api.ChannelTyping(r.channelID, discordgo.WithContext(ctx)); err != nil {
		return &domain.ProtocolError{Op: "defer", Err: err}
	}
	return nil
}

func (r *MessageResponder) DeferUpdate(context.Context) error {
	return nil
}

func (r *MessageResponder) Update(ctx context.Context, msg view.Message) error {
	return r.EditReply(ctx, msg)
}

func (r *MessageResponder) EditReply(ctx context.Context, msg view.Message) error {
	r.mu.Lock()
	sentID := r.sentID
	r.mu.Unlock()

	if sentID == "" {
		return r.Reply(ctx, msg)
	}
	if _, err := r.api.ChannelMessageEditComplex(messageEdit(msg, r.channelID, sentID), discordgo.WithContext(ctx)); err != nil {
		return &domain.ProtocolError{Op: "edit reply", Err: err}
	}
	return nil
}

func (r *MessageResponder) OpenTextInput(context.Context, view.TextInput) error {
	return &domain.ProtocolError{Op: "open form", Err: errUnsupported}
}
