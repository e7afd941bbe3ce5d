package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/view"
)

const threadArchiveMinutes = 1440

// restAPI is the part of *discordgo.Session used for forum threads.
type restAPI interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ForumThreadStartComplex(channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Gateway reads and writes forum threads over the REST API.
type Gateway struct {
	api restAPI
}

var (
	_ ports.ForumGateway   = (*Gateway)(nil)
	_ ports.ForumPublisher = (*Gateway)(nil)
)

func NewGateway(api restAPI) *Gateway {
	return &Gateway{api: api}
}

// RecentMessages returns up to limit messages, newest first.
func (g *Gateway) RecentMessages(ctx context.Context, channelID string, limit int) ([]domain.ThreadMessage, error) {
	messages, err := g.api.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, &domain.ProtocolError{Op: "read messages", Err: err}
	}
	out := make([]domain.ThreadMessage, 0, len(messages))
	for _, m := range messages {
		if m != nil {
			out = append(out, threadMessage(m))
		}
	}
	return out, nil
}

// ForumTags maps the forum's available tag IDs to names.
func (g *Gateway) ForumTags(ctx context.Context, forumID string) (map[string]string, error) {
	ch, err := g.api.Channel(forumID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, &domain.ProtocolError{Op: "read forum", Err: err}
	}
	tags := make(map[string]string, len(ch.AvailableTags))
	for _, t := range ch.AvailableTags {
		tags[t.ID] = t.Name
	}
	return tags, nil
}

func (g *Gateway) Send(ctx context.Context, channelID, replyTo string, msg view.Message) error {
	if _, err := g.api.ChannelMessageSendComplex(channelID, messageSend(msg, channelID, replyTo), discordgo.WithContext(ctx)); err != nil {
		return &domain.ProtocolError{Op: "send message", Err: err}
	}
	return nil
}

// Publish starts a forum thread whose starter message carries post.Card.
func (g *Gateway) Publish(ctx context.Context, forumID string, post view.ForumPost) (string, error) {
	card := post.Card
	thread, err := g.api.ForumThreadStartComplex(forumID,
		&discordgo.ThreadStart{Name: post.Name, AutoArchiveDuration: threadArchiveMinutes},
		&discordgo.MessageSend{Embeds: renderEmbeds(&card)},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return "", &domain.ProtocolError{Op: "publish thread", Err: err}
	}
	return thread.ID, nil
}
