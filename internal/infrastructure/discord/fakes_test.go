package discord

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

var errAPI = errors.New("HTTP 404 Not Found")

// fakeAPI records REST calls made through the narrow session interfaces.
type fakeAPI struct {
	mu sync.Mutex

	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	sent      []*discordgo.MessageSend
	sentTo    []string
	msgEdits  []*discordgo.MessageEdit
	typing    int
	threads   []*discordgo.ThreadStart
	starters  []*discordgo.MessageSend

	messages []*discordgo.Message
	channel  *discordgo.Channel
	err      error
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return f.err
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, f.err
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, data)
	f.sentTo = append(f.sentTo, channelID)
	return &discordgo.Message{ID: "sent-1", ChannelID: channelID}, nil
}

func (f *fakeAPI) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgEdits = append(f.msgEdits, m)
	return &discordgo.Message{ID: m.ID}, f.err
}

func (f *fakeAPI) ChannelTyping(string, ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return f.err
}

func (f *fakeAPI) ChannelMessages(string, int, string, string, string, ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return f.messages, f.err
}

func (f *fakeAPI) Channel(string, ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return f.channel, f.err
}

func (f *fakeAPI) ForumThreadStartComplex(_ string, thread *discordgo.ThreadStart, starter *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.threads = append(f.threads, thread)
	f.starters = append(f.starters, starter)
	return &discordgo.Channel{ID: "thread-1"}, nil
}

var epoch = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
