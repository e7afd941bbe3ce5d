package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleBot/internal/config"
)

func TestBotDropsEventsAfterClose(t *testing.T) {
	t.Parallel()

	session, err := NewSession(config.DiscordConfig{Token: "token"}, discordgo.LogError)
	require.NoError(t, err)
	bot := NewBot(session, BotDeps{})

	ran := 0
	bot.track(func(context.Context) { ran++ })
	require.NoError(t, bot.Close(context.Background()))
	bot.track(func(context.Context) { ran++ })

	assert.Equal(t, 1, ran)
}

func TestBotTrackRecoversPanics(t *testing.T) {
	t.Parallel()

	session, err := NewSession(config.DiscordConfig{Token: "token"}, discordgo.LogError)
	require.NoError(t, err)
	bot := NewBot(session, BotDeps{})

	assert.NotPanics(t, func() {
		bot.track(func(context.Context) { panic("handler bug") })
	})
	require.NoError(t, bot.Close(context.Background()))
}
