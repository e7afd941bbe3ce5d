package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// New creates a console slog.Logger with provided level and format strings.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: LevelFromString(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// LevelFromString maps a config level name to slog; unknown names mean debug.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// DiscordLevel returns the discordgo log level matching an slog level.
func DiscordLevel(level slog.Level) int {
	switch {
	case level >= slog.LevelError:
		return discordgo.LogError
	case level >= slog.LevelWarn:
		return discordgo.LogWarning
	case level >= slog.LevelInfo:
		return discordgo.LogInformational
	default:
		return discordgo.LogDebug
	}
}

// BridgeDiscord routes discordgo's package logger into logger.
func BridgeDiscord(logger *slog.Logger) {
	discordgo.Logger = DiscordLogFunc(logger.With("component", "discordgo"))
}

// DiscordLogFunc adapts logger to discordgo's logger signature.
func DiscordLogFunc(logger *slog.Logger) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, _ int, format string, a ...interface{}) {
		level := slog.LevelDebug
		switch msgL {
		case discordgo.LogError:
			level = slog.LevelError
		case discordgo.LogWarning:
			level = slog.LevelWarn
		case discordgo.LogInformational:
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, a...)))
	}
}
