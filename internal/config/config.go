package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "ARTICLE_BOT_CONFIG"
	discordTokenEnv     = "DISCORD_TOKEN"
	discordAppIDEnv     = "DISCORD_APPLICATION_ID"
	discordGuildIDEnv   = "DISCORD_GUILD_ID"
	forumChannelIDEnv   = "FORUM_CHANNEL_ID"
	databaseDSNEnv      = "DATABASE_DSN"
	redisAddrEnv        = "REDIS_ADDR"
	redisPasswordEnv    = "REDIS_PASSWORD"
	httpAddrEnv         = "HTTP_ADDR"
	portEnv             = "PORT"
	logLevelEnv         = "LOG_LEVEL"
	defaultChromeUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultAcceptLang   = "en-US,en;q=0.9,ko;q=0.8"
	defaultSessionTTL   = 180 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Discord  DiscordConfig  `yaml:"discord"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Metadata MetadataConfig `yaml:"metadata"`
	Forum    ForumConfig    `yaml:"forum"`
	HTTP     HTTPConfig     `yaml:"http"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DiscordConfig carries bot credentials and command registration settings.
type DiscordConfig struct {
	Token            string `yaml:"token" validate:"required"`
	ApplicationID    string `yaml:"applicationId"`
	GuildID          string `yaml:"guildId"`
	CommandPrefix    string `yaml:"commandPrefix" validate:"required"`
	RegisterCommands bool   `yaml:"registerCommands"`
}

// DatabaseConfig describes the article store backend.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"oneof=postgres memory"`
	DSN             string        `yaml:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `yaml:"maxOpenConns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// SessionConfig describes where tag selection sessions live.
type SessionConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=memory redis"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	RedisAddr     string        `yaml:"redisAddr" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDb" validate:"gte=0"`
	KeyPrefix     string        `yaml:"keyPrefix"`
}

// MetadataConfig bounds outbound page fetches.
type MetadataConfig struct {
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes" validate:"gt=0"`
	UserAgent      string        `yaml:"userAgent" validate:"required"`
	AcceptLanguage string        `yaml:"acceptLanguage"`
}

// ForumConfig drives passive submissions from forum threads.
type ForumConfig struct {
	ChannelID    string        `yaml:"channelId"`
	FetchDelay   time.Duration `yaml:"fetchDelay" validate:"gte=0"`
	MessageLimit int           `yaml:"messageLimit" validate:"gte=1,lte=100"`
	Publish      bool          `yaml:"publish"`
}

// HTTPConfig is the health/metrics listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig controls the periodic database stats job.
type MetricsConfig struct {
	DBStatsSchedule string `yaml:"dbStatsSchedule"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			// Keys absent from the file keep their defaults; explicit zero
			// values such as false or 0s are kept.
			fileCfg := cfg
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate checks struct constraints once all sources are merged.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(discordTokenEnv); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv(discordAppIDEnv); v != "" {
		c.Discord.ApplicationID = v
	}
	if v := os.Getenv(discordGuildIDEnv); v != "" {
		c.Discord.GuildID = v
	}
	if v := os.Getenv(forumChannelIDEnv); v != "" {
		c.Forum.ChannelID = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
		c.Database.Driver = "postgres"
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Session.RedisAddr = v
		c.Session.Backend = "redis"
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Session.RedisPassword = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	} else if v := os.Getenv(portEnv); v != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Discord: DiscordConfig{CommandPrefix: "!", RegisterCommands: true},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Session: SessionConfig{
			Backend:   "memory",
			Timeout:   defaultSessionTTL,
			KeyPrefix: "articlebot:session:",
		},
		Metadata: MetadataConfig{
			Timeout:        defaultFetchTimeout,
			MaxBodyBytes:   1 << 20,
			UserAgent:      defaultChromeUA,
			AcceptLanguage: defaultAcceptLang,
		},
		Forum: ForumConfig{
			FetchDelay:   1500 * time.Millisecond,
			MessageLimit: 5,
			Publish:      true,
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Metrics: MetricsConfig{DBStatsSchedule: "@every 15s"},
	}
}
