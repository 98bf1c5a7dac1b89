package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"inhouse-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath          string
	ServerPort      string
	LogLevel        string
	PageSessionTTL  time.Duration
	PageSize        int
	DiscordBotToken string
	DiscordAPIURL   string
	CORSOrigins     []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("page_session_ttl", cfg.PageSessionTTL).
		Int("page_size", cfg.PageSize).
		Bool("server_names_enabled", cfg.DiscordBotToken != "").
		Strs("cors_origins", cfg.CORSOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "inhouse.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PageSessionTTL:  constants.PageSessionTTL,
		PageSize:        constants.DefaultPageSize,
		DiscordBotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordAPIURL:   strings.TrimRight(getEnv("DISCORD_API_URL", "https://discord.com/api/v10"), "/"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if v := os.Getenv("PAGE_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid PAGE_SESSION_TTL %q", v)
		}
		cfg.PageSessionTTL = ttl
	}

	if v := os.Getenv("PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 || size > constants.MaxPageSize {
			return nil, fmt.Errorf("invalid PAGE_SIZE %q: must be between 1 and %d", v, constants.MaxPageSize)
		}
		cfg.PageSize = size
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
