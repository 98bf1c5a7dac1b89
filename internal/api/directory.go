package api

import (
	"context"
	"sync"
	"time"

	"inhouse-tracker/internal/constants"

	"github.com/rs/zerolog"
)

type guildFetcher interface {
	Enabled() bool
	GetGuild(ctx context.Context, guildID string) (*GuildResponse, error)
	GetRateLimitInfo() RateLimitInfo
}

type cachedName struct {
	name      string
	expiresAt time.Time
}

// ServerDirectory maps server ids to display names. Names are cached for
// constants.ServerNameTTL; lookups that fail fall back to the id itself.
type ServerDirectory struct {
	guilds guildFetcher
	mu     sync.Mutex
	cache  map[string]cachedName
	now    func() time.Time
	logger zerolog.Logger
}

func NewServerDirectory(client *DiscordClient, logger zerolog.Logger) *ServerDirectory {
	return newServerDirectory(client, logger)
}

func newServerDirectory(guilds guildFetcher, logger zerolog.Logger) *ServerDirectory {
	return &ServerDirectory{
		guilds: guilds,
		cache:  make(map[string]cachedName),
		now:    time.Now,
		logger: logger,
	}
}

func (d *ServerDirectory) ServerName(ctx context.Context, serverID string) string {
	if !d.guilds.Enabled() {
		return serverID
	}

	d.mu.Lock()
	cached, ok := d.cache[serverID]
	d.mu.Unlock()
	if ok && d.now().Before(cached.expiresAt) {
		return cached.name
	}

	fallback := serverID
	if ok {
		fallback = cached.name
	}

	if d.rateLimited() {
		d.logger.Debug().Str("server_id", serverID).Msg("rate limited, skipping server name lookup")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	guild, err := d.guilds.GetGuild(ctx, serverID)
	if err != nil {
		d.logger.Warn().Err(err).Str("server_id", serverID).Msg("failed to resolve server name")
		return fallback
	}

	d.mu.Lock()
	d.cache[serverID] = cachedName{name: guild.Name, expiresAt: d.now().Add(constants.ServerNameTTL)}
	d.mu.Unlock()

	d.logger.Debug().Str("server_id", serverID).Str("name", guild.Name).Msg("server name resolved")
	return guild.Name
}

// rateLimited is true while the last response left no requests in the bucket
// and its reset window has not passed.
func (d *ServerDirectory) rateLimited() bool {
	limit := d.guilds.GetRateLimitInfo()
	if limit.Remaining > 0 {
		return false
	}
	resetAt := limit.UpdatedAt.Add(time.Duration(limit.ResetAfter * float64(time.Second)))
	return d.now().Before(resetAt)
}
