package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"inhouse-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

var ErrGuildNotFound = errors.New("guild not found")

// DiscordClient reads guild metadata from the chat platform REST API.
type DiscordClient struct {
	baseURL     string
	token       string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	ResetAfter float64 `json:"reset_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

type GuildResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func NewDiscordClient(cfg *config.Config) *DiscordClient {
	return &DiscordClient{
		baseURL: cfg.DiscordAPIURL,
		token:   cfg.DiscordBotToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		rateLimit: RateLimitInfo{
			Limit:     50,
			Remaining: 50,
			UpdatedAt: time.Now(),
		},
	}
}

// Enabled is false when no bot token is configured.
func (c *DiscordClient) Enabled() bool {
	return c.token != ""
}

func (c *DiscordClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *DiscordClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if bucket := string(resp.Header.Peek("X-RateLimit-Bucket")); bucket != "" {
		c.rateLimit.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-RateLimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-RateLimit-Reset-After")); reset != "" {
		if val, err := strconv.ParseFloat(reset, 64); err == nil {
			c.rateLimit.ResetAfter = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *DiscordClient) GetGuild(ctx context.Context, guildID string) (*GuildResponse, error) {
	url := fmt.Sprintf("%s/guilds/%s", c.baseURL, guildID)
	return doRequest[GuildResponse](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *DiscordClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bot "+client.token)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	client.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound, fasthttp.StatusForbidden:
		return nil, ErrGuildNotFound
	default:
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
