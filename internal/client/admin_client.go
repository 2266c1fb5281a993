// Package client implements the HTTP client for the configd admin API,
// used by the confctl command-line tool.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/narravo/configd/internal/utils"
	"github.com/narravo/configd/models"
)

// Config carries the connection settings of the admin API client.
type Config struct {
	// BaseURL is the address of the configd server, with or without scheme.
	BaseURL string

	// Token is the bearer token sent with every request.
	Token string

	// RequestTimeout bounds each request; zero means no client timeout.
	RequestTimeout time.Duration
}

// AdminClient talks to the configd HTTP API.
type AdminClient struct {
	client *utils.HTTPClient
}

// New constructs an [AdminClient] for the given server.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func New(cfg Config) (*AdminClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetAuthToken(cfg.Token)

	return &AdminClient{client: client}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Resolve fetches the resolved typed value of a key for the token's user
// context. fresh bypasses the server-side cache for this read.
func (c *AdminClient) Resolve(ctx context.Context, key string, fresh bool) (models.ResolvedValue, error) {
	req := c.client.R().SetContext(ctx)
	if fresh {
		req.SetQueryParam("fresh", "1")
	}

	resp, err := req.Get("/api/settings/" + url.PathEscape(key))
	if err != nil {
		return models.ResolvedValue{}, fmt.Errorf("resolve request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ResolvedValue{}, err
	}

	var resolved models.ResolvedValue
	if err = json.Unmarshal(resp.Body(), &resolved); err != nil {
		return models.ResolvedValue{}, fmt.Errorf("decode resolve response: %w", err)
	}
	return resolved, nil
}

// ListSettings pages through global entries.
func (c *AdminClient) ListSettings(ctx context.Context, prefix string, limit, offset uint64) (models.SettingList, error) {
	req := c.client.R().SetContext(ctx)
	if prefix != "" {
		req.SetQueryParam("prefix", prefix)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.FormatUint(limit, 10))
	}
	if offset > 0 {
		req.SetQueryParam("offset", strconv.FormatUint(offset, 10))
	}

	resp, err := req.Get("/api/admin/settings")
	if err != nil {
		return models.SettingList{}, fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SettingList{}, err
	}

	var list models.SettingList
	if err = json.Unmarshal(resp.Body(), &list); err != nil {
		return models.SettingList{}, fmt.Errorf("decode list response: %w", err)
	}
	return list, nil
}

// PutSetting creates or replaces a global entry. The server performs the
// write-then-invalidate protocol.
func (c *AdminClient) PutSetting(ctx context.Context, key string, payload models.SettingPayload) (models.Setting, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put("/api/admin/settings/" + url.PathEscape(key))
	if err != nil {
		return models.Setting{}, fmt.Errorf("put setting request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Setting{}, err
	}

	var saved models.Setting
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return models.Setting{}, fmt.Errorf("decode put setting response: %w", err)
	}
	return saved, nil
}

// DeleteSetting removes a global entry.
func (c *AdminClient) DeleteSetting(ctx context.Context, key string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/api/admin/settings/" + url.PathEscape(key))
	if err != nil {
		return fmt.Errorf("delete setting request: %w", err)
	}
	return mapHTTPError(resp)
}

// InvalidateSetting drops the server's cached resolutions for a key.
func (c *AdminClient) InvalidateSetting(ctx context.Context, key string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Post("/api/admin/settings/" + url.PathEscape(key) + "/invalidate")
	if err != nil {
		return fmt.Errorf("invalidate request: %w", err)
	}
	return mapHTTPError(resp)
}

// PutUserOverride writes a per-user override on behalf of a user.
func (c *AdminClient) PutUserOverride(ctx context.Context, userID, key string, value json.RawMessage) (models.Override, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.OverridePayload{Value: value}).
		Put("/api/admin/users/" + url.PathEscape(userID) + "/settings/" + url.PathEscape(key))
	if err != nil {
		return models.Override{}, fmt.Errorf("put override request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Override{}, err
	}

	var saved models.Override
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return models.Override{}, fmt.Errorf("decode put override response: %w", err)
	}
	return saved, nil
}

// DeleteUserOverride removes a user's override.
func (c *AdminClient) DeleteUserOverride(ctx context.Context, userID, key string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/api/admin/users/" + url.PathEscape(userID) + "/settings/" + url.PathEscape(key))
	if err != nil {
		return fmt.Errorf("delete override request: %w", err)
	}
	return mapHTTPError(resp)
}

// Version fetches the server's build version.
func (c *AdminClient) Version(ctx context.Context) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var version models.VersionResponse
	if err = json.Unmarshal(resp.Body(), &version); err != nil {
		return "", fmt.Errorf("decode version response: %w", err)
	}
	return version.Version, nil
}
