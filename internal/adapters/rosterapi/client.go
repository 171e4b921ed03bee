package rosterapi

// Package rosterapi is the HTTP client for the roster API. It supports both
// server contracts: the flat anonymous snapshot and the authenticated
// pre-resolved per-viewer payload, plus the one-time code exchange.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/classdash/classdash/internal/domain/model"
	apperrors "github.com/classdash/classdash/internal/errors"
)

const defaultTimeout = 15 * time.Second

// Config holds configuration for the roster API client.
type Config struct {
	// BaseURL serves the anonymous flat payload (GET).
	BaseURL string
	// SecureURL serves the authenticated pre-resolved payload (GET with
	// bearer) and the code exchange (POST). Optional when only the anonymous
	// contract is used.
	SecureURL string
	// HTTPClient is optional; a client with a bounded timeout is used when nil.
	HTTPClient *http.Client
}

// Client implements ports.PayloadSource against the roster API.
type Client struct {
	baseURL    string
	secureURL  string
	httpClient *http.Client
}

// NewClient constructs a roster API client. A missing base URL is a
// configuration error surfaced immediately, not a failed network call later.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	secure := strings.TrimRight(strings.TrimSpace(cfg.SecureURL), "/")
	if base == "" && secure == "" {
		return nil, apperrors.Config("roster API URL is not configured")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    base,
		secureURL:  secure,
		httpClient: httpClient,
	}, nil
}

// FetchSnapshot retrieves the flat anonymous payload.
func (c *Client) FetchSnapshot(ctx context.Context) (*model.RosterPayload, error) {
	if c.baseURL == "" {
		return nil, apperrors.Config("anonymous roster API URL is not configured")
	}

	var payload model.RosterPayload
	if err := c.getJSON(ctx, c.baseURL, "", &payload); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDashboard retrieves the pre-resolved per-viewer payload using the
// supplied bearer credential.
func (c *Client) FetchDashboard(ctx context.Context, token string) (*model.DashboardPayload, error) {
	if c.secureURL == "" {
		return nil, apperrors.Config("secure roster API URL is not configured")
	}
	if token == "" {
		return nil, apperrors.Validation("bearer token is required")
	}

	var payload model.DashboardPayload
	if err := c.getJSON(ctx, c.secureURL, token, &payload); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ExchangeCode posts a one-time authorization code and returns the
// pre-resolved payload for the signed-in viewer.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.DashboardPayload, error) {
	if c.secureURL == "" {
		return nil, apperrors.Config("secure roster API URL is not configured")
	}
	if code == "" {
		return nil, apperrors.Validation("authorization code is required")
	}

	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal exchange request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.secureURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build exchange request")
	}
	req.Header.Set("Content-Type", "application/json")

	var payload model.DashboardPayload
	if doErr := c.do(req, &payload); doErr != nil {
		return nil, apperrors.Wrap(doErr, apperrors.ErrCodeAuthExchange, "code exchange failed")
	}
	if validateErr := payload.Validate(); validateErr != nil {
		return nil, apperrors.Wrap(validateErr, apperrors.ErrCodeAuthExchange, "code exchange returned an unusable payload")
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, url, token string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build roster request")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, dst)
}

// do issues the request and decodes the JSON body. Transport failures and
// non-2xx statuses map to network errors; undecodable bodies map to malformed
// payload errors.
func (c *Client) do(req *http.Request, dst any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "roster API request failed")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Networkf("roster API returned status %d", resp.StatusCode)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(dst); decodeErr != nil {
		return apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedPayload,
			fmt.Sprintf("decode roster API response from %s", req.URL.Path))
	}
	return nil
}
