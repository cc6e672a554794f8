package trackstat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrUnauthorized is returned when the stats server rejects our session
// cookie. Callers should send the user back through login.
var ErrUnauthorized = errors.New("stats server rejected session, authentication required")

// ErrMalformedPayload is returned when the response body is neither a record
// array nor a data/pagination envelope. This is a hard failure; the caller
// must not fall back to cache for it.
var ErrMalformedPayload = errors.New("response payload is neither an array nor an envelope")

// APIClient is the stats server API client that implements the Client
// interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string

	mu            sync.RWMutex
	sessionCookie string
}

// NewClient creates a new stats server client. baseURL may be empty for
// relative-path usage behind the same origin; sessionCookie is sent on every
// request so the server recognises the dashboard session.
func NewClient(baseURL, sessionCookie string) Client {
	return &APIClient{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		BaseURL:       trimTrailingSlash(baseURL),
		sessionCookie: sessionCookie,
	}
}

var _ Client = (*APIClient)(nil)

func trimTrailingSlash(base string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base
}

func (c *APIClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TrackstatGoClient/1.0")
	c.mu.RLock()
	cookie := c.sessionCookie
	c.mu.RUnlock()
	if cookie != "" {
		req.Header.Set("Cookie", "session="+cookie)
	}
	return req, nil
}

// SetSessionCookie replaces the session sent on subsequent requests. The
// login flow calls this after the user submits a new session value.
func (c *APIClient) SetSessionCookie(cookie string) {
	c.mu.Lock()
	c.sessionCookie = cookie
	c.mu.Unlock()
}

func (c *APIClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Received non-OK HTTP status from stats server", "status", resp.StatusCode, "url", req.URL.Path, "body", truncate(string(body), 256))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// GetLatest fetches one page of latest player stats, honoring search and any
// non-default filter bounds. Both response shapes the server has ever spoken
// are accepted: a bare record array (we compute our own pagination from its
// length) and a data/pagination envelope (server metadata is authoritative).
func (c *APIClient) GetLatest(ctx context.Context, params *LatestParams) (Envelope, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	setInt64 := func(key string, v *int64) {
		if v != nil {
			q.Set(key, strconv.FormatInt(*v, 10))
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			q.Set(key, strconv.Itoa(*v))
		}
	}
	setInt64("cash_min", params.CashMin)
	setInt64("cash_max", params.CashMax)
	setInt64("gems_min", params.GemsMin)
	setInt64("gems_max", params.GemsMax)
	setInt64("tickets_min", params.TicketsMin)
	setInt64("tickets_max", params.TicketsMax)
	setInt("s_pets_min", params.SPetsMin)
	setInt("ss_pets_min", params.SSPetsMin)
	setInt("gamepass_min", params.GamepassMin)
	setInt("gamepass_max", params.GamepassMax)
	if params.ForceRefresh {
		q.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/latest?"+q.Encode(), nil)
	if err != nil {
		return Envelope{}, err
	}
	log.Debug("Fetching latest stats from server", "page", params.Page, "page_size", params.PageSize, "search", params.Search)

	body, err := c.do(req)
	if err != nil {
		return Envelope{}, err
	}

	env, err := DecodeLatest(body, params.Page, params.PageSize)
	if err != nil {
		return Envelope{}, err
	}
	log.Debug("Fetched latest stats", "count", len(env.Data), "total_items", env.Pagination.TotalItems, "server_paginated", env.ServerPaginated)
	return env, nil
}

// DecodeLatest resolves the dual wire shape into the canonical envelope. The
// requested page and page size are needed to synthesize pagination metadata
// for the legacy bare-array shape.
func DecodeLatest(body []byte, page, pageSize int) (Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Envelope{}, ErrMalformedPayload
	}

	if trimmed[0] == '[' {
		var records []PlayerRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Envelope{
			Data: records,
			Pagination: PageMeta{
				Page:       page,
				TotalItems: len(records),
				TotalPages: totalPages(len(records), pageSize),
			},
			ServerPaginated: false,
		}, nil
	}

	if trimmed[0] != '{' {
		return Envelope{}, ErrMalformedPayload
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Pagination.TotalPages < 1 {
		env.Pagination.TotalPages = 1
	}
	if env.Pagination.Page < 1 {
		env.Pagination.Page = page
	}
	env.ServerPaginated = true
	return env, nil
}

func totalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// DeletePlayer deletes every stored record for a player.
func (c *APIClient) DeletePlayer(ctx context.Context, playerName string) (DeleteResult, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/player/"+url.PathEscape(playerName), nil)
	if err != nil {
		return DeleteResult{}, err
	}
	log.Debug("Deleting player on stats server", "player", playerName)

	body, err := c.do(req)
	if err != nil {
		return DeleteResult{}, err
	}
	var result DeleteResult
	if err := json.Unmarshal(body, &result); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return result, nil
}

// GetAccounts fetches one page of stored account credential records.
func (c *APIClient) GetAccounts(ctx context.Context, page, pageSize int) (AccountsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	req, err := c.newRequest(ctx, http.MethodGet, "/api/accounts?"+q.Encode(), nil)
	if err != nil {
		return AccountsPage{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return AccountsPage{}, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var accounts []Account
		if err := json.Unmarshal(trimmed, &accounts); err != nil {
			return AccountsPage{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return AccountsPage{
			Data:       accounts,
			Pagination: PageMeta{Page: page, TotalItems: len(accounts), TotalPages: totalPages(len(accounts), pageSize)},
		}, nil
	}
	var accountsPage AccountsPage
	if err := json.Unmarshal(trimmed, &accountsPage); err != nil {
		return AccountsPage{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return accountsPage, nil
}

// GetAccountCookie fetches the stored session cookie for a single account.
// Export flows must always call this rather than trusting has_cookie; the
// boolean can be stale while the secret itself is gone.
func (c *APIClient) GetAccountCookie(ctx context.Context, username string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/accounts/"+url.PathEscape(username)+"/cookie", nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	var payload struct {
		Cookie string `json:"cookie"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode cookie response: %w", err)
	}
	if payload.Cookie == "" {
		return "", fmt.Errorf("no cookie stored for account %q", username)
	}
	return payload.Cookie, nil
}

// ImportAccounts uploads colon-delimited credential lines for bulk import.
func (c *APIClient) ImportAccounts(ctx context.Context, lines string) (ImportResult, error) {
	payload, err := json.Marshal(map[string]string{"accounts": lines})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/accounts/import", bytes.NewReader(payload))
	if err != nil {
		return ImportResult{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return ImportResult{}, err
	}
	var result ImportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode import response: %w", err)
	}
	return result, nil
}

// Probe checks whether our session is still accepted by the stats server. It
// hits the players listing because that endpoint requires authentication and
// is cheap.
func (c *APIClient) Probe(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/players", nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}
