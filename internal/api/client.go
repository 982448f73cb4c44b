package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portalkombat/internal/domain"
	"portalkombat/internal/service"
)

// ErrNotRunning is returned when no daemon listens on the status address
var ErrNotRunning = errors.New("portalkombat daemon is not running")

// baseURL is a placeholder host; the transport always dials the socket
const baseURL = "http://portalkombat"

// Client queries a running daemon's status API
type Client struct {
	http *http.Client
}

// NewClient creates a client for the socket path or pipe name addr
func NewClient(addr string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return dial(ctx, addr)
				},
				DisableKeepAlives: true,
			},
		},
	}
}

// Status fetches /v1/status
func (c *Client) Status(ctx context.Context) (service.Status, error) {
	var st service.Status
	err := c.get(ctx, "/v1/status", &st)
	return st, err
}

// History fetches up to limit recent attempts
func (c *Client) History(ctx context.Context, limit int) ([]domain.Attempt, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var attempts []domain.Attempt
	err := c.get(ctx, path, &attempts)
	return attempts, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrNotRunning) {
			return ErrNotRunning
		}
		return fmt.Errorf("query status api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("status api: %s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("status api: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
