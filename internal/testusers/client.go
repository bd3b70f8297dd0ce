package testusers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultURL = "https://randomuser.me/api/?results=10"

// Client fetches random demo trainees from randomuser.me for UI testing.
type Client struct {
	url        string
	httpClient *http.Client
}

func New() *Client {
	return &Client{
		url: defaultURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// NewWithURL is used by tests to point the client at a stub server.
func NewWithURL(url string) *Client {
	c := New()
	c.url = url
	return c
}

type resultsEnvelope struct {
	Results []json.RawMessage `json:"results"`
}

// Fetch returns the raw user objects from the upstream API.
func (c *Client) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("user api status %d: %s", resp.StatusCode, string(body))
	}

	var env resultsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return env.Results, nil
}
