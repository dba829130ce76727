// Package remote is the HTTP client for the camp server. The packing list is
// fetched and saved as one aggregate; the server is the source of truth and
// assigns IDs to entities the client created locally.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/svillanueva/mochila/internal/domain"
)

// ListClient fetches and saves the packing-list aggregate.
type ListClient interface {
	// Get returns the current list. A list with a nil ID means the server
	// has no persisted list for this user yet.
	Get(ctx context.Context) (*domain.PackingList, error)

	// Save persists the full aggregate and returns the canonical version as
	// stored, with server-assigned IDs for any entity that lacked one.
	Save(ctx context.Context, list *domain.PackingList) (*domain.PackingList, error)
}

// Credentials are the HTTP basic-auth credentials attached to API requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration // zero means 15s
	// CredentialSource supplies basic-auth credentials per request, so a
	// login performed while the client is live takes effect immediately.
	// May return nil for anonymous requests.
	CredentialSource func() *Credentials
}

// Client implements ListClient and AuthClient against the camp server.
type Client struct {
	cfg Config
	hc  *http.Client
}

// NewClient builds a client with a connect timeout and per-request deadline.
func NewClient(cfg Config) *Client {
	to := cfg.Timeout
	if to == 0 {
		to = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout: to,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

// apiEnvelope is the server's uniform response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) Get(ctx context.Context) (*domain.PackingList, error) {
	var list domain.PackingList
	if err := c.do(ctx, http.MethodGet, "/api/packing-list", nil, &list); err != nil {
		return nil, err
	}
	if list.Categories == nil {
		list.Categories = []domain.Category{}
	}
	return &list, nil
}

func (c *Client) Save(ctx context.Context, list *domain.PackingList) (*domain.PackingList, error) {
	var saved domain.PackingList
	if err := c.do(ctx, http.MethodPost, "/api/packing-list", list, &saved); err != nil {
		return nil, err
	}
	if saved.Categories == nil {
		saved.Categories = []domain.Category{}
	}
	return &saved, nil
}

// do performs one request and decodes the envelope into out (out may be nil
// for calls with no payload).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.cfg.CredentialSource != nil {
		if creds := c.cfg.CredentialSource(); creds != nil {
			req.SetBasicAuth(creds.Username, creds.Password)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env apiEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode != http.StatusOK {
				return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

func classifyTransport(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrUnavailable
	}
	return fmt.Errorf("request failed: %w", err)
}
