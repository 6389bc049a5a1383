package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second

	// Tope de lectura del body; las APIs externas que usamos responden JSON chico.
	maxBodyBytes = 1 << 20
)

var ErrNilClient = errors.New("httpclient: nil client")

// Client es el cliente HTTP saliente compartido por los adapters externos.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

type Option func(*Client)

func WithTransport(tr http.RoundTripper) Option {
	return func(c *Client) {
		if tr != nil {
			c.HTTP.Transport = tr
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = strings.TrimSpace(ua)
	}
}

func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: "dog-walk-service",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError representa una respuesta no-2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpclient: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: unexpected status %d: %s", e.StatusCode, e.Body)
}

// GetJSON hace GET a rawURL y decodifica la respuesta en out.
// Error si la URL no es absoluta http(s), si el status no es 2xx o si el JSON es inválido.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	if c == nil || c.HTTP == nil {
		return ErrNilClient
	}

	u, err := parseAbsolute(rawURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(raw)), 256),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func parseAbsolute(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("httpclient: empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("httpclient: invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("httpclient: url must be absolute http(s): %q", rawURL)
	}
	return u.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
