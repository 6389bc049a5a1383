package dogceo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-walk-service/internal/platform/httpclient"
)

const DefaultURL = "https://dog.ceo/api/breeds/image/random"

var ErrUnexpectedResponse = errors.New("dogceo: unexpected response")

type Config struct {
	URL     string
	Timeout time.Duration
}

// Client pide una foto random a la API pública de dog.ceo.
type Client struct {
	http *httpclient.Client
	url  string
}

func New(cfg Config, opts ...httpclient.Option) *Client {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		u = DefaultURL
	}
	return &Client{
		http: httpclient.New(cfg.Timeout, opts...),
		url:  u,
	}
}

type randomImageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *Client) RandomImage(ctx context.Context) (string, error) {
	var resp randomImageResponse
	if err := c.http.GetJSON(ctx, c.url, &resp); err != nil {
		return "", fmt.Errorf("dogceo: %w", err)
	}
	if resp.Status != "success" || !strings.HasPrefix(resp.Message, "http") {
		return "", fmt.Errorf("%w: status=%q", ErrUnexpectedResponse, resp.Status)
	}
	return resp.Message, nil
}
