package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON_DecodesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept json, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`{"message":"hi","status":"success"}`))
	}))
	defer ts.Close()

	c := New(time.Second, WithUserAgent("test-agent"))

	var out struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if err := c.GetJSON(context.Background(), ts.URL, &out); err != nil {
		t.Fatalf("GetJSON error: %v", err)
	}
	if out.Message != "hi" || out.Status != "success" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestGetJSON_Non2xxIsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := New(time.Second).GetJSON(context.Background(), ts.URL, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusServiceUnavailable || se.Body != "down" {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestGetJSON_RejectsRelativeURL(t *testing.T) {
	if err := New(time.Second).GetJSON(context.Background(), "/breeds/image/random", nil); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestGetJSON_NilClient(t *testing.T) {
	var c *Client
	if err := c.GetJSON(context.Background(), "https://example.com", nil); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}
