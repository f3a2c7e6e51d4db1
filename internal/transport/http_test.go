package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPostForm_SendsBodyVerbatim(t *testing.T) {
	var gotMethod, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("X-Request-Id", "abc123")
		w.Write([]byte(`{"error":[]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	resp, err := c.PostForm(context.Background(), "/0/private/Balance", nil, "nonce=1700000000000&otp=123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method mismatch\n  got:  %s\n  want: %s", gotMethod, http.MethodPost)
	}
	if gotBody != "nonce=1700000000000&otp=123456" {
		t.Errorf("body mismatch\n  got:  %s\n  want: %s", gotBody, "nonce=1700000000000&otp=123456")
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type mismatch\n  got:  %s\n  want: %s", gotContentType, "application/x-www-form-urlencoded")
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status mismatch: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if string(resp.Body) != `{"error":[]}` {
		t.Errorf("response body mismatch\n  got:  %s\n  want: %s", resp.Body, `{"error":[]}`)
	}
	if resp.Header.Get("X-Request-Id") != "abc123" {
		t.Errorf("response headers not passed through: %v", resp.Header)
	}
}

func TestPostForm_CallerHeadersTakePrecedence(t *testing.T) {
	var gotContentType, gotApiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotApiKey = r.Header.Get("API-Key")
	}))
	defer srv.Close()

	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	h.Set("API-Key", "test-key")

	c := NewHTTPClient(srv.URL)
	if _, err := c.PostForm(context.Background(), "/0/private/Balance", h, "nonce=1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded; charset=utf-8" {
		t.Errorf("caller content type was overridden: %s", gotContentType)
	}
	if gotApiKey != "test-key" {
		t.Errorf("api key header mismatch\n  got:  %s\n  want: %s", gotApiKey, "test-key")
	}
}

func TestPostForm_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	resp, err := c.PostForm(context.Background(), "/0/private/AddOrder", nil, "nonce=1")
	if err != nil {
		t.Fatalf("an error status must come back as a raw response, got error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status mismatch: got %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly one attempt, got %d", got)
	}
}

func TestGet_QueryParameters(t *testing.T) {
	var gotPair, gotInfo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPair = r.URL.Query().Get("pair")
		gotInfo = r.URL.Query().Get("info")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Get(context.Background(), "/0/public/AssetPairs", nil, map[string]string{
		"pair": "XXBTZUSD,XETHZUSD",
		"info": "leverage",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPair != "XXBTZUSD,XETHZUSD" {
		t.Errorf("pair query mismatch\n  got:  %s\n  want: %s", gotPair, "XXBTZUSD,XETHZUSD")
	}
	if gotInfo != "leverage" {
		t.Errorf("info query mismatch\n  got:  %s\n  want: %s", gotInfo, "leverage")
	}
}

func TestGet_AddsLeadingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.Get(context.Background(), "0/public/Time", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/0/public/Time" {
		t.Errorf("path mismatch\n  got:  %s\n  want: %s", gotPath, "/0/public/Time")
	}
}

func TestDo_UnreachableHost(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", WithTimeout(2*time.Second))
	_, err := c.PostForm(context.Background(), "/0/private/Balance", nil, "nonce=1")
	if err == nil {
		t.Fatal("expected an error for an unreachable host, got nil")
	}

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *transport.Error, got %T: %v", err, err)
	}
	if terr.Timeout() {
		t.Error("connection refused classified as timeout")
	}
	if !terr.Temporary() {
		t.Error("connection refused should classify as temporary")
	}

	var netErr net.Error
	if !errors.As(err, &netErr) {
		t.Error("transport error should satisfy net.Error")
	}
}

func TestDo_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "/0/public/Time", nil, nil)
	if err == nil {
		t.Fatal("expected an error after the context deadline, got nil")
	}

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *transport.Error, got %T: %v", err, err)
	}
	if !terr.Timeout() {
		t.Errorf("deadline expiry not classified as timeout: %v", err)
	}
}

func TestNewHTTPClient_TrimsTrailingSlash(t *testing.T) {
	c := NewHTTPClient("https://api.example.test/")
	if c.baseURL != "https://api.example.test" {
		t.Errorf("base URL mismatch\n  got:  %s\n  want: %s", c.baseURL, "https://api.example.test")
	}
}

func TestWithUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithUserAgent("kraken-client-go/1.0"))
	if _, err := c.Get(context.Background(), "/0/public/Time", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "kraken-client-go/1.0" {
		t.Errorf("user agent mismatch\n  got:  %s\n  want: %s", gotUA, "kraken-client-go/1.0")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"dns not found", &net.DNSError{IsNotFound: true}, false},
		{"dns transient", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"reset by string", errors.New("read tcp: connection reset by peer"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransient(tc.err); got != tc.want {
				t.Errorf("isTransient(%v): got %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
