package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testOptions(url string) Options {
	return Options{
		BaseURL:    url,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
}

func writeChoice(w http.ResponseWriter, text string) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": text}},
		},
	})
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if req.Temperature != 0 {
			t.Errorf("expected temperature 0, got %f", req.Temperature)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system+user messages, got %+v", req.Messages)
		}
		if req.Messages[0].Role != "system" || req.Messages[0].Content != "you are a test" {
			t.Errorf("unexpected system message: %+v", req.Messages[0])
		}
		if req.Messages[1].Role != "user" || req.Messages[1].Content != "hello" {
			t.Errorf("unexpected user message: %+v", req.Messages[1])
		}

		writeChoice(w, "world")
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL + "/"))
	result, err := c.Complete(context.Background(), Request{
		Model:  "test-model",
		System: "you are a test",
		Prompt: "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "world" {
		t.Errorf("expected 'world', got %q", result)
	}
}

func TestComplete_NoSystemMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}
		writeChoice(w, "ok")
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL))
	if _, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComplete_ClientErrorNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "model not found"},
		})
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL))
	_, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for API error response")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.StatusCode)
	}
	if httpErr.Message != "model not found" {
		t.Errorf("expected decoded error message, got %q", httpErr.Message)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected 1 attempt for a 400, got %d", got)
	}
}

func TestComplete_ServerErrorRetriedUpToBudget(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL))
	_, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.RetryAfter != 3*time.Second {
		t.Errorf("expected Retry-After 3s, got %s", httpErr.RetryAfter)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts (1 + 2 retries), got %d", got)
	}
}

func TestComplete_RecoversAfterTransientFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeChoice(w, "second time lucky")
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL))
	result, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "second time lucky" {
		t.Errorf("unexpected result %q", result)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewClient(testOptions(server.URL))
	_, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("malformed replies should not be retried, got %d attempts", got)
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeChoice(w, "too late")
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.Timeout = 20 * time.Millisecond
	opts.MaxRetries = 0

	c := NewClient(opts)
	if _, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "hi"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errors.New("connection refused"), true},
		{"canceled", context.Canceled, false},
		{"malformed", ErrMalformedResponse, false},
		{"rate limited", &HTTPError{StatusCode: 429}, true},
		{"bad gateway", &HTTPError{StatusCode: 502}, true},
		{"unauthorized", &HTTPError{StatusCode: 401}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
