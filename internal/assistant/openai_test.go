package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/marketdata"
)

const completionBody = `{"choices":[{"message":{"role":"assistant","content":"Hello!"}}]}`

func testOpenAIClient(t *testing.T, handler http.Handler) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("test-key", srv.URL, "", 5*time.Second, zap.NewNop())
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var auth string
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionBody))
	}))

	text, err := client.Complete(context.Background(), "system says", "user asks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello!" {
		t.Errorf("text = %q", text)
	}
	if auth != "Bearer test-key" {
		t.Errorf("authorization = %q", auth)
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultModel)
	}
	if got.MaxTokens != completionMaxTokens || got.Temperature != completionTemperature {
		t.Errorf("max_tokens/temperature = %d/%v", got.MaxTokens, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Messages[0].Content != "system says" || got.Messages[1].Content != "user asks" {
		t.Errorf("prompt contents = %+v", got.Messages)
	}
}

func TestCompleteRetriesOnceOnServerError(t *testing.T) {
	var calls int32
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody))
	}))

	if _, err := client.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("retry should have recovered: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("made %d requests, want 2", got)
	}
}

func TestCompleteFailsAfterSecondServerError(t *testing.T) {
	var calls int32
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))

	_, err := client.Complete(context.Background(), "s", "u")
	var upstream *marketdata.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
	if upstream.Provider != "openai" {
		t.Errorf("provider = %q", upstream.Provider)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("made %d requests, want exactly 2", got)
	}
}

func TestCompleteDoesNotRetryAuthError(t *testing.T) {
	var calls int32
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))

	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("want error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("made %d requests, want 1 (no retry on 401)", got)
	}
}

func TestCompleteSurfacesAPIErrorPayload(t *testing.T) {
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))

	_, err := client.Complete(context.Background(), "s", "u")
	var upstream *marketdata.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	client := testOpenAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))

	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("want error for empty choices")
	}
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client := NewOpenAIClient("key", "", "", time.Second, zap.NewNop())
	if client.BaseURL != defaultOpenAIBaseURL {
		t.Errorf("base url = %q", client.BaseURL)
	}
	if client.Model != DefaultModel {
		t.Errorf("model = %q", client.Model)
	}

	client = NewOpenAIClient("key", "http://proxy.local/v1/", "custom", time.Second, zap.NewNop())
	if client.BaseURL != "http://proxy.local/v1" {
		t.Errorf("trailing slash should be trimmed, got %q", client.BaseURL)
	}
	if client.Model != "custom" {
		t.Errorf("model = %q", client.Model)
	}
}
