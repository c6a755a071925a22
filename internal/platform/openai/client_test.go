package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ngooning-backend/internal/platform/httpx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server, retries int) Client {
	t.Helper()
	c, err := NewClient(logger.Nop(), Config{
		APIKey:           "sk-test",
		BaseURL:          srv.URL + "/",
		MaxRetries:       retries,
		RetryBaseBackoff: time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(logger.Nop(), Config{})
	require.Error(t, err)
}

func TestChatCompletionSendsParameters(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatCompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"hey"}}],"usage":{"prompt_tokens":7,"completion_tokens":3,"total_tokens":10}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0)
	resp, err := c.ChatCompletion(context.Background(), ChatRequest{
		Messages:         []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hi"}},
		Temperature:      Float(0.7),
		MaxTokens:        800,
		PresencePenalty:  Float(0.1),
		FrequencyPenalty: Float(0.1),
		ResponseFormat:   &ResponseFormat{Type: "json_object"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hey", resp.FirstContent())
	assert.Equal(t, 10, resp.TotalTokens())

	assert.Equal(t, "gpt-4-turbo-preview", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
	assert.Equal(t, float64(800), got["max_tokens"])
	assert.Equal(t, 0.1, got["presence_penalty"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	assert.Len(t, got["messages"], 2)
}

func TestChatCompletionOmitsUnsetParameters(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv, 0).ChatCompletion(context.Background(), ChatRequest{
		Model:    "custom",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "", resp.FirstContent())
	assert.Equal(t, 0, resp.TotalTokens())
	assert.Equal(t, "custom", got["model"])
	for _, key := range []string{"temperature", "presence_penalty", "frequency_penalty", "response_format", "max_tokens"} {
		_, present := got[key]
		assert.False(t, present, "%s should be omitted", key)
	}
}

func TestChatCompletionHTTPErrorCarriesStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpx.StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestChatCompletionRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv, 1).ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.FirstContent())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestChatCompletionNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 0).ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTranscribeMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, transcriptionsPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "clip.webm", hdr.Filename)
		assert.Equal(t, []byte("audio-bytes"), data)
		_, _ = io.WriteString(w, `{"text":"hello there"}`)
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv, 0).Transcribe(context.Background(), []byte("audio-bytes"), "clip.webm")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("upstream should not be called")
	}))
	defer srv.Close()
	_, err := newTestClient(t, srv, 0).Transcribe(context.Background(), nil, "x.webm")
	require.Error(t, err)
}
