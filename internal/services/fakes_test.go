package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/openai"
	"github.com/yungbote/ngooning-backend/internal/realtime"
)

type fakeAI struct {
	mu       sync.Mutex
	reply    *openai.ChatResponse
	err      error
	text     string
	textErr  error
	requests []openai.ChatRequest
	audio    [][]byte
}

func (f *fakeAI) ChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeAI) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audio = append(f.audio, audio)
	return f.text, f.textErr
}

func (f *fakeAI) lastRequest() openai.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func replyWith(content string, totalTokens int) *openai.ChatResponse {
	return &openai.ChatResponse{
		Choices: []openai.Choice{{Message: openai.Message{Role: RoleAssistant, Content: content}}},
		Usage:   &openai.Usage{TotalTokens: totalTokens},
	}
}

type fakeAudit struct {
	mu      sync.Mutex
	err     error
	entries []AuditEntry
}

func (f *fakeAudit) Write(ctx context.Context, entry AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeAudit) written() []AuditEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AuditEntry(nil), f.entries...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (f *fakeNotifier) Notify(ctx context.Context, msg realtime.SSEMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func authedContext(id uuid.UUID, email string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		TokenString: "session-token",
		User: &ctxutil.AuthUser{
			ID:           id.String(),
			Email:        email,
			UserMetadata: ctxutil.UserMetadata{FullName: "Sam Rivera", Username: strings.ToLower(strings.Split(email, "@")[0])},
			AppMetadata:  ctxutil.AppMetadata{Provider: "email"},
		},
	})
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
