package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type fakeSpeech struct {
	text     string
	err      error
	mimeType string
}

func (f *fakeSpeech) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.mimeType = mimeType
	return f.text, f.err
}

func (f *fakeSpeech) Close() error { return nil }

func TestNewTranscriptionServiceValidatesProvider(t *testing.T) {
	_, err := NewTranscriptionService(logger.Nop(), "whisperx", &fakeAI{}, nil)
	require.Error(t, err)
	_, err = NewTranscriptionService(logger.Nop(), "gcp", &fakeAI{}, nil)
	require.Error(t, err)
	_, err = NewTranscriptionService(logger.Nop(), "", nil, nil)
	require.Error(t, err)

	svc, err := NewTranscriptionService(logger.Nop(), "", &fakeAI{}, nil)
	require.NoError(t, err)
	assert.Equal(t, TranscriptionProviderOpenAI, svc.(*transcriptionService).provider)
}

func TestTranscribeOpenAI(t *testing.T) {
	ai := &fakeAI{text: "  I feel stuck today \n"}
	svc, err := NewTranscriptionService(logger.Nop(), "openai", ai, nil)
	require.NoError(t, err)

	assert.Equal(t, "I feel stuck today", svc.Transcribe(context.Background(), []byte("webm"), "", "audio/webm"))
	require.Len(t, ai.audio, 1)
}

func TestTranscribeGCP(t *testing.T) {
	speech := &fakeSpeech{text: "hello there"}
	svc, err := NewTranscriptionService(logger.Nop(), "GCP", nil, speech)
	require.NoError(t, err)

	assert.Equal(t, "hello there", svc.Transcribe(context.Background(), []byte("ogg"), "clip.ogg", "audio/ogg"))
	assert.Equal(t, "audio/ogg", speech.mimeType)
}

func TestTranscribeFailuresYieldEmptyText(t *testing.T) {
	ai := &fakeAI{textErr: errors.New("413 payload too large")}
	svc, err := NewTranscriptionService(logger.Nop(), "openai", ai, nil)
	require.NoError(t, err)
	assert.Equal(t, "", svc.Transcribe(context.Background(), []byte("x"), "a.webm", ""))

	assert.Equal(t, "", svc.Transcribe(context.Background(), nil, "a.webm", ""))
	assert.Len(t, ai.audio, 1, "empty audio must not reach upstream")
}
