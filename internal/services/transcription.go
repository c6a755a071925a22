package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/ngooning-backend/internal/observability"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/gcp"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/openai"
)

const (
	TranscriptionProviderOpenAI = "openai"
	TranscriptionProviderGCP    = "gcp"
)

// TranscriptionService turns a recorded voice clip into text. Failures yield "".
type TranscriptionService interface {
	Transcribe(ctx context.Context, audio []byte, filename, mimeType string) string
}

type transcriptionService struct {
	log      *logger.Logger
	provider string
	ai       openai.Client
	speech   gcp.Speech
}

func NewTranscriptionService(log *logger.Logger, provider string, ai openai.Client, speech gcp.Speech) (TranscriptionService, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = TranscriptionProviderOpenAI
	}
	switch provider {
	case TranscriptionProviderOpenAI:
		if ai == nil {
			return nil, fmt.Errorf("openai client required for transcription provider %q", provider)
		}
	case TranscriptionProviderGCP:
		if speech == nil {
			return nil, fmt.Errorf("gcp speech client required for transcription provider %q", provider)
		}
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", provider)
	}
	return &transcriptionService{
		log:      log.With("service", "TranscriptionService", "provider", provider),
		provider: provider,
		ai:       ai,
		speech:   speech,
	}, nil
}

func (ts *transcriptionService) Transcribe(ctx context.Context, audio []byte, filename, mimeType string) string {
	if len(audio) == 0 {
		return ""
	}
	ctx, span := observability.StartSpan(ctx, "transcription.transcribe")
	defer span.End()

	if strings.TrimSpace(filename) == "" {
		filename = "audio.webm"
	}

	var (
		text string
		err  error
	)
	switch ts.provider {
	case TranscriptionProviderGCP:
		text, err = ts.speech.Transcribe(ctx, audio, mimeType)
	default:
		text, err = ts.ai.Transcribe(ctx, audio, filename)
	}
	if err != nil {
		observability.Current().IncFallback("transcribe")
		ts.log.Error("Speech transcription error", append(ctxutil.LogFields(ctx), "bytes", len(audio), "error", err)...)
		return ""
	}
	return strings.TrimSpace(text)
}
