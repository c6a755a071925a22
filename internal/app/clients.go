package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ngooning-backend/internal/platform/gcp"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/openai"
	"github.com/yungbote/ngooning-backend/internal/platform/supabase"
	"github.com/yungbote/ngooning-backend/internal/realtime/bus"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type Clients struct {
	Redis       *goredis.Client
	RealtimeBus bus.Bus
	OpenAI      openai.Client
	GcpSpeech   gcp.Speech
	Supabase    supabase.Client
	Verifier    supabase.TokenVerifier
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis (optional)
	if cfg.Redis.Enabled() {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        strings.TrimSpace(cfg.Redis.Addr),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis realtime bus: %w", err)
		}
		out.Redis = rdb
		out.RealtimeBus = b
	} else {
		log.Info("REDIS_ADDR not set; realtime stays in-process and chat rate limiting is off")
	}

	// Openai
	ai, err := openai.NewClient(log, openai.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Model:           cfg.OpenAI.Model,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		Timeout:         cfg.OpenAI.Timeout(),
		MaxRetries:      cfg.OpenAI.MaxRetries,
		RateLimitPerSec: cfg.OpenAI.RateLimitRPS,
	})
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	out.OpenAI = ai

	// Gcp (only when selected for transcription)
	if strings.EqualFold(strings.TrimSpace(cfg.Transcription.Provider), services.TranscriptionProviderGCP) {
		speech, err := gcp.NewSpeech(ctx, log, gcp.SpeechConfig{
			LanguageCode: cfg.Transcription.GCPSpeechLanguage,
			MaxRetries:   cfg.Transcription.GCPSpeechRetries,
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init speech client: %w", err)
		}
		out.GcpSpeech = speech
	}

	// Supabase
	sb, err := supabase.NewClient(log, supabase.Config{
		URL:     cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
	})
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init supabase client: %w", err)
	}
	out.Supabase = sb
	out.Verifier = supabase.NewTokenVerifier(sb, cfg.Supabase.JWTSecret)

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.RealtimeBus != nil {
		_ = c.RealtimeBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GcpSpeech != nil {
		_ = c.GcpSpeech.Close()
	}
}
