package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/ngooning-backend/internal/data/db"
	"github.com/yungbote/ngooning-backend/internal/http/middleware"
	"github.com/yungbote/ngooning-backend/internal/platform/envutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/realtime/bus"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type OpenAIConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	TranscribeModel string  `yaml:"transcribe_model"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	MaxRetries      int     `yaml:"max_retries"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
}

func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SupabaseConfig struct {
	URL       string `yaml:"url"`
	AnonKey   string `yaml:"anon_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

func (c RedisConfig) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

type TranscriptionConfig struct {
	Provider          string `yaml:"provider"`
	GCPSpeechLanguage string `yaml:"gcp_speech_language"`
	GCPSpeechRetries  int    `yaml:"gcp_speech_retries"`
}

type Config struct {
	Port             string              `yaml:"port"`
	ServiceName      string              `yaml:"service_name"`
	Environment      string              `yaml:"environment"`
	AppURL           string              `yaml:"app_url"`
	CORSOrigins      []string            `yaml:"cors_allowed_origins"`
	ChatRateLimitQPS int                 `yaml:"chat_rate_limit_qps"`
	OpenAI           OpenAIConfig        `yaml:"openai"`
	Supabase         SupabaseConfig      `yaml:"supabase"`
	Postgres         db.PostgresConfig   `yaml:"postgres"`
	Redis            RedisConfig         `yaml:"redis"`
	Transcription    TranscriptionConfig `yaml:"transcription"`
}

func defaultConfig() Config {
	return Config{
		Port:        "8080",
		ServiceName: "ngooning-backend",
		Environment: "development",
		CORSOrigins: append([]string(nil), middleware.DefaultAllowedOrigins...),
		OpenAI: OpenAIConfig{
			BaseURL:         "https://api.openai.com",
			Model:           "gpt-4-turbo-preview",
			TranscribeModel: "whisper-1",
			TimeoutSeconds:  180,
		},
		Postgres: db.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "postgres",
			SSLMode: "disable",
		},
		Redis: RedisConfig{Channel: bus.DefaultChannel},
		Transcription: TranscriptionConfig{
			Provider:          services.TranscriptionProviderOpenAI,
			GCPSpeechLanguage: "en-US",
			GCPSpeechRetries:  2,
		},
	}
}

// LoadConfig layers defaults, the YAML file named by CONFIG_FILE, and the
// environment, in that order, then validates the result.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String(cfg.Port, "PORT")
	cfg.ServiceName = envutil.String(cfg.ServiceName, "SERVICE_NAME")
	cfg.Environment = envutil.String(cfg.Environment, "ENVIRONMENT")
	cfg.AppURL = envutil.String(cfg.AppURL, "APP_URL", "NEXT_PUBLIC_APP_URL")
	cfg.CORSOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.ChatRateLimitQPS = envutil.Int("CHAT_RATE_LIMIT_QPS", cfg.ChatRateLimitQPS)

	cfg.OpenAI.APIKey = envutil.String(cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = envutil.String(cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	cfg.OpenAI.Model = envutil.String(cfg.OpenAI.Model, "OPENAI_MODEL")
	cfg.OpenAI.TranscribeModel = envutil.String(cfg.OpenAI.TranscribeModel, "OPENAI_TRANSCRIBE_MODEL")
	cfg.OpenAI.TimeoutSeconds = envutil.Int("OPENAI_TIMEOUT_SECONDS", cfg.OpenAI.TimeoutSeconds)
	cfg.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", cfg.OpenAI.MaxRetries)
	cfg.OpenAI.RateLimitRPS = envutil.Float("OPENAI_RATE_LIMIT_RPS", cfg.OpenAI.RateLimitRPS)

	cfg.Supabase.URL = envutil.String(cfg.Supabase.URL, "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	cfg.Supabase.AnonKey = envutil.String(cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
	cfg.Supabase.JWTSecret = envutil.String(cfg.Supabase.JWTSecret, "SUPABASE_JWT_SECRET")

	cfg.Postgres.DSN = envutil.String(cfg.Postgres.DSN, "POSTGRES_DSN", "DATABASE_URL")
	cfg.Postgres.Host = envutil.String(cfg.Postgres.Host, "POSTGRES_HOST")
	cfg.Postgres.Port = envutil.String(cfg.Postgres.Port, "POSTGRES_PORT")
	cfg.Postgres.User = envutil.String(cfg.Postgres.User, "POSTGRES_USER")
	cfg.Postgres.Password = envutil.String(cfg.Postgres.Password, "POSTGRES_PASSWORD")
	cfg.Postgres.Name = envutil.String(cfg.Postgres.Name, "POSTGRES_NAME", "POSTGRES_DB")
	cfg.Postgres.SSLMode = envutil.String(cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")

	cfg.Redis.Addr = envutil.String(cfg.Redis.Addr, "REDIS_ADDR")
	cfg.Redis.Password = envutil.String(cfg.Redis.Password, "REDIS_PASSWORD")
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String(cfg.Redis.Channel, "REDIS_CHANNEL")

	cfg.Transcription.Provider = envutil.String(cfg.Transcription.Provider, "TRANSCRIPTION_PROVIDER")
	cfg.Transcription.GCPSpeechLanguage = envutil.String(cfg.Transcription.GCPSpeechLanguage, "GCP_SPEECH_LANGUAGE")
	cfg.Transcription.GCPSpeechRetries = envutil.Int("GCP_SPEECH_MAX_RETRIES", cfg.Transcription.GCPSpeechRetries)
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if strings.TrimSpace(c.Supabase.URL) == "" {
		errs = append(errs, errors.New("SUPABASE_URL is required"))
	}
	if strings.TrimSpace(c.Supabase.AnonKey) == "" {
		errs = append(errs, errors.New("SUPABASE_ANON_KEY is required"))
	}
	if strings.TrimSpace(c.AppURL) == "" {
		errs = append(errs, errors.New("APP_URL is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Transcription.Provider)) {
	case services.TranscriptionProviderOpenAI, services.TranscriptionProviderGCP:
	default:
		errs = append(errs, fmt.Errorf("unsupported TRANSCRIPTION_PROVIDER %q", c.Transcription.Provider))
	}
	if c.ChatRateLimitQPS < 0 {
		errs = append(errs, errors.New("CHAT_RATE_LIMIT_QPS must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
