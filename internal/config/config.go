package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Storage  StorageConfig
	STT      STTConfig
	Upload   UploadConfig
	Pipeline PipelineConfig
	Webhook  WebhookConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	RateLimit      float64 // requests per second per client, 0 disables
	RateBurst      int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LLMConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
	MaxRetries       int
}

type StorageConfig struct {
	Backend     string // "local" or "supabase"
	LocalRoot   string
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

type STTConfig struct {
	Backend       string // "openai" or "local"
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LocalBaseURL  string
}

type UploadConfig struct {
	MaxSizeBytes      int64
	AllowedExtensions []string
}

type PipelineConfig struct {
	DiarizeBackend    string // "llm", "silence" or "none"
	CorrectionEnabled bool
	CorrectionModel   string
	SummaryModel      string
	CacheTTL          time.Duration
}

type WebhookConfig struct {
	Secret  string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string][]string{
	"server.host":            {"SERVER_HOST"},
	"server.port":            {"SERVER_PORT"},
	"server.allowed_origins": {"CORS_ALLOWED_ORIGINS"},
	"server.rate_limit":      {"RATE_LIMIT_RPS"},
	"server.rate_burst":      {"RATE_LIMIT_BURST"},

	"database.url":       {"DATABASE_URL"},
	"database.max_conns": {"DB_MAX_CONNS"},
	"database.min_conns": {"DB_MIN_CONNS"},

	"redis.addr":     {"REDIS_ADDR"},
	"redis.password": {"REDIS_PASSWORD"},
	"redis.db":       {"REDIS_DB"},

	"llm.openai_key":        {"OPENAI_API_KEY"},
	"llm.anthropic_key":     {"ANTHROPIC_API_KEY"},
	"llm.ollama_url":        {"OLLAMA_URL"},
	"llm.default_provider":  {"LLM_DEFAULT_PROVIDER"},
	"llm.default_model":     {"LLM_DEFAULT_MODEL"},
	"llm.fallback_provider": {"LLM_FALLBACK_PROVIDER"},
	"llm.max_retries":       {"LLM_MAX_RETRIES"},

	"storage.backend":      {"STORAGE_BACKEND"},
	"storage.local_root":   {"STORAGE_LOCAL_ROOT"},
	"storage.supabase_url": {"SUPABASE_URL"},
	"storage.supabase_key": {"SUPABASE_SERVICE_KEY"},
	"storage.bucket":       {"STORAGE_BUCKET"},

	"stt.backend":         {"STT_BACKEND"},
	"stt.openai_key":      {"STT_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"stt.openai_base_url": {"STT_OPENAI_BASE_URL"},
	"stt.openai_model":    {"STT_OPENAI_MODEL"},
	"stt.local_base_url":  {"STT_LOCAL_BASE_URL"},

	"upload.max_size_bytes":     {"UPLOAD_MAX_SIZE_BYTES"},
	"upload.allowed_extensions": {"UPLOAD_ALLOWED_EXTENSIONS"},

	"pipeline.diarize_backend":    {"DIARIZE_BACKEND"},
	"pipeline.correction_enabled": {"CORRECTION_ENABLED"},
	"pipeline.correction_model":   {"CORRECTION_MODEL"},
	"pipeline.summary_model":      {"SUMMARY_MODEL"},
	"pipeline.cache_ttl":          {"TRANSCRIPTION_CACHE_TTL"},

	"webhook.secret":  {"WEBHOOK_SECRET"},
	"webhook.timeout": {"WEBHOOK_TIMEOUT"},

	"log.level": {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)

	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.default_model", "gpt-4")
	v.SetDefault("llm.max_retries", 3)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_root", "uploads")
	v.SetDefault("storage.bucket", "audio-files")

	v.SetDefault("stt.backend", "openai")
	v.SetDefault("stt.openai_model", "whisper-1")
	v.SetDefault("stt.local_base_url", "http://localhost:8178")

	v.SetDefault("upload.max_size_bytes", int64(500*1024*1024))
	v.SetDefault("upload.allowed_extensions", []string{"mp3", "mp4", "wav"})

	v.SetDefault("pipeline.diarize_backend", "llm")
	v.SetDefault("pipeline.correction_enabled", true)
	v.SetDefault("pipeline.correction_model", "gpt-4")
	v.SetDefault("pipeline.summary_model", "gpt-4")
	v.SetDefault("pipeline.cache_ttl", 24*time.Hour)

	v.SetDefault("webhook.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
}

// Load reads configuration from defaults, an optional file named by
// CONFIG_PATH, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_PATH"))
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			AllowedOrigins: stringList(v, "server.allowed_origins"),
			RateLimit:      v.GetFloat64("server.rate_limit"),
			RateBurst:      v.GetInt("server.rate_burst"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("database.url"),
			MaxConns: v.GetInt("database.max_conns"),
			MinConns: v.GetInt("database.min_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			OpenAIKey:        v.GetString("llm.openai_key"),
			AnthropicKey:     v.GetString("llm.anthropic_key"),
			OllamaURL:        v.GetString("llm.ollama_url"),
			DefaultProvider:  v.GetString("llm.default_provider"),
			DefaultModel:     v.GetString("llm.default_model"),
			FallbackProvider: v.GetString("llm.fallback_provider"),
			MaxRetries:       v.GetInt("llm.max_retries"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString("storage.backend")),
			LocalRoot:   v.GetString("storage.local_root"),
			SupabaseURL: v.GetString("storage.supabase_url"),
			SupabaseKey: v.GetString("storage.supabase_key"),
			Bucket:      v.GetString("storage.bucket"),
		},
		STT: STTConfig{
			Backend:       strings.ToLower(v.GetString("stt.backend")),
			OpenAIKey:     v.GetString("stt.openai_key"),
			OpenAIBaseURL: v.GetString("stt.openai_base_url"),
			OpenAIModel:   v.GetString("stt.openai_model"),
			LocalBaseURL:  v.GetString("stt.local_base_url"),
		},
		Upload: UploadConfig{
			MaxSizeBytes:      v.GetInt64("upload.max_size_bytes"),
			AllowedExtensions: stringList(v, "upload.allowed_extensions"),
		},
		Pipeline: PipelineConfig{
			DiarizeBackend:    strings.ToLower(v.GetString("pipeline.diarize_backend")),
			CorrectionEnabled: v.GetBool("pipeline.correction_enabled"),
			CorrectionModel:   v.GetString("pipeline.correction_model"),
			SummaryModel:      v.GetString("pipeline.summary_model"),
			CacheTTL:          v.GetDuration("pipeline.cache_ttl"),
		},
		Webhook: WebhookConfig{
			Secret:  v.GetString("webhook.secret"),
			Timeout: v.GetDuration("webhook.timeout"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	return cfg, nil
}

// stringList accepts both list values from a config file and comma separated
// values from the environment.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalRoot == "" {
			problems = append(problems, "STORAGE_LOCAL_ROOT")
		}
	case "supabase":
		if c.Storage.SupabaseURL == "" {
			problems = append(problems, "SUPABASE_URL")
		}
		if c.Storage.SupabaseKey == "" {
			problems = append(problems, "SUPABASE_SERVICE_KEY")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.STT.Backend {
	case "openai":
		if c.STT.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY")
		}
	case "local":
	default:
		return fmt.Errorf("unknown STT_BACKEND %q", c.STT.Backend)
	}

	switch c.Pipeline.DiarizeBackend {
	case "llm", "silence", "none":
	default:
		return fmt.Errorf("unknown DIARIZE_BACKEND %q", c.Pipeline.DiarizeBackend)
	}

	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(problems, ", "))
	}
	return nil
}
