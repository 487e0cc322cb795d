package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/verdeflow/verde-assistant-service/types"
)

// Config holds everything the service reads from the environment. A `.env`
// file in the working directory is honored for local development; real
// deployments set the variables directly.
type Config struct {
	Port string

	SupabaseURL     string
	SupabaseAnonKey string

	GroqAPIKey string
	GroqModel  string

	RedisAddr string // optional; empty disables the auth lookup cache
}

const (
	defaultPort      = "8140"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// Load reads configuration from the environment. Missing Supabase or Groq
// credentials are not fatal here: endpoints that need them report
// missing_configuration per request, so the health endpoint stays up.
func Load() *Config {
	// Best effort; absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenv("PORT", defaultPort),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       getenv("GROQ_MODEL", defaultGroqModel),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}
	return cfg
}

// RequireSupabase returns a missing_configuration error naming the provider
// when the Supabase credentials are absent.
func (c *Config) RequireSupabase() error {
	if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
		return types.NewError(types.ErrMissingConfiguration, "missing_supabase_env")
	}
	return nil
}

// RequireGroq returns a missing_configuration error when the Groq key is absent.
func (c *Config) RequireGroq() error {
	if c.GroqAPIKey == "" {
		return types.NewError(types.ErrMissingConfiguration, "missing_groq_api_key")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// String renders the config with secrets redacted, for startup logging.
func (c *Config) String() string {
	redact := func(s string) string {
		if s == "" {
			return "(unset)"
		}
		return "(set)"
	}
	return fmt.Sprintf("port=%s supabase=%s groq=%s redis=%q",
		c.Port, redact(c.SupabaseAnonKey), redact(c.GroqAPIKey), c.RedisAddr)
}
