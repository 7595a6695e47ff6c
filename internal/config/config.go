package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Chat provider names
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds all configuration for the application
type Config struct {
	Port      string
	Version   string
	LogLevel  string
	StaticDir string // Directory holding index.html and dashboard.html

	ChatProvider     string // "anthropic" or "openai"
	ChatMaxTokens    int    // Upper bound on reply length
	ChatTimeout      int    // Upstream timeout in seconds, 0 keeps the transport default
	ChatPersona      string // Named system prompt
	ChatSystemPrompt string // Overrides the persona prompt when set

	ClaudeAPIKey     string // Not validated at boot; a missing key surfaces on the first chat call
	ClaudeModel      string
	ClaudeBaseURL    string
	ClaudeAPIVersion string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // Empty uses the library default

	RecentEventsLimit int  // Trailing events returned by the dashboard
	TopTopicsLimit    int  // Topics listed in the dashboard summary
	MetricsEnabled    bool // Whether /metrics is served
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:      getEnv("PORT", "3000"),
		Version:   getEnv("VERSION", "1.0.0"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		StaticDir: getEnv("STATIC_DIR", "static"),

		ChatProvider:     strings.ToLower(getEnv("CHAT_PROVIDER", ProviderAnthropic)),
		ChatMaxTokens:    getEnvInt("CHAT_MAX_TOKENS", 500),
		ChatTimeout:      getEnvInt("CHAT_TIMEOUT", 0),
		ChatPersona:      getEnv("CHAT_PERSONA", "bridgeanchor"),
		ChatSystemPrompt: os.Getenv("CHAT_SYSTEM_PROMPT"),

		ClaudeAPIKey:     os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-3-haiku-20240307"),
		ClaudeBaseURL:    getEnv("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		ClaudeAPIVersion: getEnv("CLAUDE_API_VERSION", "2023-06-01"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		RecentEventsLimit: getEnvInt("RECENT_EVENTS_LIMIT", 50),
		TopTopicsLimit:    getEnvInt("TOP_TOPICS_LIMIT", 5),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as boolean with a default fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "bridgeanchor").
		Str("version", c.Version).
		Logger()

	// Set log level based on configuration
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
