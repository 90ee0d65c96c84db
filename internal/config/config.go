package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Providers accepted by Config.LLMProvider. The "openai" provider covers
// every OpenAI-compatible endpoint, including Ollama's /v1 surface.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

type Config struct {
	LLMProvider string `json:"llm_provider"`
	Model       string `json:"model"`
	BackendURL  string `json:"backend_url"`

	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	MaxTokens int `json:"max_tokens"`
	MaxSteps  int `json:"max_steps"`

	// ToolHostCommand overrides how the driver locates the tool host
	// binary. Empty means: sibling of the running executable, then $PATH.
	ToolHostCommand string `json:"tool_host_command"`

	YahooQuoteAPIURL   string `json:"yahoo_quote_api_url"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`

	Debug bool `json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		LLMProvider: ProviderOpenAI,
		Model:       "qwen2.5:14b",
		BackendURL:  "http://localhost:11434/v1",

		OpenAIAPIKey:   "ollama",
		DeepSeekAPIKey: "",

		MaxTokens: 8192,
		MaxSteps:  40,

		ToolHostCommand: "",

		YahooQuoteAPIURL:   "https://query1.finance.yahoo.com",
		HTTPTimeoutSeconds: 30,

		Debug: false,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("MAX_STEPS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxSteps = v
		}
	}

	if val := os.Getenv("TOOL_HOST_COMMAND"); val != "" {
		c.ToolHostCommand = val
	}

	if val := os.Getenv("YAHOO_QUOTE_API_URL"); val != "" {
		c.YahooQuoteAPIURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("HTTP_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.HTTPTimeoutSeconds = v
		}
	}

	if val := os.Getenv("FINAGENT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

// Validate reports every problem that would prevent a run with the
// current settings.
func (c *Config) Validate() []error {
	var errs []error

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.BackendURL == "" {
			errs = append(errs, fmt.Errorf("BACKEND_URL is required for the %s provider", ProviderOpenAI))
		}
		if c.OpenAIAPIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required for the %s provider", ProviderOpenAI))
		}
	case ProviderDeepSeek:
		if c.DeepSeekAPIKey == "" {
			errs = append(errs, fmt.Errorf("DEEPSEEK_API_KEY is required for the %s provider", ProviderDeepSeek))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM provider %q (use %q or %q)", c.LLMProvider, ProviderOpenAI, ProviderDeepSeek))
	}

	if c.Model == "" {
		errs = append(errs, fmt.Errorf("LLM_MODEL must not be empty"))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens))
	}
	if c.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("MAX_STEPS must be positive, got %d", c.MaxSteps))
	}
	if c.YahooQuoteAPIURL == "" {
		errs = append(errs, fmt.Errorf("YAHOO_QUOTE_API_URL must not be empty"))
	}
	if c.HTTPTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds))
	}

	return errs
}

// EnvMap returns the settings as .env-style key/value pairs. Secrets are
// included as-is; callers decide what to display or persist.
func (c *Config) EnvMap() map[string]string {
	return map[string]string{
		"LLM_PROVIDER":         c.LLMProvider,
		"LLM_MODEL":            c.Model,
		"BACKEND_URL":          c.BackendURL,
		"OPENAI_API_KEY":       c.OpenAIAPIKey,
		"DEEPSEEK_API_KEY":     c.DeepSeekAPIKey,
		"MAX_TOKENS":           strconv.Itoa(c.MaxTokens),
		"MAX_STEPS":            strconv.Itoa(c.MaxSteps),
		"TOOL_HOST_COMMAND":    c.ToolHostCommand,
		"YAHOO_QUOTE_API_URL":  c.YahooQuoteAPIURL,
		"HTTP_TIMEOUT_SECONDS": strconv.Itoa(c.HTTPTimeoutSeconds),
		"FINAGENT_DEBUG":       strconv.FormatBool(c.Debug),
		"EINO_DEBUG_ENABLED":   strconv.FormatBool(c.EinoDebugEnabled),
		"EINO_DEBUG_PORT":      strconv.Itoa(c.EinoDebugPort),
	}
}

// WriteEnvFile persists the settings to a .env file at path, one
// KEY=VALUE per line in stable order.
func (c *Config) WriteEnvFile(path string) error {
	env := c.EnvMap()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, env[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
