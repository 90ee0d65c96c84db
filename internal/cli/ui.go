package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"finagent/internal/config"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Width(22)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
)

// printVersion shows the build banner for either binary.
func printVersion(app string) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s v%s", app, version)))
	printField("Commit", commit)
	printField("Built", date)
}

// showConfig displays the effective configuration.
func showConfig(cfg *config.Config) {
	fmt.Println(titleStyle.Render("finagent configuration"))

	fmt.Println(sectionStyle.Render("LLM"))
	printField("Provider", cfg.LLMProvider)
	printField("Model", cfg.Model)
	printField("Backend URL", cfg.BackendURL)
	printField("OpenAI API Key", maskSecret(cfg.OpenAIAPIKey))
	printField("DeepSeek API Key", maskSecret(cfg.DeepSeekAPIKey))
	printField("Max Tokens", fmt.Sprintf("%d", cfg.MaxTokens))
	printField("Max Steps", fmt.Sprintf("%d", cfg.MaxSteps))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Tool Host"))
	printField("Command", orDefault(cfg.ToolHostCommand, "(finserver next to this binary)"))
	printField("Yahoo API URL", cfg.YahooQuoteAPIURL)
	printField("HTTP Timeout", fmt.Sprintf("%ds", cfg.HTTPTimeoutSeconds))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Debug"))
	printField("Debug Logging", fmt.Sprintf("%t", cfg.Debug))
	printField("Eino Debug", fmt.Sprintf("%t", cfg.EinoDebugEnabled))
	if cfg.EinoDebugEnabled {
		printField("Eino Debug URL", fmt.Sprintf("http://localhost:%d", cfg.EinoDebugPort))
	}
}

// validateConfig prints every problem Validate finds and fails if any.
func validateConfig(cfg *config.Config) error {
	fmt.Println(titleStyle.Render("Validating finagent configuration"))

	errs := cfg.Validate()
	if len(errs) == 0 {
		fmt.Println(okStyle.Render("✅ Configuration is valid."))
		return nil
	}

	for _, err := range errs {
		fmt.Printf("%s %v\n", errorStyle.Render("❌"), err)
	}
	return fmt.Errorf("configuration has %d problem(s)", len(errs))
}

func printField(label, value string) {
	fmt.Printf("%s %s\n", labelStyle.Render(label+":"), value)
}

// maskSecret hides all but a short prefix of an API key.
func maskSecret(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 4:
		return strings.Repeat("*", len(secret))
	default:
		return secret[:4] + strings.Repeat("*", 4)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
