package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"finagent/internal/config"
)

// runConfigInit walks through the provider settings and writes them to
// a .env file in the working directory.
func runConfigInit(cfg *config.Config) error {
	fmt.Println(titleStyle.Render("finagent configuration setup"))

	provider, err := promptProvider(cfg.LLMProvider)
	if err != nil {
		return err
	}
	cfg.LLMProvider = provider

	switch provider {
	case config.ProviderDeepSeek:
		key, err := promptSecret("DeepSeek API key:", cfg.DeepSeekAPIKey != "")
		if err != nil {
			return err
		}
		if key != "" {
			cfg.DeepSeekAPIKey = key
		}
	default:
		backend, err := promptInput("OpenAI-compatible backend URL:", cfg.BackendURL)
		if err != nil {
			return err
		}
		cfg.BackendURL = backend

		key, err := promptSecret(`API key ("ollama" for a local Ollama):`, cfg.OpenAIAPIKey != "")
		if err != nil {
			return err
		}
		if key != "" {
			cfg.OpenAIAPIKey = key
		}
	}

	model, err := promptInput("Model name:", cfg.Model)
	if err != nil {
		return err
	}
	cfg.Model = model

	confirmed := false
	confirm := &survey.Confirm{
		Message: "Write these settings to .env?",
		Default: true,
	}
	if err := survey.AskOne(confirm, &confirmed); err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	if err := cfg.WriteEnvFile(".env"); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("✅ Wrote .env"))
	return nil
}

// promptProvider asks which LLM provider to use.
func promptProvider(current string) (string, error) {
	selected := current
	prompt := &survey.Select{
		Message: "LLM provider:",
		Options: []string{config.ProviderOpenAI, config.ProviderDeepSeek},
		Default: current,
		Help:    "openai covers any OpenAI-compatible endpoint, including a local Ollama",
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

// promptInput asks for a non-empty string with a default.
func promptInput(message, defaultValue string) (string, error) {
	value := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// promptSecret asks for an API key without echoing it. When a key is
// already configured, entering nothing keeps it.
func promptSecret(message string, hasExisting bool) (string, error) {
	value := ""
	prompt := &survey.Password{
		Message: message,
	}

	var opts []survey.AskOpt
	if hasExisting {
		prompt.Help = "Press Enter to keep the configured key"
	} else {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	if err := survey.AskOne(prompt, &value, opts...); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
