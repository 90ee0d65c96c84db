package agent

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"

	"finagent/internal/config"
	"finagent/internal/debug"
)

// systemPrompt frames the single-query financial session.
const systemPrompt = `You are a helpful financial assistant.
Use the provided tools to look up stock information, prices, financial
statements and key metrics, then answer the user's question concisely.
Base your answer on tool results rather than prior knowledge.`

// Run answers one query end to end: it launches the tool host, wires an
// MCP session over its pipes, discovers the tool surface, and drives
// the react loop until the model settles on an answer.
func Run(ctx context.Context, cfg *config.Config, query string) (string, error) {
	log.Printf("Initializing MCP agent...")

	if err := debug.NewEinoDebugger(cfg).Initialize(); err != nil {
		log.Printf("Eino debug unavailable: %v", err)
	}

	command, args := resolveHostCommand(cfg)
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("failed to open tool host stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to open tool host stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start tool host %s: %w", command, err)
	}
	defer func() {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	client := mcp.NewClient(stdio.NewStdioServerTransportWithIO(stdout, stdin))
	if _, err := client.Initialize(ctx); err != nil {
		return "", fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	tools, err := DiscoverTools(ctx, client)
	if err != nil {
		return "", err
	}
	if len(tools) == 0 {
		return "", fmt.Errorf("tool host %s offered no tools", command)
	}
	log.Printf("Discovered %d tools from %s", len(tools), command)

	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return "", err
	}

	reactAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          cfg.MaxSteps,
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		StreamToolCallChecker: ToolCallChecker,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %v", err)
	}

	log.Printf("Running query: %s", query)
	out, err := reactAgent.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(query),
	})
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// resolveHostCommand decides how to launch the tool host: an explicit
// TOOL_HOST_COMMAND wins, then a finserver binary next to the running
// executable, then PATH lookup.
func resolveHostCommand(cfg *config.Config) (string, []string) {
	if parts := strings.Fields(cfg.ToolHostCommand); len(parts) > 0 {
		return parts[0], parts[1:]
	}
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "finserver")
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	return "finserver", nil
}
