package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"finagent/internal/agent"
	"finagent/internal/config"
	"finagent/internal/dataflows"
	"finagent/internal/fintools"
	"finagent/internal/toolhost"
)

// Build metadata, overridden via -ldflags at release time.
var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

// NewRootCmd creates the agent root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   `finagent "QUERY"`,
		Short: "finagent - LLM agent over financial data tools",
		Long: `finagent answers a single financial question by driving an LLM
tool-calling loop against a local MCP tool host. The host serves stock
profiles, prices, financial statements and key metrics from Yahoo Finance.

Example: finagent "What is the current price of AAPL?"`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cfg, args[0])
		},
	}

	rootCmd.AddCommand(newVersionCmd("finagent"))
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// NewServerCmd creates the tool host root command.
func NewServerCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	serverCmd := &cobra.Command{
		Use:   "finserver",
		Short: "finserver - Financial Data MCP tool host",
		Long: `finserver speaks MCP over stdio: JSON-RPC requests on stdin, responses
on stdout, logs on stderr. It is normally spawned by finagent, but any
MCP client can drive it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	serverCmd.AddCommand(newVersionCmd("finserver"))

	serverCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return serverCmd
}

// newVersionCmd creates the version command for either binary.
func newVersionCmd(app string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(app)
		},
	}
}

// newConfigCmd creates the config command group.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect, validate, and bootstrap finagent configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Interactively write a .env file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cfg)
		},
	})

	return configCmd
}

// runQuery drives one agent session. Agent failures end the run
// quietly: they are logged to stderr and no Response line is printed.
func runQuery(cfg *config.Config, query string) error {
	answer, err := agent.Run(context.Background(), cfg, query)
	if err != nil {
		log.Printf("Error running agent: %v", err)
		return nil
	}

	fmt.Printf("Response: %s\n", answer)
	return nil
}

// runServe blocks serving MCP on stdin/stdout until the process is
// signalled.
func runServe(cfg *config.Config) error {
	service := fintools.NewService(dataflows.NewProvider(cfg), log.Default())
	return toolhost.NewHost(service, log.Default()).Serve()
}
