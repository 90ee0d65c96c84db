// Package cli provides the command-line interface for the finance
// agent and its MCP tool host.
package cli

import (
	"log"
	"os"
)

// Run starts the agent CLI.
func Run() {
	initLogging("finagent")
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RunServer starts the tool host CLI.
func RunServer() {
	initLogging("finserver")
	serverCmd := NewServerCmd()

	if err := serverCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogging routes all log output to stderr. Stdout is reserved for
// the Response line and, in the server, the MCP protocol stream.
func initLogging(process string) {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("[" + process + "] ")
}
