// medaudit: medication-audit coordination MCP server
//
// Exposes the shared-state core of a hospital medication-audit exercise
// (plans, specialist roster, record store, scripted mid-run events) as
// MCP tools over stdio, for an external agent runtime to drive.
//
// Usage:
//
//	medaudit serve                 # Start MCP server (stdio transport)
//	medaudit serve -config x.yaml  # With an explicit config file
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/medaudit/internal/config"
	"github.com/HendryAvila/medaudit/internal/server"
)

func main() {
	// Everything we print goes to stderr: stdout belongs to the MCP
	// stdio transport.
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("medaudit v%s\n", server.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	s, cleanup, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt: the stdio server returns when
	// stdin closes; the signal handler covers direct termination.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	return mcpserver.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `medaudit v%s — medication-audit coordination MCP server

Usage:
  medaudit serve [-config path]   Start the MCP server (stdio transport)
  medaudit version                Print the version

Configuration (defaults < YAML < environment):
  medaudit.yaml keys: scenario_path, seed, availability_rate
  Environment: MEDAUDIT_SCENARIO, MEDAUDIT_SEED, MEDAUDIT_AVAILABILITY_RATE

MCP client config:

  {
    "mcpServers": {
      "medaudit": {
        "command": "medaudit",
        "args": ["serve"]
      }
    }
  }
`, server.Version)
}
