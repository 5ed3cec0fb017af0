package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hpungsan/bridgeai/internal/config"
	"github.com/hpungsan/bridgeai/internal/logging"
	"github.com/hpungsan/bridgeai/internal/mcp"
	"github.com/hpungsan/bridgeai/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"platforms": true, "scrape": true, "prompt": true,
	"transfer": true, "deliver": true, "send": true, "open": true,
	"payload": true, "serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func printBanner() {
	fmt.Println(`
   _          _     _
  | |__  _ __(_) __| | __ _  ___
  | '_ \| '__| |/ _' |/ _' |/ _ \
  | |_) | |  | | (_| | (_| |  __/
  |_.__/|_|  |_|\__,_|\__, |\___|
                      |___/

  Carry a conversation from one AI chat to another

  Usage: bridge <command> [options]
         bridge --help

  MCP server mode requires piped input.`)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no store.
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Resolve(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	deps, err := ops.Open(context.Background(), cfg, baseDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			deps.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument on a terminal is a typo, not an MCP client.
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'bridge --help' for usage.\n")
		deps.Close()
		os.Exit(1)
	}

	if err := runMCP(deps); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		deps.Close()
		os.Exit(1)
	}
}

// runMCP serves the MCP tools over stdio after reporting unknown disabled tools.
func runMCP(deps *ops.Deps) error {
	if unknown := mcp.ValidateDisabledTools(deps.Config.DisabledTools); len(unknown) > 0 {
		deps.Logger.Warn().Strs("tools", unknown).Msg("unknown tool names in disabled_tools")
	}
	return mcp.Run(deps, Version)
}
