package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/bridgeai/internal/api"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/ops"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "bridge",
		Usage:   "Carry a conversation from one AI chat to another",
		Version: Version,
		Commands: []*cli.Command{
			platformsCmd(deps),
			scrapeCmd(deps),
			promptCmd(deps),
			transferCmd(deps),
			deliverCmd(deps),
			sendCmd(deps),
			openCmd(deps),
			payloadCmd(deps),
			serveCmd(deps),
			mcpCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// pageFlags select the page a command reads.
func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Saved page (.html); reads stdin when omitted"},
		&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Platform id the page belongs to"},
		&cli.StringFlag{Name: "host", Usage: "Hostname the page was served from"},
	}
}

// pageInput builds a PageInput from the page flags, falling back to piped HTML.
func pageInput(c *cli.Context) (ops.PageInput, error) {
	in := ops.PageInput{
		Platform: c.String("platform"),
		Host:     c.String("host"),
		Path:     c.String("file"),
	}
	if in.Path != "" {
		return in, nil
	}
	if !stdinHasData() {
		return in, errors.NewInvalidRequest("page HTML must be piped via stdin or given with --file")
	}
	html, err := readStdin()
	if err != nil {
		return in, errors.NewInternal(err)
	}
	in.HTML = html
	return in, nil
}

func platformsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "platforms",
		Usage: "List supported platforms",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Only list destinations reachable from this platform"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Platforms(deps, ops.PlatformsInput{Source: c.String("source")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func scrapeCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "scrape",
		Usage: "Extract the conversation from a chat page",
		Flags: pageFlags(),
		Action: func(c *cli.Context) error {
			page, err := pageInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Scrape(deps, ops.ScrapeInput{PageInput: page})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func promptCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Format messages into a transfer prompt (reads messages JSON from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Required: true, Usage: "Source platform id or name"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Trailing messages to include"},
			&cli.BoolFlag{Name: "full", Usage: "Include the full history"},
			&cli.BoolFlag{Name: "text", Usage: "Print only the prompt text"},
		},
		Action: func(c *cli.Context) error {
			messages, err := readMessages()
			if err != nil {
				return outputError(err)
			}
			input := ops.BuildPromptInput{Source: c.String("source"), Messages: messages}
			if c.IsSet("count") {
				n := c.Int("count")
				input.MessageCount = &n
			}
			if c.IsSet("full") {
				full := c.Bool("full")
				input.IncludeFullHistory = &full
			}

			output, err := ops.BuildPrompt(deps, input)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("text") {
				_, err := fmt.Fprintln(os.Stdout, output.Prompt)
				return err
			}
			return outputJSON(output)
		},
	}
}

func transferCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Scrape a source page, save the payload and open the destination",
		Flags: append(pageFlags(),
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Required: true, Usage: "Destination platform id"},
		),
		Action: func(c *cli.Context) error {
			page, err := pageInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Transfer(c.Context, deps, ops.TransferInput{PageInput: page, Destination: c.String("to")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func deliverCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "deliver",
		Usage: "Deliver the pending payload to a destination page",
		Flags: append(pageFlags(),
			&cli.DurationFlag{Name: "settle", Usage: "Override the settle delay (e.g. 0s, 1500ms)"},
		),
		Action: func(c *cli.Context) error {
			page, err := pageInput(c)
			if err != nil {
				return outputError(err)
			}
			input := ops.DeliverInput{PageInput: page}
			if c.IsSet("settle") {
				settle := c.Duration("settle")
				if settle < 0 {
					return outputError(errors.NewInvalidRequest("--settle must not be negative"))
				}
				input.SettleDelay = &settle
			}
			output, err := ops.Deliver(c.Context, deps, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func sendCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Save already-scraped messages as the payload and open the destination",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "Source platform id"},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Required: true, Usage: "Destination platform id"},
		},
		Action: func(c *cli.Context) error {
			messages, err := readMessages()
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Submit(c.Context, deps, ops.SubmitInput{
				SourcePlatform:      c.String("from"),
				DestinationPlatform: c.String("to"),
				Messages:            messages,
			})
			if err != nil {
				return outputError(err)
			}
			if err := outputJSON(output); err != nil {
				return err
			}
			if !output.Success {
				return cli.Exit("destination did not open: "+output.Error, 1)
			}
			return nil
		},
	}
}

func openCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a new tab on a platform",
		ArgsUsage: "<platform>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one platform id is required"))
			}
			h, err := ops.OpenTab(c.Context, deps, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(h)
		},
	}
}

func payloadCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "payload",
		Usage: "Inspect or discard the pending payload",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the pending payload",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "full", Usage: "Include messages and prompt"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.PayloadFetch(c.Context, deps, ops.PayloadFetchInput{IncludePayload: c.Bool("full")})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "clear",
				Usage: "Discard the pending payload",
				Action: func(c *cli.Context) error {
					output, err := ops.PayloadClear(c.Context, deps)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "expire",
				Usage: "Discard the pending payload if it has expired",
				Action: func(c *cli.Context) error {
					output, err := ops.PayloadExpire(c.Context, deps)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

func serveCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the bridge daemon (HTTP API, preview UI and expiry sweep)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides listen_addr)"},
		},
		Action: func(c *cli.Context) error {
			if addr := c.String("addr"); addr != "" {
				deps.Config.ListenAddr = addr
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := api.Serve(ctx, deps, deps.Logger, Version); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

func mcpCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the bridge tools over MCP stdio",
		Action: func(c *cli.Context) error {
			if err := runMCP(deps); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if bErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", bErr.Code, bErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readMessages decodes piped messages: either a bare array or an object with
// a "messages" field, such as `bridge scrape` output.
func readMessages() ([]message.Message, error) {
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("messages JSON must be piped via stdin")
	}
	raw, err := readStdin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return parseMessages(raw)
}

func parseMessages(raw string) ([]message.Message, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.NewInvalidRequest("messages JSON is empty")
	}
	var messages []message.Message
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &messages); err != nil {
			return nil, errors.NewInvalidRequest("invalid messages JSON: " + err.Error())
		}
		return messages, nil
	}
	var wrapped struct {
		Messages []message.Message `json:"messages"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, errors.NewInvalidRequest("invalid messages JSON: " + err.Error())
	}
	return wrapped.Messages, nil
}
