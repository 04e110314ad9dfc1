package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"vetflow/bot"
)

// consoleTransport is a single-user local transport: stdin lines become
// messages for one fixed chat key and replies print to stdout with the
// keyboard rendered as a hint line. It stands in for a real chat delivery
// adapter during development.
type consoleTransport struct {
	in  io.Reader
	out io.Writer
}

const consoleChatKey = "console"

func newConsoleTransport(in io.Reader, out io.Writer) *consoleTransport {
	return &consoleTransport{in: in, out: out}
}

// Send implements bot.Sender.
func (t *consoleTransport) Send(_ context.Context, _ string, text string, opts bot.SendOptions) error {
	if _, err := fmt.Fprintln(t.out, text); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	if len(opts.Keyboard) > 0 {
		rows := make([]string, len(opts.Keyboard))
		for i, row := range opts.Keyboard {
			rows[i] = strings.Join(row, " | ")
		}
		if _, err := fmt.Fprintf(t.out, "[%s]\n", strings.Join(rows, " / ")); err != nil {
			return fmt.Errorf("console: write keyboard: %w", err)
		}
	}
	return nil
}

// Run feeds stdin into the service until EOF or cancellation. "/start" is the
// entry command; everything else is a plain message.
func (t *consoleTransport) Run(ctx context.Context, svc *bot.Service) error {
	svc.Start(ctx, consoleChatKey)

	scanner := bufio.NewScanner(t.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/start" {
			svc.Start(ctx, consoleChatKey)
			continue
		}
		svc.HandleMessage(ctx, consoleChatKey, line)
	}
	return scanner.Err()
}
