package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/providers/ai"
)

const chatHelp = `Commands:
  /clear                  forget the conversation
  /provider <id> [model]  switch provider (openai, anthropic)
  /image <path>           attach an image to the next message
  /quit                   exit`

// errReplyFailed reports a failed reply as the command's error.
type errReplyFailed string

func (e errReplyFailed) Error() string { return "reply failed: " + string(e) }

// command is one parsed REPL line.
type command struct {
	name string   // Empty for a plain message
	args []string // Arguments after the command name
	text string   // The message text for plain messages
}

func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{text: line}
	}
	fields := strings.Fields(line)
	return command{name: strings.TrimPrefix(fields[0], "/"), args: fields[1:]}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			stopMetrics := application.serveMetrics(cmd.Context())
			defer stopMetrics()

			provider, err := application.initialProvider()
			if err != nil {
				return err
			}

			svc := application.newSession(provider)
			defer svc.Close()

			repl := &chatLoop{
				app:    application,
				svc:    svc,
				out:    cmd.OutOrStdout(),
				render: newRenderer(cmd.OutOrStdout()),
			}
			return repl.run(cmd, cmd.InOrStdin())
		},
	}
}

// chatLoop is the interactive read-send-render loop.
type chatLoop struct {
	app          *app
	svc          *session.Service
	out          io.Writer
	render       *renderer
	pendingImage []byte
}

func (l *chatLoop) run(cmd *cobra.Command, in io.Reader) error {
	updates, unsubscribe := l.svc.Subscribe()
	rendered := make(chan struct{})
	go func() {
		l.render.run(updates)
		close(rendered)
	}()
	defer func() {
		unsubscribe()
		<-rendered
	}()

	fmt.Fprintf(l.out, "Chatting with %s. Type /help for commands.\n", l.svc.Provider().Name())

	ctx, stopReading := context.WithCancel(cmd.Context())
	defer stopReading()
	lines := readLines(ctx, in)

	for {
		fmt.Fprint(l.out, "> ")

		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			return nil
		case next, ok := <-lines:
			if !ok {
				fmt.Fprintln(l.out)
				return nil
			}
			line = next
		}
		if line.err != nil {
			fmt.Fprintln(l.out)
			return line.err
		}

		quit, err := l.handle(cmd, parseCommand(line.text))
		if err != nil {
			fmt.Fprintf(l.out, "[error: %v]\n", err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// inputLine is one line read from the REPL input, or the read error that
// ended it.
type inputLine struct {
	text string
	err  error
}

// readLines scans in on its own goroutine so a blocked read does not keep
// the loop from seeing ctx. The channel is closed at EOF, after a read error
// or once ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return lines
}

func (l *chatLoop) handle(cmd *cobra.Command, parsed command) (bool, error) {
	switch parsed.name {
	case "":
		if parsed.text == "" {
			return false, nil
		}
		request := session.Request{Text: parsed.text, Image: l.pendingImage}
		l.pendingImage = nil
		if err := l.svc.Send(cmd.Context(), request); err != nil {
			return errors.Is(err, session.ErrClosed), err
		}
		<-l.render.finished
		return false, nil

	case "clear":
		l.svc.ClearHistory()
		fmt.Fprintln(l.out, "History cleared.")
		return false, nil

	case "provider":
		if len(parsed.args) == 0 {
			return false, fmt.Errorf("usage: /provider <%s|%s> [model]", ai.ProviderOpenAI, ai.ProviderAnthropic)
		}
		id, err := ai.ParseProviderID(parsed.args[0])
		if err != nil {
			return false, err
		}
		model := ""
		if len(parsed.args) > 1 {
			model = parsed.args[1]
		}
		provider, err := l.app.provider(id, model)
		if err != nil {
			return false, err
		}
		l.svc.SetProvider(provider)
		fmt.Fprintf(l.out, "Now using %s (%s).\n", provider.Name(), provider.Config().Model)
		return false, nil

	case "image":
		if len(parsed.args) == 0 {
			return false, errors.New("usage: /image <path>")
		}
		image, err := readImage(parsed.args[0])
		if err != nil {
			return false, err
		}
		l.pendingImage = image
		fmt.Fprintln(l.out, "Image attached to the next message.")
		return false, nil

	case "help":
		fmt.Fprintln(l.out, chatHelp)
		return false, nil

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command /%s (try /help)", parsed.name)
	}
}
