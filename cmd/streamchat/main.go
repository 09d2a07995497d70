// Command streamchat is a terminal front end for the chat session: it streams
// replies from OpenAI or Anthropic to stdout as they arrive.
//
//	streamchat ask --provider anthropic "Why is the sky blue?"
//	streamchat chat --metrics-addr :9090
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
