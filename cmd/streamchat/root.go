package main

import (
	"time"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	provider     string
	model        string
	systemPrompt string
	envFiles     []string
	logFormat    string
	logLevel     string
	metricsAddr  string
	timeout      time.Duration
	maxTokens    int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "streamchat",
		Short: "Stream chat replies from OpenAI or Anthropic",
		Long: `streamchat sends a conversation to an OpenAI or Anthropic model and
prints the reply as it streams in. API keys are read from OPENAI_API_KEY and
ANTHROPIC_API_KEY, optionally loaded from a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.provider, "provider", "p", "openai", "provider to use (openai or anthropic)")
	flags.StringVarP(&opts.model, "model", "m", "", "model override (defaults to the provider's stock model)")
	flags.StringVar(&opts.systemPrompt, "system", "", "system prompt sent ahead of the conversation")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: compact or json (default from CHATSTREAM_LOG_FORMAT)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: TRACE, DEBUG, INFO, WARN, ERROR (default from CHATSTREAM_LOG_LEVEL)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flags.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "upper bound for a single reply (0 disables)")
	flags.IntVar(&opts.maxTokens, "max-tokens", 0, "reply token cap for providers that require one (0 keeps the default)")

	rootCmd.AddCommand(newAskCmd(opts), newChatCmd(opts))
	return rootCmd
}
