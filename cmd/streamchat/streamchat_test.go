package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/providers/ai"
)

func fakeOpenAI(t *testing.T, status int, fragments ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if status != http.StatusOK {
			writer.WriteHeader(status)
			return
		}
		for _, fragment := range fragments {
			fmt.Fprintf(writer, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", fragment)
		}
		fmt.Fprint(writer, "data: [DONE]\n\n")
	}))
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--env-file", t.TempDir()+"/none.env", "--log-level", "ERROR"))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestAsk_StreamsReply(t *testing.T) {
	server := fakeOpenAI(t, http.StatusOK, "Hello", ", ", "world")
	t.Setenv("OPENAI_API_BASE_URL", server.URL)

	out, err := runCLI(t, "", "ask", "say", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world\n", out)
}

func TestAsk_ReportsFailure(t *testing.T) {
	server := fakeOpenAI(t, http.StatusUnauthorized)
	t.Setenv("OPENAI_API_BASE_URL", server.URL)

	out, err := runCLI(t, "", "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key")
	assert.Contains(t, out, "[error: invalid API key]")
}

func TestAsk_UnknownProvider(t *testing.T) {
	_, err := runCLI(t, "", "ask", "--provider", "gemini", "hi")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestChat_Session(t *testing.T) {
	server := fakeOpenAI(t, http.StatusOK, "pong")
	t.Setenv("OPENAI_API_BASE_URL", server.URL)

	out, err := runCLI(t, "ping\n/bogus\n/clear\n/provider anthropic\n/quit\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "Chatting with OpenAI GPT-4o")
	assert.Contains(t, out, "pong\n")
	assert.Contains(t, out, "unknown command /bogus")
	assert.Contains(t, out, "History cleared.")
	assert.Contains(t, out, "Now using Anthropic Claude 3.5 Sonnet (claude-3-5-sonnet-20240620).")
}

func TestChat_ExitsOnCancelWhileWaitingForInput(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	stdin, stdinWriter := io.Pipe()
	defer stdinWriter.Close()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"chat", "--env-file", t.TempDir() + "/none.env", "--log-level", "ERROR"})
	cmd.SetIn(stdin)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat did not return after its context was cancelled")
	}
}

func TestReadLines_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, strings.NewReader("one\ntwo\n"))

	first := <-lines
	require.NoError(t, first.err)
	assert.Equal(t, "one", first.text)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-lines:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, command{text: "hello there"}, parseCommand("  hello there "))
	assert.Equal(t, command{name: "provider", args: []string{"anthropic", "claude-3-haiku"}}, parseCommand("/provider anthropic claude-3-haiku"))
	assert.Equal(t, command{name: "clear", args: []string{}}, parseCommand("/clear"))
}

func TestRenderer_PrintsSuffixesOnce(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)

	reply := ai.NewMessage(ai.RoleAssistant, "", nil)
	user := ai.NewMessage(ai.RoleUser, "hi", nil)
	state := func(content string, generating bool, lastError string) session.State {
		message := reply
		message.Content = content
		return session.State{Conversation: []ai.Message{user, message}, IsGenerating: generating, LastError: lastError}
	}

	r.render(state("", true, ""))
	r.render(state("Hel", true, ""))
	r.render(state("Hello wor", true, ""))
	r.render(state("Hello world", false, "provider error: boom"))
	r.render(state("Hello world", false, "provider error: boom"))

	assert.Equal(t, "Hello world\n[error: provider error: boom]\n", out.String())
	select {
	case <-r.finished:
	default:
		t.Fatal("expected a finished signal")
	}
}
