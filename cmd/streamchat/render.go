package main

import (
	"fmt"
	"io"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/providers/ai"
)

// renderer prints the growing assistant reply from session snapshots. Only
// the new suffix of the reply is written each time, so coalesced snapshots
// still produce the full text.
type renderer struct {
	out       io.Writer
	replyID   string
	printed   int
	finalized bool
	finished  chan struct{}
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out, finished: make(chan struct{}, 1)}
}

// run renders every snapshot until updates is closed.
func (r *renderer) run(updates <-chan session.State) {
	for state := range updates {
		r.render(state)
	}
}

func (r *renderer) render(state session.State) {
	last, ok := state.Last()
	if !ok || last.Role != ai.RoleAssistant {
		return
	}

	if last.ID != r.replyID {
		r.replyID = last.ID
		r.printed = 0
		r.finalized = false
	}
	if r.finalized {
		return
	}

	if len(last.Content) > r.printed {
		fmt.Fprint(r.out, last.Content[r.printed:])
		r.printed = len(last.Content)
	}

	if !state.IsGenerating {
		fmt.Fprintln(r.out)
		if state.LastError != "" {
			fmt.Fprintf(r.out, "[error: %s]\n", state.LastError)
		}
		r.finalized = true
		select {
		case r.finished <- struct{}{}:
		default:
		}
	}
}
