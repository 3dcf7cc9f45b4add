package ai

import (
	"context"
	"fmt"
	"strings"
)

// Fragment is one item of a narration stream. Exactly one of Text or Err is
// set: a failure mid-stream is delivered as a tagged error fragment, never
// disguised as narration text.
type Fragment struct {
	Text string
	Err  error
}

// apologyMessage replaces the whole narration when the stream cannot start.
const apologyMessage = "Sorry, my crystal ball is cloudy today. I couldn't read your literary soul - please try again."

// Narrate streams a humorous personality sketch derived from the user's past
// queries. The returned channel is finite and non-restartable; it is closed
// after the final fragment.
//
// Callers are responsible for providing at least two queries; this method
// does not enforce the minimum.
//
// Failure semantics split by phase: if the stream never produces content, a
// single apology Text fragment is emitted; an error after content has flowed
// is emitted as a Fragment with Err set.
func (c *Client) Narrate(ctx context.Context, queries []string) <-chan Fragment {
	out := make(chan Fragment)

	go func() {
		defer close(out)

		prompt := buildProfilePrompt(queries)
		started := false

		for text, err := range c.gen.stream(ctx, prompt) {
			if err != nil {
				if !started {
					c.logger.Error("profile narration failed to start", "error", err)
					emit(ctx, out, Fragment{Text: apologyMessage})
				} else {
					c.logger.Error("profile narration failed mid-stream", "error", err)
					emit(ctx, out, Fragment{Err: err})
				}
				return
			}
			started = true
			if !emit(ctx, out, Fragment{Text: text}) {
				return
			}
		}
	}()

	return out
}

// emit sends a fragment unless the context is done first.
func emit(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildProfilePrompt constructs the personality-sketch instruction from the
// user's search history.
func buildProfilePrompt(queries []string) string {
	var b strings.Builder

	b.WriteString(`Below is a reader's book search history, oldest first:
`)
	for _, q := range queries {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	b.WriteString(`
Write a humorous personality sketch of this reader in roughly 150-200 words.
It must include: a guess at their personality, a guess at a hobby they probably have, one quirk, and what their ideal weekend looks like.
Keep the tone witty throughout. Respond with plain prose only, no lists, no JSON.`)

	return b.String()
}
