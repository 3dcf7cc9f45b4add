package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFragments(t *testing.T, ch <-chan Fragment) []Fragment {
	t.Helper()
	var out []Fragment
	for f := range ch {
		out = append(out, f)
	}
	return out
}

func TestNarrateStreamsText(t *testing.T) {
	gen := &stubGenerator{
		fragments: []string{"You are ", "clearly ", "a space opera person."},
		errAfter:  -1,
	}
	client := newTestClient(gen)

	frags := collectFragments(t, client.Narrate(context.Background(), []string{"dune", "hyperion"}))

	require.Len(t, frags, 3)
	var b strings.Builder
	for _, f := range frags {
		require.NoError(t, f.Err)
		b.WriteString(f.Text)
	}
	assert.Equal(t, "You are clearly a space opera person.", b.String())
}

func TestNarratePromptListsHistory(t *testing.T) {
	gen := &stubGenerator{fragments: []string{"ok"}, errAfter: -1}
	client := newTestClient(gen)

	collectFragments(t, client.Narrate(context.Background(), []string{"cozy mysteries", "greek myths"}))

	assert.Contains(t, gen.lastPrompt, "cozy mysteries")
	assert.Contains(t, gen.lastPrompt, "greek myths")
}

func TestNarrateApologyWhenStreamFailsImmediately(t *testing.T) {
	gen := &stubGenerator{streamErr: errors.New("quota exceeded"), errAfter: 0}
	client := newTestClient(gen)

	frags := collectFragments(t, client.Narrate(context.Background(), []string{"q1", "q2"}))

	require.Len(t, frags, 1)
	require.NoError(t, frags[0].Err)
	assert.Equal(t, apologyMessage, frags[0].Text)
}

func TestNarrateErrorFragmentMidStream(t *testing.T) {
	streamErr := errors.New("connection reset")
	gen := &stubGenerator{
		fragments: []string{"You seem ", "like someone who"},
		streamErr: streamErr,
		errAfter:  2,
	}
	client := newTestClient(gen)

	frags := collectFragments(t, client.Narrate(context.Background(), []string{"q1", "q2"}))

	require.Len(t, frags, 3)
	assert.Equal(t, "You seem ", frags[0].Text)
	assert.Equal(t, "like someone who", frags[1].Text)
	require.Error(t, frags[2].Err)
	assert.ErrorIs(t, frags[2].Err, streamErr)
	assert.Empty(t, frags[2].Text)
}

func TestNarrateStopsOnContextCancel(t *testing.T) {
	gen := &stubGenerator{
		fragments: []string{"a", "b", "c", "d"},
		errAfter:  -1,
	}
	client := newTestClient(gen)

	ctx, cancel := context.WithCancel(context.Background())
	ch := client.Narrate(ctx, []string{"q1"})

	// Read one fragment, then cancel; the channel must close without hanging.
	<-ch
	cancel()
	for range ch {
	}
}
