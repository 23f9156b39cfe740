package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanpawarit/Chative-Search-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Chative-Search-Assistant/agent/contract"
	convx "github.com/tanpawarit/Chative-Search-Assistant/agent/conversation"
)

func TestInputReadsLinesAndCommands(t *testing.T) {
	session := convx.NewSession("hi")
	var out bytes.Buffer
	prompts := 0
	in := NewInput(strings.NewReader("first\n/key\nsecond\n/quit\nnever\n"), &out, session, func(string) (string, error) {
		prompts++
		return "gsk_typed", nil
	})

	ctx := context.Background()
	got, err := in.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = in.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, prompts)
	assert.Equal(t, "gsk_typed", session.Credential().Reveal())

	_, err = in.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.NotContains(t, out.String(), "gsk_typed")
}

func TestInputEOF(t *testing.T) {
	in := NewInput(strings.NewReader(""), io.Discard, convx.NewSession("hi"), nil)
	_, err := in.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestKeyCommandWithoutTerminal(t *testing.T) {
	session := convx.NewSession("hi")
	var out bytes.Buffer
	in := NewInput(strings.NewReader("/key\nq\n"), &out, session, nil)

	got, err := in.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "q", got)
	assert.True(t, session.Credential().Empty())
	assert.Contains(t, out.String(), "GROQ_API_KEY")
}

func TestViewOutput(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out)

	v.ShowTurn(convx.UserTurn("hidden question"))
	release := v.Busy(chat.BusyLabel)
	release()
	v.ShowTurn(convx.AssistantTurn("the answer"))
	v.ShowToolUsage([]contractx.ToolInvocation{{Tool: "wikipedia"}, {Tool: "arxiv", Error: "boom"}})
	v.Warn(chat.MissingCredentialWarning)
	v.Fail(errors.New("network down"))

	s := out.String()
	assert.NotContains(t, s, "hidden question")
	assert.Contains(t, s, chat.BusyLabel)
	assert.Contains(t, s, "the answer")
	assert.Contains(t, s, "tools used: wikipedia, arxiv (failed)")
	assert.Contains(t, s, chat.MissingCredentialWarning)
	assert.Contains(t, s, "Error: network down")

	out.Reset()
	v.EchoUser = true
	v.ShowTurn(convx.UserTurn("visible question"))
	assert.Contains(t, out.String(), "visible question")
}
