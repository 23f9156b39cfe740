package chat

import (
	"context"
	"io"
)

// ChannelInput feeds submissions from a channel; closing it ends the loop.
type ChannelInput struct {
	ch <-chan string
}

func NewChannelInput(ch <-chan string) ChannelInput {
	return ChannelInput{ch: ch}
}

func (c ChannelInput) Next(ctx context.Context) (string, error) {
	select {
	case text, ok := <-c.ch:
		if !ok {
			return "", io.EOF
		}
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
