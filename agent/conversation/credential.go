package conversation

import (
	"strings"

	"github.com/rs/zerolog"
)

const redacted = "[redacted]"

// Credential is the provider API key for one session. Every formatting path
// is redacted; call Reveal to hand the raw value to a provider client.
type Credential string

func (c Credential) Reveal() string {
	return strings.TrimSpace(string(c))
}

func (c Credential) Empty() bool {
	return c.Reveal() == ""
}

func (c Credential) String() string {
	if c.Empty() {
		return ""
	}
	return redacted
}

func (c Credential) GoString() string {
	return c.String()
}

func (c Credential) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Credential) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("present", !c.Empty())
}
