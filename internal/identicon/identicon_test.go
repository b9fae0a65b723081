package identicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataURIDeterministic(t *testing.T) {
	a := DataURI("alice@example.com")
	b := DataURI("alice@example.com")
	assert.Equal(t, a, b, "same email must always yield the same avatar")
}

func TestDataURIVariesByInput(t *testing.T) {
	a := DataURI("alice@example.com")
	b := DataURI("bob@example.com")
	assert.NotEqual(t, a, b)
}

func TestDataURIFormat(t *testing.T) {
	uri := DataURI("alice@example.com")
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Greater(t, len(uri), len("data:image/png;base64,"))
}
