package tweet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare id", "1234567890", "1234567890"},
		{"x.com status", "https://x.com/user/status/1234567890", "1234567890"},
		{"twitter.com status", "https://twitter.com/user/status/987654321", "987654321"},
		{"mobile subdomain", "https://mobile.twitter.com/user/status/42", "42"},
		{"statuses path", "https://twitter.com/user/statuses/111222333", "111222333"},
		{"tweets path", "https://x.com/user/tweets/555", "555"},
		{"query string suffix", "https://x.com/user/status/777?s=20&t=abc", "777"},
		{"not a tweet", "not a tweet", "not a tweet"},
		{"unrelated url", "https://example.com/status/123", "https://example.com/status/123"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.input))
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	inputs := []string{
		"1234567890",
		"https://x.com/user/status/1234567890",
		"not a tweet",
		"",
	}
	for _, in := range inputs {
		once := Extract(in)
		assert.Equal(t, once, Extract(once), "Extract not idempotent for %q", in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("123"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("not a tweet"))
	assert.False(t, Valid("12a3"))
}
