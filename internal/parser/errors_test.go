package parser_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marithon/internal/parser"
)

func TestNewRateLimitError_DefaultsRetryAfter(t *testing.T) {
	err := parser.NewRateLimitError("claude", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "claude rate limited")
}

func TestRateLimitError_Unwrap(t *testing.T) {
	base := errors.New("too many requests")
	err := parser.NewRateLimitError("openai", base, 10)
	assert.ErrorIs(t, err, base)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 45, parser.ParseRetryAfterHeader("45"))
}
