package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "timed out" }

func TestNewError_Defaults(t *testing.T) {
	err := domain.NewError("boom")
	assert.Equal(t, domain.DefaultErrorCode, err.Code)
	assert.Equal(t, "internal-error: boom", err.Error())

	err = domain.NewError("nope", domain.WithCode("forbidden"), domain.WithDetail("x"))
	assert.Equal(t, "forbidden", err.Code)
	assert.Equal(t, "x", err.Detail)
}

func TestFromThrown(t *testing.T) {
	typed := domain.NewError("typed", domain.WithCode("conflict"))
	assert.Same(t, typed, domain.FromThrown(typed))

	wrapped := fmt.Errorf("outer: %w", typed)
	assert.Same(t, typed, domain.FromThrown(wrapped))

	generic := domain.FromThrown(timeoutError{})
	assert.Equal(t, "internal-error", generic.Code)
	assert.Equal(t, "timed out", generic.Message)
	assert.Equal(t, "domain_test.timeoutError", generic.Contextual["name"])
	assert.True(t, errors.Is(generic, timeoutError{}))

	str := domain.FromThrown("just a string")
	assert.Equal(t, "just a string", str.Message)
	assert.Equal(t, "internal-error", str.Code)

	other := domain.FromThrown(42)
	assert.Equal(t, "42", other.Message)
}

func TestRecode(t *testing.T) {
	orig := domain.NewError("invalid", domain.WithCode("unprocessable-entity"))
	recoded := orig.Recode("bad-request")
	assert.Equal(t, "bad-request", recoded.Code)
	assert.Equal(t, "invalid", recoded.Message)
	assert.ErrorIs(t, recoded, orig)
	assert.Equal(t, "unprocessable-entity", orig.Code)
}

func TestHodrError_MarshalJSON(t *testing.T) {
	err := domain.NewError("Expectation failed!",
		domain.WithCode("forbidden"),
		domain.WithContextual(map[string]any{"http": map[string]any{"statusCode": 403}}),
		domain.WithCause(errors.New("root")),
	)
	b, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "forbidden", out["code"])
	assert.Equal(t, "Expectation failed!", out["message"])
	assert.Equal(t, "root", out["cause"])
}
