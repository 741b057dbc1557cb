package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithFormat(&buf, slog.LevelInfo, logging.FormatJSON)

	logger.Info("step failed", "error", errors.New("boom"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), `"err":"boom"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = logging.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = logging.ParseLevel("verbose")
	assert.Error(t, err)
}
