package zaplogger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := Wrap(zap.New(core))

	base.With(observability.F("request_id", "r-1")).Info("http_access",
		observability.F("status", 201),
		observability.F("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http_access", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.EqualValues(t, 201, fields["status"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_CreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "harmonia.log")
	l, err := New(Options{LogFile: path, Fixed: []observability.Field{observability.F("service", "harmonia")}})
	require.NoError(t, err)
	l.Info("boot")
	_ = l.Sync()
	assert.FileExists(t, path)
}
