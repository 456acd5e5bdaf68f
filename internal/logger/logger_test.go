package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core)), logs
}

func TestLogger_RedactsSecrets(t *testing.T) {
	l, logs := observed()

	l.Info("login", "token", "abc", "Authorization", "Bearer x", "db_password", "pw", "count", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["token"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
	assert.Equal(t, "[REDACTED]", fields["db_password"])
	assert.EqualValues(t, 3, fields["count"])
}

func TestLogger_HashesIdentifiers(t *testing.T) {
	l, logs := observed()

	l.Warn("request", "session_id", "3f1c", "client", "192.0.2.1")
	l.Warn("request", "session_id", "3f1c", "client", "")

	entries := logs.All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	second := entries[1].ContextMap()

	hashed, ok := first["session_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
	assert.NotContains(t, hashed, "3f1c")
	assert.Equal(t, hashed, second["session_id"], "hashes are stable")
	assert.Equal(t, "", second["client"])
}

func TestLogger_WithCarriesSanitizedFields(t *testing.T) {
	l, logs := observed()

	l.With("service", "Matcher", "secret", "s3").Debug("scored")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Matcher", fields["service"])
	assert.Equal(t, "[REDACTED]", fields["secret"])
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"test", "production", "development", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}
