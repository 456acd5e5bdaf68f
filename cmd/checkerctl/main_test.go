package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"migrate", "seed", "sweep", "token"})
}

func TestCommands_AgainstSQLite(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", filepath.Join(t.TempDir(), "checker.db"))

	assert.Equal(t, "migrated\n", run(t, "migrate"))

	var summary services.SeedSummary
	require.NoError(t, json.Unmarshal([]byte(run(t, "seed")), &summary))
	assert.Equal(t, 5, summary.Symptoms)
	assert.Equal(t, 3, summary.Conditions)

	assert.Equal(t, "removed 0 expired sessions\n", run(t, "sweep"))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "cli-secret")

	token := strings.TrimSpace(run(t, "token", "--subject", "ops-7", "--role", "admin"))

	claims, err := utils.ValidateToken(token, "cli-secret")
	require.NoError(t, err)
	assert.Equal(t, "ops-7", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
