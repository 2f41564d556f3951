package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEnvService_Getters(t *testing.T) {
	e := NewMapEnvService(map[string]string{
		"DB_DIALECT":           "postgres",
		"AGENT_MAX_ITERATIONS": "7",
		"BAD_INT":              "seven",
		"LOG_JSON":             "true",
		"DB_CACHE_TTL":         "30m",
		"BAD_DURATION":         "soon",
	})

	assert.Equal(t, "postgres", e.Get("DB_DIALECT"))
	assert.Equal(t, "", e.Get("MISSING"))
	assert.Equal(t, "mysql", e.GetWithDefault("MISSING", "mysql"))
	assert.Equal(t, "postgres", e.GetWithDefault("DB_DIALECT", "mysql"))

	assert.Equal(t, 7, e.GetInt("AGENT_MAX_ITERATIONS", 15))
	assert.Equal(t, 15, e.GetInt("BAD_INT", 15))
	assert.Equal(t, 15, e.GetInt("MISSING", 15))

	assert.True(t, e.GetBool("LOG_JSON", false))
	assert.False(t, e.GetBool("MISSING", false))

	assert.Equal(t, 30*time.Minute, e.GetDuration("DB_CACHE_TTL", 2*time.Hour))
	assert.Equal(t, 2*time.Hour, e.GetDuration("BAD_DURATION", 2*time.Hour))
}

func TestNewEnvService_LoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CHATSQL_TEST_MODEL=gpt-4o\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("CHATSQL_TEST_MODEL=gpt-4o-mini\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("CHATSQL_TEST_MODEL")
	})
	t.Setenv("APP_ENV", "test")

	e := NewEnvService()
	assert.Equal(t, "gpt-4o-mini", e.Get("CHATSQL_TEST_MODEL"))
}
