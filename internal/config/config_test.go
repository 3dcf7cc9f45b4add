package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Port:         "8000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database:  DatabaseConfig{Path: "/tmp/shelfwise.db"},
		AI:        AIConfig{APIKey: "test-key", Model: "gemini-2.0-flash", Temperature: 1.2},
		Catalog:   CatalogConfig{OpenLibraryURL: "https://openlibrary.org"},
		Discovery: DiscoveryConfig{NewSearchCount: 12, MoreBooksCount: 8},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	for _, env := range []string{"development", "staging", "production"} {
		cfg := validConfig()
		cfg.App.Environment = env
		assert.NoError(t, cfg.Validate(), "environment %q", env)
	}

	cfg := validConfig()
	cfg.App.Environment = "testing"
	assert.Error(t, cfg.Validate())
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), "level %q", level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.AI.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestValidate_BatchSizes(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.NewSearchCount = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Discovery.MoreBooksCount = -1
	assert.Error(t, cfg.Validate())
}

func TestExpandDatabasePath_EmptyUsesDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""

	require.NoError(t, cfg.expandDatabasePath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "Shelfwise", "shelfwise.db"), cfg.Database.Path)
}

func TestExpandDatabasePath_TildeExpansion(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = "~/data/books.db"

	require.NoError(t, cfg.expandDatabasePath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "data", "books.db"), cfg.Database.Path)
}

func TestExpandDatabasePath_AbsoluteUnchanged(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = "/var/lib/shelfwise/books.db"

	require.NoError(t, cfg.expandDatabasePath())
	assert.Equal(t, "/var/lib/shelfwise/books.db", cfg.Database.Path)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SHELFWISE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHELFWISE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SHELFWISE_TEST_KEY", "default"))

	os.Unsetenv("SHELFWISE_TEST_KEY")
	assert.Equal(t, "default", getConfigValue("", "SHELFWISE_TEST_KEY", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("SHELFWISE_TEST_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "SHELFWISE_TEST_INT", 8))

	t.Setenv("SHELFWISE_TEST_INT", "not a number")
	assert.Equal(t, 8, getIntConfigValue("", "SHELFWISE_TEST_INT", 8))
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("SHELFWISE_TEST_FLOAT", "0.7")
	assert.InDelta(t, 0.7, getFloatConfigValue("", "SHELFWISE_TEST_FLOAT", 1.2), 1e-9)

	t.Setenv("SHELFWISE_TEST_FLOAT", "hot")
	assert.InDelta(t, 1.2, getFloatConfigValue("", "SHELFWISE_TEST_FLOAT", 1.2), 1e-9)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# Shelfwise config
GEMINI_MODEL=gemini-2.0-flash

SERVER_PORT="9000"
LOG_LEVEL='debug'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("GEMINI_MODEL", "")
	os.Unsetenv("GEMINI_MODEL")
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "gemini-2.0-flash", os.Getenv("GEMINI_MODEL"))
	assert.Equal(t, "9000", os.Getenv("SERVER_PORT"), "quotes stripped")
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"), "single quotes stripped")
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JUST_A_KEY_NO_EQUALS\n"), 0600))

	assert.Error(t, loadEnvFile(path))
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHELFWISE_TEST_PRESET=from-file\n"), 0600))

	t.Setenv("SHELFWISE_TEST_PRESET", "from-env")
	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "from-env", os.Getenv("SHELFWISE_TEST_PRESET"))
}
