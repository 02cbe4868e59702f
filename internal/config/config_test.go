package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configEnv lists every variable Load reads so tests start from a clean slate.
var configEnv = []string{
	"ENV", "LOG_LEVEL", "DATA_PATH", "STATE_PATH", "REPOSITORY_ADAPTER_TYPE",
	"DATABASE_PATH", "DATABASE_RESET", "SERVER_PORT", "SERVER_READ_TIMEOUT",
	"SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SESSION_DURATION",
	"SESSION_COOKIE_SECURE", "PASSWORD_HASHER", "BCRYPT_COST",
	"LOGIN_RATE_PER_MINUTE", "LOGIN_BURST", "CORS_ALLOWED_ORIGINS", "MAX_PAGE_SIZE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data: DataConfig{
			Path:       "/data",
			StatePath:  "/state",
			Repository: AdapterMemory,
		},
		Auth: AuthConfig{
			PasswordHasher: HasherBcrypt,
			BcryptCost:     10,
		},
		API: APIConfig{MaxPageSize: 50},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }, "log level"},
		{"bad adapter", func(c *Config) { c.Data.Repository = "redis" }, "repository adapter"},
		{"empty data path", func(c *Config) { c.Data.Path = "" }, "data path"},
		{"bad hasher", func(c *Config) { c.Auth.PasswordHasher = "md5" }, "password hasher"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 3 }, "bcrypt cost"},
		{"bcrypt cost too high", func(c *Config) { c.Auth.BcryptCost = 32 }, "bcrypt cost"},
		{"zero page size", func(c *Config) { c.API.MaxPageSize = 0 }, "page size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, AdapterMemory, cfg.Data.Repository)
	assert.True(t, filepath.IsAbs(cfg.Data.Path))
	assert.Equal(t, filepath.Join(homeDir, "GameWebApp"), cfg.Data.StatePath)
	assert.Equal(t, filepath.Join(homeDir, "GameWebApp", "games.db"), cfg.Database.Path)
	assert.False(t, cfg.Database.Reset)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionDuration)
	assert.False(t, cfg.Auth.SecureCookies)
	assert.Equal(t, HasherBcrypt, cfg.Auth.PasswordHasher)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 20, cfg.Auth.LoginRatePerMinute)
	assert.Equal(t, 10, cfg.Auth.LoginBurst)
	assert.Equal(t, []string{"*"}, cfg.API.CORSAllowedOrigins)
	assert.Equal(t, 50, cfg.API.MaxPageSize)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	state := t.TempDir()
	t.Setenv("REPOSITORY_ADAPTER_TYPE", "memory")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load([]string{
		"-env-file", filepath.Join(state, "missing.env"),
		"-repository", "DATABASE",
		"-state-path", state,
		"-database-reset", "true",
		"-session-duration", "2h",
	})
	require.NoError(t, err)

	assert.Equal(t, AdapterDatabase, cfg.Data.Repository)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, filepath.Join(state, "games.db"), cfg.Database.Path)
	assert.True(t, cfg.Database.Reset)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.CORSAllowedOrigins)
}

func TestLoad_ProductionSecureCookies(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.True(t, cfg.Auth.SecureCookies)

	t.Setenv("SESSION_COOKIE_SECURE", "false")
	cfg, err = Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.False(t, cfg.Auth.SecureCookies)
}

func TestLoad_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad duration", []string{"-read-timeout", "soon"}, nil},
		{"unknown flag", []string{"-no-such-flag"}, nil},
		{"bad hasher", nil, map[string]string{"PASSWORD_HASHER": "scrypt"}},
		{"bad adapter", []string{"-repository", "postgres"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(append([]string{"-env-file", missing}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestExpandPath_TildeExpansion(t *testing.T) {
	got, err := expandPath("~/my-data", "")
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "my-data"), got)
}

func TestExpandPath_RelativePath(t *testing.T) {
	got, err := expandPath("relative/path", "")
	require.NoError(t, err)

	// Should be converted to absolute path.
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, "relative/path")
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	got, err := expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	// Create temp .env file.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
DATA_PATH=/test/path
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Clear any existing env vars.
	os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
	os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
	os.Unsetenv("DATA_PATH") //nolint:errcheck // Test cleanup
	os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
	os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	defer func() {
		os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
		os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
		os.Unsetenv("DATA_PATH") //nolint:errcheck // Test cleanup
		os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
		os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	}()

	// Load the file.
	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Verify values were loaded.
	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("DATA_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	// Create temp .env file with invalid format.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Should return error.
	err = loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	// Set env var first.
	os.Setenv("TEST_VAR", "original-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_VAR")           //nolint:errcheck // Test cleanup

	// Create temp .env file that tries to override it.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `TEST_VAR=new-value`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Load the file.
	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_EmptyLines(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `
KEY1=value1


KEY2=value2

# Comment

KEY3=value3
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	os.Unsetenv("KEY1") //nolint:errcheck // Test cleanup
	os.Unsetenv("KEY2") //nolint:errcheck // Test cleanup
	os.Unsetenv("KEY3") //nolint:errcheck // Test cleanup
	defer func() {
		os.Unsetenv("KEY1") //nolint:errcheck // Test cleanup
		os.Unsetenv("KEY2") //nolint:errcheck // Test cleanup
		os.Unsetenv("KEY3") //nolint:errcheck // Test cleanup
	}()

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "value1", os.Getenv("KEY1"))
	assert.Equal(t, "value2", os.Getenv("KEY2"))
	assert.Equal(t, "value3", os.Getenv("KEY3"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `  KEY_WITH_SPACES  =  value with spaces  `
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	os.Unsetenv("KEY_WITH_SPACES")       //nolint:errcheck // Test cleanup
	defer os.Unsetenv("KEY_WITH_SPACES") //nolint:errcheck // Test cleanup

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Whitespace should be trimmed.
	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
