// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Repository adapters selectable with REPOSITORY_ADAPTER_TYPE.
const (
	AdapterMemory   = "memory"
	AdapterDatabase = "database"
)

// Password hashers selectable with PASSWORD_HASHER.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	API      APIConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// IsProduction reports whether the app runs in the production environment.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds the catalog data source and the repository choice.
type DataConfig struct {
	Path       string // Directory holding games.csv, users.csv, reviews.csv, wishlist.csv
	StatePath  string // Directory for the database file and session key
	Repository string // memory or database
}

// DatabaseConfig holds SQLite configuration. Only used by the database adapter.
type DatabaseConfig struct {
	Path  string // default: {state}/games.db
	Reset bool   // Empty the tables and repopulate from CSV on start
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for session cookies (32 bytes)
	SessionKey      []byte
	SessionDuration time.Duration
	SecureCookies   bool

	PasswordHasher string
	BcryptCost     int

	LoginRatePerMinute int
	LoginBurst         int
}

// APIConfig holds settings for the listing endpoints and the JSON API.
type APIConfig struct {
	CORSAllowedOrigins []string
	MaxPageSize        int
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gamewebapp", flag.ContinueOnError)

	// Define command-line flags.
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory holding the catalog CSV files")
	statePath := fs.String("state-path", "", "Directory for the database and session key")
	repository := fs.String("repository", "", "Repository adapter (memory, database)")

	// Database flags
	databasePath := fs.String("database-path", "", "SQLite database file (default: {state}/games.db)")
	databaseReset := fs.String("database-reset", "", "Repopulate the database from CSV on start")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	sessionDuration := fs.String("session-duration", "", "Session lifetime (default: 24h)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Path:       getConfigValue(*dataPath, "DATA_PATH", "./data"),
			StatePath:  getConfigValue(*statePath, "STATE_PATH", ""),
			Repository: strings.ToLower(getConfigValue(*repository, "REPOSITORY_ADAPTER_TYPE", AdapterMemory)),
		},
		Database: DatabaseConfig{
			Path:  getConfigValue(*databasePath, "DATABASE_PATH", ""),
			Reset: getBoolConfigValue(*databaseReset, "DATABASE_RESET", false),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Auth: AuthConfig{
			SessionKey:         nil, // Will be set by auth.LoadOrGenerateKey in main
			PasswordHasher:     strings.ToLower(getConfigValue("", "PASSWORD_HASHER", HasherBcrypt)),
			BcryptCost:         getIntConfigValue("", "BCRYPT_COST", 10),
			LoginRatePerMinute: getIntConfigValue("", "LOGIN_RATE_PER_MINUTE", 20),
			LoginBurst:         getIntConfigValue("", "LOGIN_BURST", 10),
		},
		API: APIConfig{
			CORSAllowedOrigins: splitList(getConfigValue("", "CORS_ALLOWED_ORIGINS", "*")),
			MaxPageSize:        getIntConfigValue("", "MAX_PAGE_SIZE", 50),
		},
	}
	cfg.Auth.SecureCookies = getBoolConfigValue("", "SESSION_COOKIE_SECURE", cfg.App.IsProduction())

	var err error

	// Parse session duration.
	if cfg.Auth.SessionDuration, err = parseDuration(*sessionDuration, "SESSION_DURATION", "24h"); err != nil {
		return nil, fmt.Errorf("invalid session duration: %w", err)
	}

	// Parse server timeouts.
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Data.Repository {
	case AdapterMemory, AdapterDatabase:
	default:
		return fmt.Errorf("invalid repository adapter: %s (must be %s or %s)", c.Data.Repository, AdapterMemory, AdapterDatabase)
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty")
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("invalid password hasher: %s (must be %s or %s)", c.Auth.PasswordHasher, HasherBcrypt, HasherArgon2id)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid bcrypt cost: %d (must be between 4 and 31)", c.Auth.BcryptCost)
	}

	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("invalid max page size: %d (must be at least 1)", c.API.MaxPageSize)
	}

	// Session key is set by auth.LoadOrGenerateKey in main.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandPaths resolves the data, state and database paths.
// The state path defaults to ~/GameWebApp and the database lives inside it.
func (c *Config) expandPaths() error {
	dataPath, err := expandPath(c.Data.Path, "")
	if err != nil {
		return fmt.Errorf("invalid data path: %w", err)
	}
	c.Data.Path = dataPath

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	statePath, err := expandPath(c.Data.StatePath, filepath.Join(homeDir, "GameWebApp"))
	if err != nil {
		return fmt.Errorf("invalid state path: %w", err)
	}
	c.Data.StatePath = statePath

	dbPath, err := expandPath(c.Database.Path, filepath.Join(statePath, "games.db"))
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	c.Database.Path = dbPath
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
