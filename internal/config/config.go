// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/logger"
)

// Config holds the application configuration.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Server     ServerConfig
	Storage    StorageConfig
	Categories CategoriesConfig
	CDN        CDNConfig
	Auth       AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	DataDir     string // Local state: file catalog, badger/sqlite data, session key
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json or pretty; empty picks by environment
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port            string        // Server port (default: 8080)
	ReadTimeout     time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout    time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout     time.Duration // HTTP idle timeout (default: 60s)
	ShutdownTimeout time.Duration // Graceful shutdown budget (default: 20s)
	AllowedOrigins  []string      // CORS origins (default: *)
}

// StorageConfig selects and configures the catalog document backend.
type StorageConfig struct {
	Backend    string // file, badger, sqlite or s3
	FilePath   string
	BadgerDir  string
	SQLitePath string
	S3         S3Config
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string // Optional, for MinIO/R2 and friends
	Region    string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
}

// CategoriesConfig selects where the closed category set comes from.
type CategoriesConfig struct {
	Source string   // static or file
	Files  []string // Candidate paths, first existing wins
	Watch  bool     // Reload on file changes
}

// CDNConfig holds image CDN settings.
type CDNConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string // Optional override of the upload base URL
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	AdminUsername string
	// AdminPassword is plain text or an argon2id hash from `catalogctl hash-password`.
	AdminPassword string
	// SessionKey is a hex-encoded 32-byte PASETO key. Empty means {data}/session.key.
	SessionKey     string
	SessionTTL     time.Duration
	LoginRateLimit int // Attempts per minute per client IP
	LoginBurst     int
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Category sources.
const (
	CategoriesStatic = "static"
	CategoriesFile   = "file"
)

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("camiseteria", flag.ContinueOnError)

	flagNames := []string{
		"env", "data-dir", "log-level", "log-format",
		"port", "read-timeout", "write-timeout", "idle-timeout", "shutdown-timeout", "cors-origins",
		"storage", "catalog-file", "badger-dir", "sqlite-path",
		"s3-endpoint", "s3-region", "s3-bucket", "s3-key",
		"categories-source", "categories-files", "categories-watch",
		"cdn-cloud-name", "cdn-base-url",
		"admin-username", "session-ttl", "login-rate-limit", "login-burst",
	}
	values := make(map[string]*string, len(flagNames))
	for _, name := range flagNames {
		values[name] = fs.String(name, "", "")
	}
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is fine.
	dotenv, err := godotenv.Read(*envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read env file %s: %w", *envFile, err)
	}

	l := &loader{flags: make(map[string]string), dotenv: dotenv}
	fs.Visit(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok {
			l.flags[f.Name] = *v
		}
	})

	cfg := &Config{
		App: AppConfig{
			Environment: l.str("env", "ENV", "development"),
			DataDir:     l.str("data-dir", "DATA_DIR", ""),
		},
		Logger: LoggerConfig{
			Level:  l.str("log-level", "LOG_LEVEL", "info"),
			Format: l.str("log-format", "LOG_FORMAT", ""),
		},
		Server: ServerConfig{
			Port:           l.str("port", "SERVER_PORT", "8080"),
			AllowedOrigins: l.list("cors-origins", "CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			Backend:    l.str("storage", "STORAGE_BACKEND", BackendFile),
			FilePath:   l.str("catalog-file", "CATALOG_FILE", ""),
			BadgerDir:  l.str("badger-dir", "BADGER_DIR", ""),
			SQLitePath: l.str("sqlite-path", "SQLITE_PATH", ""),
			S3: S3Config{
				Endpoint:  l.str("s3-endpoint", "S3_ENDPOINT", ""),
				Region:    l.str("s3-region", "S3_REGION", "us-east-1"),
				Bucket:    l.str("s3-bucket", "S3_BUCKET", ""),
				Key:       l.str("s3-key", "S3_KEY", "catalog/products.json"),
				AccessKey: l.str("", "S3_ACCESS_KEY_ID", ""),
				SecretKey: l.str("", "S3_SECRET_ACCESS_KEY", ""),
			},
		},
		Categories: CategoriesConfig{
			Source: l.str("categories-source", "CATEGORIES_SOURCE", CategoriesStatic),
			Files:  l.list("categories-files", "CATEGORIES_FILES", nil),
			Watch:  l.boolean("categories-watch", "CATEGORIES_WATCH", true),
		},
		CDN: CDNConfig{
			CloudName: l.str("cdn-cloud-name", "CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    l.str("", "CLOUDINARY_API_KEY", ""),
			APISecret: l.str("", "CLOUDINARY_API_SECRET", ""),
			BaseURL:   l.str("cdn-base-url", "CDN_BASE_URL", ""),
		},
		Auth: AuthConfig{
			AdminUsername: l.str("admin-username", "ADMIN_USERNAME", "admin"),
			AdminPassword: l.str("", "ADMIN_PASSWORD", ""),
			SessionKey:    l.str("", "SESSION_KEY", ""),
		},
	}

	durations := []struct {
		flag, env, def string
		dst            *time.Duration
	}{
		{"read-timeout", "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{"write-timeout", "SERVER_WRITE_TIMEOUT", "30s", &cfg.Server.WriteTimeout},
		{"idle-timeout", "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"shutdown-timeout", "SERVER_SHUTDOWN_TIMEOUT", "20s", &cfg.Server.ShutdownTimeout},
		{"session-ttl", "SESSION_TTL", "12h", &cfg.Auth.SessionTTL},
	}
	for _, d := range durations {
		if *d.dst, err = l.duration(d.flag, d.env, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.Auth.LoginRateLimit, err = l.integer("login-rate-limit", "LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginBurst, err = l.integer("login-burst", "LOGIN_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	if !logger.ValidLevel(c.Logger.Level) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if f := c.Logger.Format; f != "" && f != "json" && f != "pretty" {
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", f)
	}

	switch c.Storage.Backend {
	case BackendFile, BackendBadger, BackendSQLite:
		if c.App.DataDir == "" {
			return errors.New("data directory cannot be empty after expansion")
		}
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file, badger, sqlite, or s3)", c.Storage.Backend)
	}

	switch c.Categories.Source {
	case CategoriesStatic:
	case CategoriesFile:
		if len(c.Categories.Files) == 0 {
			return errors.New("CATEGORIES_FILES is required for the file category source")
		}
	default:
		return fmt.Errorf("invalid categories source: %s (must be static or file)", c.Categories.Source)
	}

	if c.CDN.CloudName == "" && c.CDN.BaseURL == "" {
		return errors.New("CLOUDINARY_CLOUD_NAME or CDN_BASE_URL is required")
	}

	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if c.Auth.SessionKey != "" {
		if _, err := auth.ParseKey(c.Auth.SessionKey); err != nil {
			return fmt.Errorf("invalid SESSION_KEY: %w", err)
		}
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Auth.LoginRateLimit <= 0 || c.Auth.LoginBurst <= 0 {
		return errors.New("login rate limit and burst must be positive")
	}

	for name, d := range map[string]time.Duration{
		"read":     c.Server.ReadTimeout,
		"write":    c.Server.WriteTimeout,
		"idle":     c.Server.IdleTimeout,
		"shutdown": c.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("server %s timeout must be positive", name)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPaths expands ~, makes paths absolute and fills data-dir defaults.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if c.App.DataDir, err = expandPath(c.App.DataDir, filepath.Join(homeDir, "Camiseteria", "data")); err != nil {
		return err
	}

	dataDir := c.App.DataDir
	paths := []struct {
		dst *string
		def string
	}{
		{&c.Storage.FilePath, filepath.Join(dataDir, "products.json")},
		{&c.Storage.BadgerDir, filepath.Join(dataDir, "badger")},
		{&c.Storage.SQLitePath, filepath.Join(dataDir, "catalog.db")},
	}
	for _, p := range paths {
		if *p.dst, err = expandPath(*p.dst, p.def); err != nil {
			return err
		}
	}

	for i, f := range c.Categories.Files {
		if c.Categories.Files[i], err = expandPath(f, ""); err != nil {
			return err
		}
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// loader resolves one setting from flag, environment, .env file or default.
type loader struct {
	flags  map[string]string // Only flags set on the command line
	dotenv map[string]string
}

func (l *loader) str(flagName, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if v, ok := l.flags[flagName]; ok && flagName != "" && v != "" {
		return v
	}

	// Priority 2: Environment variable.
	if v := os.Getenv(envKey); v != "" {
		return v
	}

	// Priority 3: .env file.
	if v := l.dotenv[envKey]; v != "" {
		return v
	}

	return defaultValue
}

// boolean accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func (l *loader) boolean(flagName, envKey string, defaultValue bool) bool {
	v := l.str(flagName, envKey, "")
	if v == "" {
		return defaultValue
	}
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

func (l *loader) integer(flagName, envKey string, defaultValue int) (int, error) {
	v := l.str(flagName, envKey, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return n, nil
}

func (l *loader) duration(flagName, envKey, defaultValue string) (time.Duration, error) {
	v := l.str(flagName, envKey, defaultValue)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return d, nil
}

// list splits a comma-separated value, dropping empty entries.
func (l *loader) list(flagName, envKey string, defaultValue []string) []string {
	v := l.str(flagName, envKey, "")
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
