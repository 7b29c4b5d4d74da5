package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Store     StoreConfig     `yaml:"store"`
	Media     MediaConfig     `yaml:"media"`
	JWT       JWTConfig       `yaml:"jwt"`
	Admin     AdminConfig     `yaml:"admin"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Env             string        `yaml:"env"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadSize   int64         `yaml:"max_upload_size"`
}

// DatabaseConfig document store connection
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql | postgres | sqlite
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	Path            string        `yaml:"path"` // sqlite file
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig Redis 설정. Empty host disables Redis.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StoreConfig content store client policy
type StoreConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig bounded exponential backoff for create/delete
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// MediaConfig upload gateway
type MediaConfig struct {
	Provider   string           `yaml:"provider"` // cloudinary | s3
	Timeout    time.Duration    `yaml:"timeout"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	S3         S3Config         `yaml:"s3"`
}

// CloudinaryConfig unsigned upload target
type CloudinaryConfig struct {
	APIURL       string `yaml:"api_url"`
	CloudName    string `yaml:"cloud_name"`
	UploadPreset string `yaml:"upload_preset"`
}

// S3Config S3-compatible object storage
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// JWTConfig admin token settings
type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiresIn time.Duration `yaml:"expires_in"`
}

// AdminConfig accounts allowed into the authoring surface
type AdminConfig struct {
	Accounts []AdminAccount `yaml:"accounts"`
}

// AdminAccount one admin login. PasswordHash is a bcrypt hash.
type AdminAccount struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
}

// CORSConfig allowed origins, comma separated
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig requests per minute; 0 disables the limiter.
// Enforced only when Redis is configured.
type RateLimitConfig struct {
	LoginPerMinute int `yaml:"login_per_minute"`
	AdminPerMinute int `yaml:"admin_per_minute"`
}

// Default returns the configuration used when a key is absent from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8082,
			Env:             "local",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadSize:   20 << 20,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "127.0.0.1",
			Port:            3306,
			DBName:          "rise",
			Path:            "rise.db",
			MaxIdleConns:    5,
			MaxOpenConns:    20,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{Port: 6379, PoolSize: 10},
		Store: StoreConfig{
			WriteTimeout: 5 * time.Second,
			QueryTimeout: 5 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   100 * time.Millisecond,
				MaxDelay:    2 * time.Second,
			},
		},
		Media: MediaConfig{
			Provider: "cloudinary",
			Timeout:  30 * time.Second,
			Cloudinary: CloudinaryConfig{
				APIURL: "https://api.cloudinary.com/v1_1",
			},
		},
		JWT:       JWTConfig{ExpiresIn: 12 * time.Hour},
		CORS:      CORSConfig{AllowOrigins: "http://localhost:5173"},
		RateLimit: RateLimitConfig{LoginPerMinute: 10, AdminPerMinute: 120},
	}
}

// Load reads a YAML file over the defaults, expands ${VAR} references and
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		pkglogger.Warn("config file %s not found, using defaults and environment", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 환경변수 우선 적용 (secrets are never required in the YAML file)
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.Path, "DB_PATH")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Media.Provider, "MEDIA_PROVIDER")
	setString(&cfg.Media.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Media.Cloudinary.UploadPreset, "CLOUDINARY_UPLOAD_PRESET")
	setString(&cfg.Media.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Media.S3.Bucket, "S3_BUCKET")
	setString(&cfg.Media.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Media.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported database.driver %q", c.Database.Driver))
	}

	switch c.Media.Provider {
	case "cloudinary":
		if c.Media.Cloudinary.CloudName == "" || c.Media.Cloudinary.UploadPreset == "" {
			problems = append(problems, "media.cloudinary.cloud_name and upload_preset are required")
		}
	case "s3":
		if c.Media.S3.Bucket == "" {
			problems = append(problems, "media.s3.bucket is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported media.provider %q", c.Media.Provider))
	}

	if c.Store.Retry.MaxAttempts < 1 {
		problems = append(problems, "store.retry.max_attempts must be >= 1")
	}
	if !c.IsDevelopment() && len(c.JWT.Secret) < 32 {
		problems = append(problems, "jwt.secret must be at least 32 characters outside development")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsDevelopment local/dev 환경 여부
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development", "test":
		return true
	}
	return false
}

// RedisEnabled reports whether a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// GetDSN returns the driver-specific connection string
func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.DBName)
	case "sqlite":
		return d.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	}
}

// LogResolved prints the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Str("db_password", mask(cfg.Database.Password)).
		Bool("redis", cfg.RedisEnabled()).
		Str("media_provider", cfg.Media.Provider).
		Str("cloudinary_cloud", cfg.Media.Cloudinary.CloudName).
		Str("s3_bucket", cfg.Media.S3.Bucket).
		Str("jwt_secret", mask(cfg.JWT.Secret)).
		Int("admin_accounts", len(cfg.Admin.Accounts)).
		Dur("store_write_timeout", cfg.Store.WriteTimeout).
		Int("store_retry_attempts", cfg.Store.Retry.MaxAttempts).
		Msg("config resolved")
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}
