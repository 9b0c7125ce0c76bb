package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/autoshop/shop-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	DataWarehouse DataWarehouseConfig
	Auth          AuthConfig
	ApiKey        ApiKeyConfig
	Storage       StorageConfig
	Secrets       SecretsConfig
	Logging       LoggingConfig
	Server        ServerConfig
	CORS          CORSConfig
	Security      SecurityConfig
	RateLimit     RateLimitConfig
	Jobs          JobsConfig
	Geo           GeoConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate runs gorm AutoMigrate on startup (development only, goose owns production schema)
	AutoMigrate bool
}

// DataWarehouseConfig holds configuration for the MS SQL Server accounting warehouse.
// The connection is optional; payments and refunds are exported to it on a schedule.
type DataWarehouseConfig struct {
	Enabled bool
	// URL is the connection URL in format host:port/database
	URL             string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// QueryTimeout is the default timeout for queries (seconds)
	QueryTimeout int
	// ExportCron is the cron expression for the ledger export job
	ExportCron string
	// ExportTimeout bounds a single export run (seconds)
	ExportTimeout int
	// ExportTable is the destination table for ledger entries
	ExportTable string
}

// AuthConfig holds token issuing and enforcement settings
type AuthConfig struct {
	// JWTSecret signs HS256 access tokens issued by /login
	JWTSecret string
	// TokenTTLMinutes is the lifetime of an issued token
	TokenTTLMinutes int
	Issuer          string
	// Required rejects unauthenticated requests. The local desktop client runs with this off.
	Required bool
	// AdminUsername and AdminPassword seed the first user when the users table is empty
	AdminUsername string
	AdminPassword string
}

type ApiKeyConfig struct {
	Value string // Loaded from secrets or environment
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
	// PublicBaseURL prefixes stored object paths to build links saved on vehicles
	PublicBaseURL string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the limit for authenticated requests (per user)
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	// WhitelistPaths bypass rate limiting; a trailing /* matches by prefix
	WhitelistPaths []string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ReconcileEnabled bool
	ReconcileCron    string
	// ReconcileTimeout bounds a single reconciliation run (seconds)
	ReconcileTimeout int
	// AuditRetentionDays is how long audit entries are kept; 0 keeps them forever
	AuditRetentionDays int
	AuditCleanupCron   string
}

// GeoConfig points at the county/locality directory
type GeoConfig struct {
	LocalitiesPath string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (s *ServerConfig) ReadTimeoutDuration() time.Duration { return seconds(s.ReadTimeout) }
func (s *ServerConfig) WriteTimeoutDuration() time.Duration { return seconds(s.WriteTimeout) }
func (s *ServerConfig) RequestTimeoutDuration() time.Duration { return seconds(s.RequestTimeout) }

func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration { return seconds(d.ConnMaxLifetime) }

func (d *DataWarehouseConfig) ConnMaxLifetimeDuration() time.Duration { return seconds(d.ConnMaxLifetime) }
func (d *DataWarehouseConfig) QueryTimeoutDuration() time.Duration { return seconds(d.QueryTimeout) }

// ExportTimeoutDuration bounds one ledger export run
func (d *DataWarehouseConfig) ExportTimeoutDuration() time.Duration { return seconds(d.ExportTimeout) }

// TokenTTL returns the access token lifetime as duration
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func (j *JobsConfig) ReconcileTimeoutDuration() time.Duration { return seconds(j.ReconcileTimeout) }

// Load loads configuration from file and environment variables.
// It does not fetch secrets from vault; use LoadWithSecrets for that.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ApiKey.Value == "" {
		cfg.ApiKey.Value = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if v.GetBool("DATAWAREHOUSE_ENABLED") {
		cfg.DataWarehouse.Enabled = true
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
//
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is
// staging or production. Otherwise every secret comes from the environment.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     seconds(cfg.Secrets.CacheTTL),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	applySecrets(ctx, cfg, provider, logger)

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// secretSource is the subset of secrets.Provider used to fill the config
type secretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

type secretTarget struct {
	secret string
	env    string
	dst    *string
}

func applySecrets(ctx context.Context, cfg *Config, provider secretSource, logger *zap.Logger) {
	targets := []secretTarget{
		{"POSTGRES-MAIN-HOST", "DATABASE_HOST", &cfg.Database.Host},
		{"POSTGRES-MAIN-USER", "DATABASE_USER", &cfg.Database.User},
		{"POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD", &cfg.Database.Password},
		{"jwt-secret", "JWT_SECRET", &cfg.Auth.JWTSecret},
		{"admin-api-key", "ADMIN_API_KEY", &cfg.ApiKey.Value},
		{"shop-admin-password", "AUTH_ADMINPASSWORD", &cfg.Auth.AdminPassword},
		{"storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING", &cfg.Storage.CloudConnectionString},
	}
	if cfg.DataWarehouse.Enabled {
		targets = append(targets,
			secretTarget{"WAREHOUSE-URL", "DATAWAREHOUSE_URL", &cfg.DataWarehouse.URL},
			secretTarget{"WAREHOUSE-USERNAME", "DATAWAREHOUSE_USER", &cfg.DataWarehouse.User},
			secretTarget{"WAREHOUSE-PASSWORD", "DATAWAREHOUSE_PASSWORD", &cfg.DataWarehouse.Password},
		)
	}

	for _, t := range targets {
		value, err := provider.GetSecretOrEnv(ctx, t.secret, t.env)
		if err != nil || value == "" {
			logger.Debug("secret not resolved, keeping configured value",
				zap.String("secret_name", t.secret),
			)
			continue
		}
		*t.dst = value
	}

	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Shop API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 5000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "shop")
	v.SetDefault("database.user", "shop_user")
	v.SetDefault("database.password", "shop_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)

	// Accounting warehouse (MS SQL Server, optional)
	v.SetDefault("dataWarehouse.enabled", false)
	v.SetDefault("dataWarehouse.maxOpenConns", 5)
	v.SetDefault("dataWarehouse.maxIdleConns", 1)
	v.SetDefault("dataWarehouse.connMaxLifetime", 300)
	v.SetDefault("dataWarehouse.queryTimeout", 30)
	v.SetDefault("dataWarehouse.exportCron", "0 30 2 * * *") // 02:30 every night
	v.SetDefault("dataWarehouse.exportTimeout", 300)
	v.SetDefault("dataWarehouse.exportTable", "shop_ledger_entries")

	v.SetDefault("auth.tokenTTLMinutes", 720)
	v.SetDefault("auth.issuer", "shop-api")
	v.SetDefault("auth.required", false)
	v.SetDefault("auth.adminUsername", "admin")
	v.SetDefault("auth.adminPassword", "") // set AUTH_ADMINPASSWORD to seed the admin

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 20)
	v.SetDefault("storage.publicBaseURL", "http://127.0.0.1:5000/files")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 240)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready", "/swagger/*"})

	v.SetDefault("jobs.reconcileEnabled", true)
	v.SetDefault("jobs.reconcileCron", "0 0 * * * *") // top of every hour
	v.SetDefault("jobs.reconcileTimeout", 120)
	v.SetDefault("jobs.auditRetentionDays", 180)
	v.SetDefault("jobs.auditCleanupCron", "0 0 3 * * *")

	v.SetDefault("geo.localitiesPath", "./resources/judete_localitati.json")
}
