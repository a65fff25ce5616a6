package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode       string
	Port          string
	PublicBaseURL string
	PolicyFile    string
	RedisURL      string
	Database      DatabaseConfig
	JWT           JWTConfig
	Cookie        CookieConfig
	Email         EmailConfig
	Storage       StorageConfig
	PayNow        PayNowConfig
	Admin         AdminSeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// EmailConfig selects and configures the outbound mail provider
type EmailConfig struct {
	Provider       string
	FromAddress    string
	FromName       string
	SendGridAPIKey string
	KafkaBrokers   []string
	KafkaTopic     string
	StaffFallback  string
}

// StorageConfig configures the document blob store
type StorageConfig struct {
	Root          string
	SigningSecret string
	URLTTL        time.Duration
}

// PayNowConfig holds payment gateway credentials
type PayNowConfig struct {
	IntegrationID  string
	IntegrationKey string
	InitiateURL    string
	AuthEmail      string
}

// AdminSeedConfig is the bootstrap administrator account
type AdminSeedConfig struct {
	Email    string
	Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:       appMode,
		Port:          getEnv("PORT", "3000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		PolicyFile:    getEnv("POLICY_FILE", "policy.yaml"),
		RedisURL:      getEnv("REDIS_URL", ""),
		Database:      loadDatabaseConfig(appMode),
		JWT:           loadJWTConfig(appMode),
		Cookie:        loadCookieConfig(appMode),
		Email:         loadEmailConfig(),
		Storage:       loadStorageConfig(appMode),
		PayNow:        loadPayNowConfig(appMode),
		Admin: AdminSeedConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if config.IsProd() && config.JWT.Secret == "default_secret" {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv(prefix+"DB_DRIVER", "mysql")),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "eac_registry"),
		SQLitePath: getEnv(prefix+"DB_SQLITE_PATH", "eac_registry.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadEmailConfig() EmailConfig {
	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return EmailConfig{
		Provider:       strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
		FromAddress:    getEnv("EMAIL_FROM_ADDRESS", "registry@eac.local"),
		FromName:       getEnv("EMAIL_FROM_NAME", "Estate Agents Council Registry"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		KafkaBrokers:   brokers,
		KafkaTopic:     getEnv("KAFKA_EMAIL_TOPIC", "registry.email"),
		StaffFallback:  getEnv("STAFF_NOTIFY_EMAIL", ""),
	}
}

func loadStorageConfig(mode string) StorageConfig {
	ttlMins, _ := strconv.Atoi(getEnv("STORAGE_URL_TTL_MINUTES", "15"))
	if ttlMins <= 0 {
		ttlMins = 15
	}

	return StorageConfig{
		Root:          getEnv("STORAGE_ROOT", "./storage"),
		SigningSecret: getEnv(modePrefix(mode)+"STORAGE_SIGNING_SECRET", "default_storage_secret"),
		URLTTL:        time.Duration(ttlMins) * time.Minute,
	}
}

func loadPayNowConfig(mode string) PayNowConfig {
	prefix := modePrefix(mode)

	return PayNowConfig{
		IntegrationID:  getEnv(prefix+"PAYNOW_INTEGRATION_ID", ""),
		IntegrationKey: getEnv(prefix+"PAYNOW_INTEGRATION_KEY", ""),
		InitiateURL:    getEnv("PAYNOW_INITIATE_URL", "https://www.paynow.co.zw/interface/initiatetransaction"),
		AuthEmail:      getEnv("PAYNOW_AUTH_EMAIL", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// PayNowEnabled reports whether gateway credentials are configured
func (c *Config) PayNowEnabled() bool {
	return c.PayNow.IntegrationID != "" && c.PayNow.IntegrationKey != ""
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.PublicBaseURL
	}
	return origins
}
