package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	PosAPI    PosAPIConfig
	Database  DatabaseConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Catalog   CatalogConfig
	Sale      SaleConfig
}

type AppConfig struct {
	Name   string
	Env    string
	Port   string
	Debug  bool
	Locale string
}

// PosAPIConfig points the console at the POS backend
type PosAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// SessionConfig controls console sessions. Secret signs session tokens and
// seals the backend tokens stored with each session.
type SessionConfig struct {
	Secret          string
	TTL             time.Duration
	RefreshSkew     time.Duration
	CleanupInterval time.Duration
}

// CORSConfig describes which browser origins may drive the console
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig describes the receipt printer and the receipt header
type PrinterConfig struct {
	Type         string
	USBPath      string
	Address      string
	Timeout      time.Duration
	Width        int
	StoreName    string
	StoreAddress string
	StorePhone   string
	StoreTaxID   string
	Footer       string
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type SaleConfig struct {
	DefaultCompletion string
	Currency          string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-console")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_LOCALE", "en")
	viper.SetDefault("POS_API_BASE_URL", "http://localhost:3000/api")
	viper.SetDefault("POS_API_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_console")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("SESSION_SECRET", "change-this-secret-in-production")
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("SESSION_REFRESH_SKEW_SECONDS", 60)
	viper.SetDefault("SESSION_CLEANUP_MINUTES", 15)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", false)
	viper.SetDefault("CORS_MAX_AGE_SECONDS", 43200)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	viper.SetDefault("PRINTER_WIDTH", 48)
	viper.SetDefault("PRINTER_STORE_NAME", "POS")
	viper.SetDefault("PRINTER_FOOTER", "Thank you for your purchase!")
	viper.SetDefault("CATALOG_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("SALE_DEFAULT_COMPLETION", "PICKUP")
	viper.SetDefault("SALE_CURRENCY", "USD")

	return &Config{
		App: AppConfig{
			Name:   viper.GetString("APP_NAME"),
			Env:    viper.GetString("APP_ENV"),
			Port:   viper.GetString("APP_PORT"),
			Debug:  viper.GetBool("APP_DEBUG"),
			Locale: viper.GetString("APP_LOCALE"),
		},
		PosAPI: PosAPIConfig{
			BaseURL: strings.TrimRight(viper.GetString("POS_API_BASE_URL"), "/"),
			Timeout: time.Duration(viper.GetInt("POS_API_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Session: SessionConfig{
			Secret:          viper.GetString("SESSION_SECRET"),
			TTL:             time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
			RefreshSkew:     time.Duration(viper.GetInt("SESSION_REFRESH_SKEW_SECONDS")) * time.Second,
			CleanupInterval: time.Duration(viper.GetInt("SESSION_CLEANUP_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           time.Duration(viper.GetInt("CORS_MAX_AGE_SECONDS")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:         viper.GetString("PRINTER_TYPE"),
			USBPath:      viper.GetString("PRINTER_USB_PATH"),
			Address:      viper.GetString("PRINTER_ADDRESS"),
			Timeout:      time.Duration(viper.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
			Width:        viper.GetInt("PRINTER_WIDTH"),
			StoreName:    viper.GetString("PRINTER_STORE_NAME"),
			StoreAddress: viper.GetString("PRINTER_STORE_ADDRESS"),
			StorePhone:   viper.GetString("PRINTER_STORE_PHONE"),
			StoreTaxID:   viper.GetString("PRINTER_STORE_TAX_ID"),
			Footer:       viper.GetString("PRINTER_FOOTER"),
		},
		Catalog: CatalogConfig{
			CacheTTL: time.Duration(viper.GetInt("CATALOG_CACHE_TTL_SECONDS")) * time.Second,
		},
		Sale: SaleConfig{
			DefaultCompletion: viper.GetString("SALE_DEFAULT_COMPLETION"),
			Currency:          viper.GetString("SALE_CURRENCY"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// RequestsPerSecond converts the configured window into a steady rate
func (c *RateLimitConfig) RequestsPerSecond() float64 {
	if c.Duration <= 0 {
		return float64(c.Requests)
	}
	return float64(c.Requests) / float64(c.Duration)
}
