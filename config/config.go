package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBDriver         string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string
	DBConnectRetries int

	OutputDir    string
	HomePageFile string
	TemplateDir  string
	PhotoBaseURL string

	CityPageSize     int
	DetailBatchSize  int
	NearbyLimit      int
	TopCityLimit     int
	CarouselLimit    int
	CarouselMinPrice float64

	MLSSourcesFile  string
	WarningsCSVPath string
	PruneStalePages bool

	Publish PublishConfig

	Debug bool
}

// PublishConfig describes the optional object-storage target for the
// generated site. Publishing is disabled when Bucket is empty.
type PublishConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Bucket    string
	Prefix    string
}

// Enabled reports whether a publish target is configured.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != "" && p.Endpoint != ""
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "homesnacks"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "homesnacks"),
		PostgresDB:       getEnv("POSTGRES_DB", "homesnacks"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "./homesnacks.db"),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 10),

		OutputDir:    getEnv("OUTPUT_DIR", "./output/site"),
		HomePageFile: getEnv("HOME_PAGE_FILE", "real-estate.html"),
		TemplateDir:  getEnv("TEMPLATE_DIR", ""),
		PhotoBaseURL: getEnv("PHOTO_BASE_URL", ""),

		CityPageSize:     getEnvInt("CITY_PAGE_SIZE", 15),
		DetailBatchSize:  getEnvInt("DETAIL_BATCH_SIZE", 100),
		NearbyLimit:      getEnvInt("NEARBY_LIMIT", 4),
		TopCityLimit:     getEnvInt("TOP_CITY_LIMIT", 30),
		CarouselLimit:    getEnvInt("CAROUSEL_LIMIT", 15),
		CarouselMinPrice: getEnvFloat("CAROUSEL_MIN_PRICE", 100000),

		MLSSourcesFile:  getEnv("MLS_SOURCES_FILE", "./mls_sources.yaml"),
		WarningsCSVPath: getEnv("WARNINGS_CSV_PATH", "./output/field_warnings.csv"),
		PruneStalePages: getEnvBool("PRUNE_STALE_PAGES", false),

		Publish: PublishConfig{
			Endpoint:  getEnv("PUBLISH_ENDPOINT", ""),
			AccessKey: getEnv("PUBLISH_ACCESS_KEY", ""),
			SecretKey: getEnv("PUBLISH_SECRET_KEY", ""),
			Secure:    getEnvBool("PUBLISH_SECURE", true),
			Bucket:    getEnv("PUBLISH_BUCKET", ""),
			Prefix:    getEnv("PUBLISH_PREFIX", ""),
		},

		Debug: strings.EqualFold(getEnv("LOG_LEVEL", "info"), "debug"),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
