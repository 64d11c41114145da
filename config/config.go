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
	StoreDriver string
	SQLitePath  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxPages    int
	PageDelayMs int

	OutputDir string
	ChromeBin string

	Query SearchQuery
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:  getEnv("SQLITE_PATH", "./cars.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "cars_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxPages:    getEnvInt("MAX_PAGES", 50),
		PageDelayMs: getEnvInt("PAGE_DELAY_MS", 2000),

		OutputDir: getEnv("XLSX_OUTPUT_DIR", "."),
		ChromeBin: getEnv("CHROME_BIN", ""),

		Query: SearchQuery{
			VehicleClass: getEnv("SEARCH_VEHICLE_CLASS", "Car"),
			Condition:    getEnv("SEARCH_CONDITION", "USED"),
			FuelType:     getEnv("SEARCH_FUEL_TYPE", "ELECTRICITY"),
			Country:      getEnv("SEARCH_COUNTRY", "DE"),
			MaxPriceEUR:  getEnvInt("SEARCH_MAX_PRICE_EUR", 60000),
			MaxMileageKm: getEnvInt("SEARCH_MAX_MILEAGE_KM", 10000),
			MinRangeKm:   getEnvInt("SEARCH_MIN_RANGE_KM", 400),
			Categories:   getEnvList("SEARCH_CATEGORIES", []string{"OffRoad", "Limousine"}),
			Undamaged:    true,
			WithPictures: true,
		},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
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

func getEnvList(key string, fallback []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
