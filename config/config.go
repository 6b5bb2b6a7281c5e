// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	StorageGCS = "gcs"
	StorageR2  = "r2"

	DefaultAvatarURL = "https://i.ibb.co/K7j3rZk/99-512.png"
)

type MongoConfig struct {
	URI          string
	DatabaseName string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration // zero means tokens never expire
	BcryptCost int
}

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

type R2Config struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicDomain    string
}

type UploadConfig struct {
	Provider      string
	GCS           GCSConfig
	R2            R2Config
	MaxSizeMB     int
	MaxCallImages int
}

type Config struct {
	Port             string
	StoreDriver      string
	Mongo            MongoConfig
	Auth             AuthConfig
	Upload           UploadConfig
	AllowedOrigins   []string
	DefaultAvatarURL string
	AdsSeedFile      string
}

// Load reads a .env file when present and builds the Config from the
// environment. All missing or malformed variables are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var errs []string

	cfg := &Config{
		Port:             getOptionalEnv("PORT", "8080"),
		StoreDriver:      strings.ToLower(getOptionalEnv("STORE_DRIVER", StoreMongo)),
		DefaultAvatarURL: getOptionalEnv("DEFAULT_AVATAR_URL", DefaultAvatarURL),
		AdsSeedFile:      os.Getenv("ADS_SEED_FILE"),
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.Mongo = MongoConfig{
			URI:          getRequiredEnv("MONGODB_URI", &errs),
			DatabaseName: getRequiredEnv("DATABASE_NAME", &errs),
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, StoreMongo, StoreMemory))
	}

	cfg.Auth = AuthConfig{
		JWTSecret:  getRequiredEnv("JWT_SECRET", &errs),
		TokenTTL:   time.Duration(getOptionalEnvInt("TOKEN_TTL_HOURS", 0, &errs)) * time.Hour,
		BcryptCost: getOptionalEnvInt("HASH_POWER", bcrypt.DefaultCost, &errs),
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("HASH_POWER must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	cfg.Upload = UploadConfig{
		Provider:      strings.ToLower(getOptionalEnv("STORAGE_PROVIDER", StorageGCS)),
		MaxSizeMB:     getOptionalEnvInt("MAX_UPLOAD_SIZE_MB", 5, &errs),
		MaxCallImages: getOptionalEnvInt("MAX_CALL_IMAGES", 5, &errs),
	}
	switch cfg.Upload.Provider {
	case StorageGCS:
		cfg.Upload.GCS = GCSConfig{
			Bucket:          getRequiredEnv("GCS_BUCKET", &errs),
			CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
		}
	case StorageR2:
		cfg.Upload.R2 = R2Config{
			Bucket:          getRequiredEnv("R2_BUCKET", &errs),
			AccessKeyID:     getRequiredEnv("R2_ACCESS_KEY_ID", &errs),
			SecretAccessKey: getRequiredEnv("R2_SECRET_ACCESS_KEY", &errs),
			Endpoint:        getRequiredEnv("R2_ENDPOINT", &errs),
			PublicDomain:    strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown STORAGE_PROVIDER %q (want %s or %s)", cfg.Upload.Provider, StorageGCS, StorageR2))
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = 5
	}
	if cfg.Upload.MaxCallImages <= 0 {
		cfg.Upload.MaxCallImages = 5
	}

	if len(errs) > 0 {
		return nil, errors.New("configuration errors:\n - " + strings.Join(errs, "\n - "))
	}
	return cfg, nil
}

func getRequiredEnv(key string, errs *[]string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func getOptionalEnvInt(key string, def int, errs *[]string) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid integer for %s: %q", key, value))
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
