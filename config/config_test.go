package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_PROVIDER", "gcs")
	t.Setenv("GCS_BUCKET", "bucket")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 0 {
		t.Errorf("Expected no token expiry, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("Expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.DefaultAvatarURL != DefaultAvatarURL {
		t.Errorf("Unexpected default avatar %s", cfg.DefaultAvatarURL)
	}
	if cfg.Upload.MaxCallImages != 5 || cfg.Upload.MaxSizeMB != 5 {
		t.Errorf("Unexpected upload limits %+v", cfg.Upload)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOKEN_TTL_HOURS", "12")
	t.Setenv("HASH_POWER", "4")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("Expected 12h TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 4 {
		t.Errorf("Expected bcrypt cost 4, got %d", cfg.Auth.BcryptCost)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestFromEnv_CollectsAllErrors(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("DATABASE_NAME", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_PROVIDER", "r2")
	t.Setenv("R2_BUCKET", "")
	t.Setenv("R2_ACCESS_KEY_ID", "")
	t.Setenv("R2_SECRET_ACCESS_KEY", "")
	t.Setenv("R2_ENDPOINT", "")
	t.Setenv("HASH_POWER", "abc")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("Expected an error")
	}
	for _, key := range []string{"MONGODB_URI", "DATABASE_NAME", "JWT_SECRET", "R2_BUCKET", "R2_ENDPOINT", "HASH_POWER"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected error to mention %s, got %v", key, err)
		}
	}
}

func TestFromEnv_UnknownProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_PROVIDER", "ftp")

	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "STORAGE_PROVIDER") {
		t.Errorf("Expected provider error, got %v", err)
	}
}
