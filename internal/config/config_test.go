package config

import (
	"testing"
	"time"
)

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "30")
	if got := getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}

	t.Setenv("ACCESS_TOKEN_TTL", "not-a-number")
	if got := getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute); got != 60*time.Minute {
		t.Fatalf("expected fallback 60m, got %v", got)
	}

	t.Setenv("ACCESS_TOKEN_TTL", "-5")
	if got := getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute); got != 60*time.Minute {
		t.Fatalf("expected fallback for negative value, got %v", got)
	}
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("VERIFY_TOTALS", "true")
	if !getBoolEnv("VERIFY_TOTALS", false) {
		t.Fatal("expected true")
	}

	t.Setenv("VERIFY_TOTALS", "garbage")
	if getBoolEnv("VERIFY_TOTALS", false) {
		t.Fatal("expected fallback false for unparsable value")
	}

	t.Setenv("VERIFY_TOTALS", "")
	if !getBoolEnv("VERIFY_TOTALS", true) {
		t.Fatal("expected fallback true for empty value")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DB_NAME", "  ")
	if got := getEnvOrDefault("DB_NAME", "storefront"); got != "storefront" {
		t.Fatalf("expected default for blank value, got %q", got)
	}

	t.Setenv("DB_NAME", "shop")
	if got := getEnvOrDefault("DB_NAME", "storefront"); got != "shop" {
		t.Fatalf("expected shop, got %q", got)
	}
}
