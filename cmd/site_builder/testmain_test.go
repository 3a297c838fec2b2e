package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env if present so DATABASE_URL and friends match local runs
func TestMain(m *testing.M) {
	// Missing .env is normal in CI
	_ = godotenv.Load()

	os.Exit(m.Run())
}
