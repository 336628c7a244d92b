package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/logging"
)

// ConfigForTests loads the .env.test file from the project root and returns a
// valid config.Provider. Integration tests are skipped in -short mode and when
// no .env.test exists.
func ConfigForTests(t *testing.T) config.Provider {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Find project root by looking for go.mod to reliably locate .env.test.
	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		t.Skipf("skipping integration test: no .env.test (%v)", err)
	}

	for key, value := range env {
		t.Setenv(key, value)
	}

	logging.New()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("invalid .env.test: %v", err)
	}
	return cfg
}
