package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// NewTestRecordID creates a new RecordID for testing purposes.
func NewTestRecordID(table string) *surrealmodels.RecordID {
	id := surrealmodels.NewRecordID(table, uuid.NewString())
	return &id
}

// UniqueEmail returns an address that will not collide with other test runs.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

// DBForTests connects to the SurrealDB configured in .env.test and registers
// a cleanup that closes the connection.
func DBForTests(t *testing.T) (*surrealdb.DB, config.Provider) {
	t.Helper()

	cfg := ConfigForTests(t)
	db, err := database.NewDB(context.Background(), cfg)
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(func() {
		db.Close(context.Background())
	})
	return db, cfg
}
