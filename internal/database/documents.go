package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// DocumentStore adds schemaless records to SurrealDB tables.
type DocumentStore struct {
	db *surrealdb.DB
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(db *surrealdb.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// AddRecord implements auth.DocumentStore.
func (s *DocumentStore) AddRecord(ctx context.Context, collection string, fields map[string]any) error {
	if collection == "" {
		return NewDBError(ErrInvalidInput, "collection cannot be empty")
	}
	if fields == nil {
		return NewDBError(ErrInvalidInput, "fields cannot be nil")
	}

	query := "CREATE type::table($table) CONTENT $data"
	if err := Execute(ctx, s.db, query, map[string]any{"table": collection, "data": fields}); err != nil {
		return fmt.Errorf("add record to %s: %w", collection, err)
	}
	return nil
}
