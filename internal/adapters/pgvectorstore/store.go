// Package pgvectorstore is a concrete capability.VectorStore backed by
// PostgreSQL and the pgvector extension. It keeps the teacher's connect/
// enable-extension/create-table bring-up sequence from
// internal/adapters/postgres.go, generalized into an OpenOrCreate shape
// that derives the vector column's dimension from the first batch of
// records it's ever asked to insert, rather than requiring it up front.
package pgvectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
)

const tableName = "doc_chunks"

// Store is a concrete capability.VectorStore.
type Store struct {
	conn *pgx.Conn

	mu       sync.Mutex
	prepared bool
}

// OpenOrCreate connects to dsn, enables the pgvector extension if it isn't
// already, and returns a Store. The backing table isn't created until the
// first Insert call, since its vector column's width depends on the
// embedder in use.
func OpenOrCreate(ctx context.Context, dsn string) (*Store, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, &apperr.VectorStoreError{Op: "OpenOrCreate.Connect", Err: err}
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, &apperr.VectorStoreError{Op: "OpenOrCreate.Ping", Err: err}
	}
	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector;"); err != nil {
		return nil, &apperr.VectorStoreError{Op: "OpenOrCreate.CreateExtension", Err: err}
	}
	return &Store{conn: conn}, nil
}

// ensureTable creates the chunk table sized to dimensions the first time
// it's called, and is a no-op afterward.
func (s *Store) ensureTable(ctx context.Context, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared {
		return nil
	}

	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id UUID PRIMARY KEY,
		chunk_hash TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		section_title TEXT NOT NULL DEFAULT '',
		section_path TEXT NOT NULL DEFAULT '',
		context_prefix TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	);`, tableName, dimensions)

	if _, err := s.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	s.prepared = true
	return nil
}

// Insert implements capability.VectorStore.
func (s *Store) Insert(ctx context.Context, records []capability.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.ensureTable(ctx, len(records[0].Vector)); err != nil {
		return &apperr.VectorStoreError{Op: "Insert", Err: err}
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			fmt.Sprintf(`INSERT INTO %s
				(id, chunk_hash, chunk_index, start_offset, end_offset, section_title, section_path, context_prefix, content, embedding)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, tableName),
			uuid.New(), r.ChunkHash, r.ChunkIndex, r.Start, r.End, r.SectionTitle, r.SectionPath, r.ContextPrefix, r.Text,
			pgvector.NewVector(r.Vector),
		)
	}

	br := s.conn.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return &apperr.VectorStoreError{Op: "Insert", Err: err}
		}
	}
	return nil
}

// VectorSearch implements capability.VectorStore.
func (s *Store) VectorSearch(ctx context.Context, query []float32, limit int) ([]capability.SearchResult, error) {
	s.mu.Lock()
	prepared := s.prepared
	s.mu.Unlock()
	if !prepared {
		return []capability.SearchResult{}, nil
	}

	rows, err := s.conn.Query(ctx, fmt.Sprintf(`
		SELECT chunk_hash, chunk_index, start_offset, end_offset, section_title, section_path, context_prefix, content,
			embedding, embedding <-> $1 AS distance
		FROM %s
		ORDER BY embedding <-> $1
		LIMIT $2`, tableName),
		pgvector.NewVector(query), limit)
	if err != nil {
		return nil, &apperr.VectorStoreError{Op: "VectorSearch", Err: err}
	}
	defer rows.Close()

	var results []capability.SearchResult
	for rows.Next() {
		var (
			rec      capability.ChunkRecord
			vec      pgvector.Vector
			distance float32
		)
		if err := rows.Scan(&rec.ChunkHash, &rec.ChunkIndex, &rec.Start, &rec.End, &rec.SectionTitle, &rec.SectionPath,
			&rec.ContextPrefix, &rec.Text, &vec, &distance); err != nil {
			return nil, &apperr.VectorStoreError{Op: "VectorSearch.Scan", Err: err}
		}
		rec.Vector = vec.Slice()
		results = append(results, capability.SearchResult{Record: rec, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.VectorStoreError{Op: "VectorSearch", Err: err}
	}
	if results == nil {
		results = []capability.SearchResult{}
	}
	return results, nil
}

// Reset implements capability.VectorStore: it drops every row but keeps
// the table (and its vector dimension) intact.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	prepared := s.prepared
	s.mu.Unlock()
	if !prepared {
		return nil
	}
	if _, err := s.conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", tableName)); err != nil {
		return &apperr.VectorStoreError{Op: "Reset", Err: err}
	}
	return nil
}

// Count implements capability.VectorStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	prepared := s.prepared
	s.mu.Unlock()
	if !prepared {
		return 0, nil
	}
	var count int
	if err := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&count); err != nil {
		return 0, &apperr.VectorStoreError{Op: "Count", Err: err}
	}
	return count, nil
}
