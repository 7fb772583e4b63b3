package document

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/askdocs/askdocs/internal/db"
)

// SQLiteStore persists documents in SQLite. Embeddings live in a sidecar
// table as little-endian float32 blobs; similarity ranking happens in Go
// because the driver ships no vector extension.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) Save(ctx context.Context, doc Document) (Document, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   content = excluded.content,
		   source = excluded.source,
		   created_at = excluded.created_at,
		   updated_at = excluded.updated_at`,
		doc.ID, doc.Title, doc.Content, doc.Source, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, source, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Source, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) FindAll(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 || offset < 0 {
		return []Document{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, source, created_at, updated_at
		 FROM documents ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Source, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) SearchByEmbedding(ctx context.Context, embedding []float32, topK int) ([]Document, error) {
	if topK <= 0 {
		return []Document{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.title, d.content, d.source, d.created_at, d.updated_at, e.vector
		 FROM documents d JOIN document_embeddings e ON e.document_id = d.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("loading embeddings: %w", err)
	}
	defer rows.Close()

	type scored struct {
		doc        Document
		similarity float32
	}
	var candidates []scored
	for rows.Next() {
		var doc Document
		var blob []byte
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Source, &doc.CreatedAt, &doc.UpdatedAt, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding row: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		candidates = append(candidates, scored{doc: doc, similarity: cosineSimilarity(embedding, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Descending similarity, ties broken by created-at ascending.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].doc.CreatedAt.Before(candidates[j].doc.CreatedAt)
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	docs := make([]Document, len(candidates))
	for i, c := range candidates {
		docs[i] = c.doc
	}
	return docs, nil
}

func (s *SQLiteStore) Update(ctx context.Context, doc Document) (Document, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, content = ?, source = ?, created_at = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Title, doc.Content, doc.Source, doc.CreatedAt, doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return Document{}, fmt.Errorf("updating document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Document{}, fmt.Errorf("updating document: %w", err)
	}
	if affected == 0 {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	return int(affected), nil
}

// IndexEmbedding stores the embedding vector for an existing document.
func (s *SQLiteStore) IndexEmbedding(ctx context.Context, id string, embedding []float32) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO document_embeddings (document_id, vector) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET vector = excluded.vector`,
		id, encodeVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("indexing embedding: %w", err)
	}
	return nil
}
