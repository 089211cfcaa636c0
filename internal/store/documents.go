package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Document methods
func (s *SQLiteStore) CreateDocument(doc *Document) error {
	doc.UploadedAt = time.Now()
	_, err := s.db.Exec(
		"INSERT INTO documents (id, user_id, filename, blob_key, chunk_count, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)",
		doc.ID, doc.UserID, doc.Filename, doc.BlobKey, doc.ChunkCount, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDocumentByID(documentID string, userID int64) (*Document, error) {
	var doc Document
	err := s.db.QueryRow(
		"SELECT id, user_id, filename, blob_key, chunk_count, uploaded_at FROM documents WHERE id = ? AND user_id = ?",
		documentID, userID,
	).Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.BlobKey, &doc.ChunkCount, &doc.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) GetDocumentsByUserID(userID int64) ([]Document, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, filename, blob_key, chunk_count, uploaded_at FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.BlobKey, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *SQLiteStore) DeleteDocument(documentID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM documents WHERE id = ? AND user_id = ?", documentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DocumentChunk methods
func (s *SQLiteStore) CreateDocumentChunks(documentID string, chunks []DocumentChunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin chunk transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO document_chunks (document_id, chunk_index, content) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		chunks[i].DocumentID = documentID
		if _, err := stmt.Exec(documentID, chunks[i].ChunkIndex, chunks[i].Content); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunks[i].ChunkIndex, err)
		}
	}

	if _, err := tx.Exec("UPDATE documents SET chunk_count = ? WHERE id = ?", len(chunks), documentID); err != nil {
		return fmt.Errorf("failed to update chunk count: %w", err)
	}

	return tx.Commit()
}

// GetDocumentChunks returns up to limit chunks in original order. No ranking
// is applied; retrieval is purely positional.
func (s *SQLiteStore) GetDocumentChunks(documentID string, limit int) ([]DocumentChunk, error) {
	rows, err := s.db.Query(
		"SELECT id, document_id, chunk_index, content FROM document_chunks WHERE document_id = ? ORDER BY chunk_index ASC LIMIT ?",
		documentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []DocumentChunk
	for rows.Next() {
		var chunk DocumentChunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
