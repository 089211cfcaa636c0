package core

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"godwithyou.app/server/internal/blob"
	"godwithyou.app/server/internal/store"
)

const (
	// minFragmentLen drops fragments too short to be useful context.
	minFragmentLen = 50
	// maxChunks caps how much of a document is retained for retrieval.
	maxChunks = 20
)

var blankLineSplitter = regexp.MustCompile(`\r?\n\s*\r?\n`)

type DocumentService struct {
	dbStore   *store.SQLiteStore
	blobStore *blob.Store
}

func NewDocumentService(db *store.SQLiteStore, blobs *blob.Store) *DocumentService {
	return &DocumentService{
		dbStore:   db,
		blobStore: blobs,
	}
}

// ChunkText splits UTF-8 text on blank-line boundaries, discards fragments
// shorter than minFragmentLen characters, and keeps at most the first
// maxChunks fragments in original order.
func ChunkText(text string) []string {
	fragments := blankLineSplitter.Split(text, -1)

	var chunks []string
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) < minFragmentLen {
			continue
		}
		chunks = append(chunks, fragment)
		if len(chunks) == maxChunks {
			break
		}
	}
	return chunks
}

// Upload stores the original file in blob storage, writes the Document row,
// chunks the text, and persists the chunks with zero-based indices. If any
// database write fails after the blob write, the blob is deleted best-effort
// so no orphaned originals accumulate.
func (s *DocumentService) Upload(userID int64, filename string, data []byte) (*store.Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file %s is not valid UTF-8 text", filename)
	}

	blobKey, err := s.blobStore.Put(userID, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store original file: %w", err)
	}

	doc := &store.Document{
		ID:       uuid.NewString(),
		UserID:   userID,
		Filename: filename,
		BlobKey:  blobKey,
	}
	if err := s.dbStore.CreateDocument(doc); err != nil {
		s.cleanupBlob(blobKey)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	fragments := ChunkText(string(data))
	chunks := make([]store.DocumentChunk, 0, len(fragments))
	for i, fragment := range fragments {
		chunks = append(chunks, store.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    fragment,
		})
	}

	if err := s.dbStore.CreateDocumentChunks(doc.ID, chunks); err != nil {
		s.cleanupBlob(blobKey)
		return nil, fmt.Errorf("failed to persist document chunks: %w", err)
	}
	doc.ChunkCount = len(chunks)

	return doc, nil
}

func (s *DocumentService) cleanupBlob(blobKey string) {
	if err := s.blobStore.Delete(blobKey); err != nil {
		log.Printf("Failed to clean up blob %s after aborted upload: %v", blobKey, err)
	}
}

func (s *DocumentService) GetDocuments(userID int64) ([]store.Document, error) {
	return s.dbStore.GetDocumentsByUserID(userID)
}

func (s *DocumentService) GetDocument(documentID string, userID int64) (*store.Document, []store.DocumentChunk, error) {
	doc, err := s.dbStore.GetDocumentByID(documentID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, nil, nil // Not found
	}
	chunks, err := s.dbStore.GetDocumentChunks(documentID, maxChunks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get document chunks: %w", err)
	}
	return doc, chunks, nil
}
