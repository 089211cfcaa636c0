package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps document uploads at 2 MiB; these are plain-text files.
const maxUploadBytes = 2 << 20

func (h *APIHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A 'file' form field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		log.Printf("Error reading upload for user %d: %v", userID, err)
		http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}
	if len(data) > maxUploadBytes {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := h.documentService.Upload(userID, header.Filename, data)
	if err != nil {
		log.Printf("Error uploading document for user %d: %v", userID, err)
		http.Error(w, "Failed to process document", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	docs, err := h.documentService.GetDocuments(userID)
	if err != nil {
		log.Printf("Error listing documents for user %d: %v", userID, err)
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(docs)
}

func (h *APIHandler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	documentID := chi.URLParam(r, "documentID")

	doc, chunks, err := h.documentService.GetDocument(documentID, userID)
	if err != nil {
		log.Printf("Error getting document %s for user %d: %v", documentID, userID, err)
		http.Error(w, "Failed to get document", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"document": doc,
		"chunks":   chunks,
	})
}
