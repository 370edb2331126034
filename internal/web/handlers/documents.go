package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/db"
	"github.com/jusunglee/hypua/internal/metrics"
)

type DocumentHandler struct {
	repo db.Repository
	log  *slog.Logger
}

func NewDocumentHandler(repo db.Repository, log *slog.Logger) *DocumentHandler {
	return &DocumentHandler{repo: repo, log: log}
}

type documentResponse struct {
	ID            int64  `json:"id"`
	SHA256        string `json:"sha256"`
	Title         string `json:"title"`
	Source        string `json:"source"`
	Converted     string `json:"converted"`
	LegacyCount   int32  `json:"legacy_count"`
	UnmappedCount int32  `json:"unmapped_count"`
	CreatedAt     string `json:"created_at"`
}

type documentListResponse struct {
	Data       []documentResponse `json:"data"`
	Pagination paginationMeta     `json:"pagination"`
}

func toDocumentResponse(d db.Document) documentResponse {
	return documentResponse{
		ID:            d.ID,
		SHA256:        d.SHA256,
		Title:         d.Title,
		Source:        d.Source,
		Converted:     d.Converted,
		LegacyCount:   d.LegacyCount,
		UnmappedCount: d.UnmappedCount,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}

type createDocumentRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Title) > 200 {
		writeError(w, http.StatusBadRequest, "title must be at most 200 bytes")
		return
	}

	st := hypua.Analyze(req.Text)
	metrics.ObserveConversion("archive", len(req.Text), st)
	annotateStats(r, st)

	doc, created, err := h.repo.CreateDocument(r.Context(), db.CreateDocumentParams{
		Title:         req.Title,
		Source:        req.Text,
		Converted:     hypua.ToIPFString(req.Text),
		LegacyCount:   int32(st.Legacy),
		UnmappedCount: int32(st.Unmapped),
	})
	if err != nil {
		metrics.DocumentsStored.WithLabelValues("error").Inc()
		h.log.ErrorContext(r.Context(), "creating document", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !created {
		metrics.DocumentsStored.WithLabelValues("duplicate").Inc()
		writeJSON(w, http.StatusOK, toDocumentResponse(doc))
		return
	}

	metrics.DocumentsStored.WithLabelValues("created").Inc()
	h.log.InfoContext(r.Context(), "document archived", "id", doc.ID, "legacy", st.Legacy, "unmapped", st.Unmapped)
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	if page-1 > math.MaxInt32/limit {
		writeError(w, http.StatusBadRequest, "page out of range")
		return
	}
	offset := (page - 1) * limit

	total, err := h.repo.CountDocuments(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "counting documents", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	docs, err := h.repo.ListDocuments(r.Context(), db.ListDocumentsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing documents", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		data = append(data, toDocumentResponse(d))
	}

	writeJSON(w, http.StatusOK, documentListResponse{
		Data: data,
		Pagination: paginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	doc, err := h.repo.GetDocument(r.Context(), id)
	if err != nil {
		if db.IsNoRows(err) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		h.log.ErrorContext(r.Context(), "getting document", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	rows, err := h.repo.DeleteDocument(r.Context(), id)
	if err != nil {
		h.log.ErrorContext(r.Context(), "deleting document", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rows == 0 {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	metrics.DocumentsStored.WithLabelValues("deleted").Inc()
	h.log.InfoContext(r.Context(), "document deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
