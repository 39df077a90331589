package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alena0604/data-techniques/data"
	"github.com/alena0604/data-techniques/models"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type DocumentReader interface {
	GetDocuments(limit, offset int) ([]data.Document, int, error)
	GetDocumentByID(sourceName, articleID string) (*data.Document, error)
}

type DocumentHandler struct {
	repo DocumentReader
}

func NewDocumentHandler(repo DocumentReader) *DocumentHandler {
	return &DocumentHandler{repo}
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) Result {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	offset := (page - 1) * perPage

	docs, total, err := h.repo.GetDocuments(perPage, offset)
	if err != nil {
		return InternalError(err, "get documents")
	}

	res := models.GetDocumentsResponse{
		Documents: make([]models.Document, 0, len(docs)),
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	}
	for _, d := range docs {
		res.Documents = append(res.Documents, toDocumentResponse(d))
	}

	return Ok(res)
}

// GetDocument looks up a HackerNews document unless the source query parameter names another source.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) Result {
	articleID := strings.TrimSpace(r.PathValue("id"))
	if articleID == "" {
		return BadRequest("Document id is required.")
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = models.SourceHackerNews
	}

	doc, err := h.repo.GetDocumentByID(source, articleID)
	if err != nil {
		return InternalError(err, "get document")
	}
	if doc == nil {
		return NotFound("Document not found.")
	}

	return Ok(toDocumentResponse(*doc))
}

func toDocumentResponse(d data.Document) models.Document {
	return models.Document{
		CanonicalDocument: d.Canonical(),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
