package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alena0604/data-techniques/data"
	"github.com/alena0604/data-techniques/models"
)

type fakeDocumentRepo struct {
	docs          []data.Document
	total         int
	err           error
	gotLimit      int
	gotOffset     int
	gotSourceName string
	gotArticleID  string
}

func (f *fakeDocumentRepo) GetDocuments(limit, offset int) ([]data.Document, int, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.docs, f.total, f.err
}

func (f *fakeDocumentRepo) GetDocumentByID(sourceName, articleID string) (*data.Document, error) {
	f.gotSourceName, f.gotArticleID = sourceName, articleID
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.docs {
		if d.SourceName == sourceName && d.ArticleID == articleID {
			return &d, nil
		}
	}
	return nil, nil
}

func sampleDocument() data.Document {
	return data.Document{
		ArticleID:   "8863",
		SourceName:  models.SourceHackerNews,
		Title:       "My YC app: Dropbox",
		URL:         "http://www.getdropbox.com/u/2/screencast.html",
		Content:     models.Sentinel,
		PublishedAt: time.Date(2007, 4, 4, 19, 16, 40, 0, time.UTC),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetDocuments_Paginates(t *testing.T) {
	repo := &fakeDocumentRepo{docs: []data.Document{sampleDocument()}, total: 41}
	h := NewDocumentHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/documents?page=3&perPage=10", nil)
	res := h.GetDocuments(httptest.NewRecorder(), req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 10, repo.gotLimit)
	assert.Equal(t, 20, repo.gotOffset)

	body := res.Body.(models.GetDocumentsResponse)
	assert.Equal(t, 41, body.Total)
	assert.Equal(t, 3, body.Page)
	require.Len(t, body.Documents, 1)
	assert.Equal(t, "2007-04-04 19:16:40", body.Documents[0].PublishedAt)
}

func TestGetDocuments_DefaultsAndBounds(t *testing.T) {
	repo := &fakeDocumentRepo{}
	h := NewDocumentHandler(repo)

	res := h.GetDocuments(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/documents?page=-1&perPage=5000", nil))

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, maxPerPage, repo.gotLimit)
	assert.Equal(t, 0, repo.gotOffset)
	assert.NotNil(t, res.Body.(models.GetDocumentsResponse).Documents)
}

func TestGetDocuments_RepoError(t *testing.T) {
	h := NewDocumentHandler(&fakeDocumentRepo{err: errors.New("connection refused")})

	res := h.GetDocuments(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/documents", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.ErrorContains(t, res.Error, "connection refused")
}

func TestGetDocument(t *testing.T) {
	repo := &fakeDocumentRepo{docs: []data.Document{sampleDocument()}}
	mux := http.NewServeMux()
	var res Result
	mux.HandleFunc("GET /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		res = NewDocumentHandler(repo).GetDocument(w, r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/documents/8863", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "8863", res.Body.(models.Document).ArticleID)
	assert.Equal(t, models.SourceHackerNews, repo.gotSourceName)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/documents/1", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/documents/8863?source=Reuters", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Reuters", repo.gotSourceName)
}

type staticStatus models.StatusResponse

func (s staticStatus) Status() models.StatusResponse {
	return models.StatusResponse(s)
}

func TestGetStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	res := NewStatusHandler(staticStatus{}).GetStatus(httptest.NewRecorder(), req)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)

	res = NewStatusHandler(staticStatus{Seeded: true, LastMaxID: 42}).GetStatus(httptest.NewRecorder(), req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, int64(42), res.Body.(models.StatusResponse).LastMaxID)
}
