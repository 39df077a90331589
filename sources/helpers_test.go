package sources

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alena0604/data-techniques/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type maxIDResponse struct {
	id  int64
	err error
}

// scriptedMaxIDSource replays responses in order and repeats the last one.
type scriptedMaxIDSource struct {
	mu        sync.Mutex
	responses []maxIDResponse
	calls     int
}

func newScriptedMaxIDSource(responses ...maxIDResponse) *scriptedMaxIDSource {
	return &scriptedMaxIDSource{responses: responses}
}

func ids(values ...int64) []maxIDResponse {
	out := make([]maxIDResponse, 0, len(values))
	for _, v := range values {
		out = append(out, maxIDResponse{id: v})
	}
	return out
}

func (s *scriptedMaxIDSource) FetchMaxID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	r := s.responses[i]
	return r.id, r.err
}

func (s *scriptedMaxIDSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memorySink struct {
	mu   sync.Mutex
	name string
	err  error
	docs []models.CanonicalDocument
}

func (s *memorySink) Name() string {
	return s.name
}

func (s *memorySink) Write(_ context.Context, doc models.CanonicalDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memorySink) Close() error {
	return nil
}

func (s *memorySink) ArticleIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.ArticleID)
	}
	return out
}
