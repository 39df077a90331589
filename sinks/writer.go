package sinks

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/alena0604/data-techniques/models"
)

// WriterSink writes one JSON document per line.
type WriterSink struct {
	name string
	enc  *json.Encoder
}

func NewWriterSink(name string, w io.Writer) *WriterSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &WriterSink{name: name, enc: enc}
}

func NewStdoutSink() *WriterSink {
	return NewWriterSink("stdout", os.Stdout)
}

func (s *WriterSink) Name() string {
	return s.name
}

func (s *WriterSink) Write(_ context.Context, doc models.CanonicalDocument) error {
	return s.enc.Encode(doc)
}

func (s *WriterSink) Close() error {
	return nil
}
