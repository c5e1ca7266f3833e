package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hfscanner/internal/aggregate"
)

// Document is the JSON report written by JSONSink.
type Document struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	*aggregate.Report
}

// JSONSink writes the whole report as one indented JSON document. Every Write
// replaces the file and gets a fresh run ID.
type JSONSink struct {
	path string
	now  func() time.Time
}

func NewJSONSink(path string) (*JSONSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return nil, fmt.Errorf("cannot infer output format from file extension %q", ext)
	}
	return &JSONSink{path: path, now: time.Now}, nil
}

func (s *JSONSink) Path() string { return s.path }

func (s *JSONSink) Write(v any) error {
	r, ok := v.(*aggregate.Report)
	if !ok || r == nil {
		return nil
	}
	doc := Document{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Report:      r,
	}
	return writeFile(s.path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	})
}

func (s *JSONSink) Close() error {
	return nil
}
