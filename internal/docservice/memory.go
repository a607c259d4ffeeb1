// Package docservice provides the document services the wizard submits to: an
// in-memory implementation, an HTTP client for the case backend and a mock
// backend server built on the in-memory store.
package docservice

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

// Memory is an in-process document service. Ids increase monotonically from 1.
type Memory struct {
	log         *slog.Logger
	renderer    Renderer
	downloadDir string
	now         func() time.Time

	mu     sync.RWMutex
	nextID int64
	docs   map[int64]report.Document
}

// NewMemory returns an empty in-memory service.
func NewMemory(opts ...Option) (*Memory, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Memory{
		log:         cfg.logger,
		renderer:    cfg.renderer,
		downloadDir: cfg.downloadDir,
		now:         cfg.now,
		docs:        make(map[int64]report.Document),
	}, nil
}

// CreateDocument stores the submitted draft. Fields failing their rules are
// rejected with ErrInvalidDocument, as the backend's own validation would.
func (m *Memory) CreateDocument(ctx context.Context, p report.Payload) (report.Document, error) {
	if err := ctx.Err(); err != nil {
		return report.Document{}, err
	}

	var invalid []string
	for _, f := range report.FieldNames {
		if err := validate.Field(f, p.Draft.Fields[f]); err != nil {
			invalid = append(invalid, f)
		}
	}
	if len(invalid) > 0 {
		m.log.Warn("rejecting document", "fields", invalid)
		return report.Document{}, invalidDocument(invalid)
	}

	m.mu.Lock()
	m.nextID++
	doc := report.Document{
		ID:          m.nextID,
		CreatedAt:   m.now(),
		Draft:       p.Draft.Clone(),
		Attachments: append([]report.AttachmentRef(nil), p.Attachments...),
	}
	m.docs[doc.ID] = doc
	m.mu.Unlock()

	m.log.Info("document stored", "document_id", doc.ID, "witnesses", len(doc.Draft.Witnesses))
	return cloneDocument(doc), nil
}

// Get returns a stored document.
func (m *Memory) Get(id int64) (report.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return report.Document{}, notFound("get document", id)
	}
	return cloneDocument(doc), nil
}

// List returns every stored document ordered by id.
func (m *Memory) List() []report.Document {
	m.mu.RLock()
	out := make([]report.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, cloneDocument(doc))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Render writes the rendering of a stored document.
func (m *Memory) Render(ctx context.Context, id int64, format report.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := m.renderer.Render(&buf, doc, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadDocumentFile renders a document into the download directory as
// zgloszenie-<id>.<format>.
func (m *Memory) DownloadDocumentFile(ctx context.Context, id int64, format report.Format) error {
	data, err := m.Render(ctx, id, format)
	if err != nil {
		return err
	}
	path, err := saveFile(m.downloadDir, FileName(id, format), bytes.NewReader(data))
	if err != nil {
		return &Error{operation: "save document", message: msgGenerate, err: err}
	}
	m.log.Info("document saved", "document_id", id, "path", path)
	return nil
}

// DownloadDir returns the directory downloads are written to.
func (m *Memory) DownloadDir() string {
	return m.downloadDir
}

func cloneDocument(d report.Document) report.Document {
	d.Draft = d.Draft.Clone()
	d.Attachments = append([]report.AttachmentRef(nil), d.Attachments...)
	return d
}
