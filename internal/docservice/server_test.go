package docservice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

func newServer(t *testing.T) (*docservice.Memory, *httptest.Server) {
	t.Helper()
	mem, err := docservice.NewMemory(docservice.WithDownloadDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	srv := httptest.NewServer(docservice.NewServer(mem, nil))
	t.Cleanup(srv.Close)
	return mem, srv
}

func TestServer_Health(t *testing.T) {
	_, srv := newServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/health/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", resp.StatusCode, body)
	}
}

func TestServer_ErrorResponses(t *testing.T) {
	mem, srv := newServer(t)
	draft := report.SampleDraft(0, nil)
	if _, err := mem.CreateDocument(context.Background(), report.Payload{Draft: draft}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{"unknown action", http.MethodPost, "/api/documents/", `{"action":"delete"}`, http.StatusBadRequest, `Nieznana akcja: "delete"`},
		{"malformed body", http.MethodPost, "/api/documents/", `{`, http.StatusBadRequest, "Invalid document data"},
		{"bad id", http.MethodGet, "/api/documents/abc", "", http.StatusBadRequest, "Nieprawidłowy identyfikator zgłoszenia."},
		{"unknown id", http.MethodGet, "/api/documents/99", "", http.StatusNotFound, "Nie znaleziono zgłoszenia."},
		{"pdf of unknown id", http.MethodPost, "/api/documents/", `{"action":"generate-pdf","id":99}`, http.StatusNotFound, "Nie znaleziono zgłoszenia."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["detail"] != tt.wantDetail {
				t.Errorf("detail = %q, want %q", body["detail"], tt.wantDetail)
			}
		})
	}
}

func TestServer_DetailAction(t *testing.T) {
	mem, srv := newServer(t)
	draft := report.SampleDraft(1, nil)
	if _, err := mem.CreateDocument(context.Background(), report.Payload{Draft: draft}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	resp, err := srv.Client().Get(srv.URL + "/api/documents/?action=detail&id=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != float64(1) || body[report.FieldPESEL] != draft.Fields[report.FieldPESEL] {
		t.Errorf("detail = %v", body)
	}
	if ws, _ := body["witnesses"].([]any); len(ws) != 1 {
		t.Errorf("witnesses = %v, want one", body["witnesses"])
	}
}

// The wizard engine runs end to end against the HTTP backend.
func TestServer_EngineSubmitAndDownload(t *testing.T) {
	_, srv := newServer(t)
	dir := t.TempDir()
	client, err := docservice.NewClient(srv.URL, docservice.WithHTTPClient(srv.Client()), docservice.WithDownloadDir(dir))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	e := engine.New(client, engine.WithRequireMedicalDocuments(false))
	t.Cleanup(func() { _ = e.Close() })
	e.LoadDraft(report.SampleDraft(2, nil))

	ctx := context.Background()
	if err := e.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	status := e.Status()
	if status.State != engine.SubmitSuccess || !status.HasDocument || status.DocumentID != 1 {
		t.Fatalf("status = %+v", status)
	}

	if err := e.Download(ctx, report.FormatPDF); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "zgloszenie-1.pdf")); err != nil {
		t.Errorf("downloaded file: %v", err)
	}

	if err := e.Download(ctx, report.FormatDOCX); err == nil {
		t.Fatal("DOCX download succeeded")
	}
	if got, want := e.Status().DownloadError, "Obsługujemy obecnie tylko pobieranie plików PDF."; got != want {
		t.Errorf("DownloadError = %q, want %q", got, want)
	}
}
