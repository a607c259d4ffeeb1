package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/mrsinham/accidentwizard/internal/report"
)

const documentsPath = "/api/documents/"

// Client talks to the case backend over HTTP.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	downloadDir string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("docservice: baseURL is required")
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		// The caller's client may be shared; the timeout goes on a copy.
		hc := *cfg.httpClient
		httpClient = &hc
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      cfg.logger,
		downloadDir: cfg.downloadDir,
	}, nil
}

// CreateDocument posts the draft with action "create".
func (c *Client) CreateDocument(ctx context.Context, p report.Payload) (report.Document, error) {
	body, err := createBody(p)
	if err != nil {
		return report.Document{}, fmt.Errorf("create document: encode: %w", err)
	}
	if n := len(p.Draft.Witnesses); n > 0 {
		c.logger.DebugContext(ctx, "sending witnesses", "count", n)
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+documentsPath, "create document", body, "application/json")
	if err != nil {
		return report.Document{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "create document", msgCreate); err != nil {
		return report.Document{}, err
	}

	var doc wireDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return report.Document{}, &Error{operation: "create document", message: msgUnexpected, err: fmt.Errorf("decode response: %w", err)}
	}
	if doc.ID == 0 {
		return report.Document{}, &Error{operation: "create document", message: msgUnexpected, err: errors.New("response has no id")}
	}
	c.logger.InfoContext(ctx, "document created", "document_id", doc.ID)
	return doc.document(), nil
}

// DownloadDocumentFile asks the backend for the PDF of a document and saves it
// into the download directory. Other formats are refused before any request.
func (c *Client) DownloadDocumentFile(ctx context.Context, id int64, format report.Format) error {
	if format != report.FormatPDF {
		return unsupportedFormat("download document")
	}
	body, err := generateBody(id)
	if err != nil {
		return fmt.Errorf("download document: encode: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+documentsPath, "download document", body, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "download document", msgGenerate); err != nil {
		return err
	}

	path, err := saveFile(c.downloadDir, FileName(id, format), resp.Body)
	if err != nil {
		return &Error{operation: "download document", message: msgGenerate, err: err}
	}
	c.logger.InfoContext(ctx, "document saved", "document_id", id, "path", path)
	return nil
}

// Get fetches one document.
func (c *Client) Get(ctx context.Context, id int64) (report.Document, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%s%d", c.baseURL, documentsPath, id), "get document", nil, "application/json")
	if err != nil {
		return report.Document{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "get document", msgNotFound); err != nil {
		return report.Document{}, err
	}
	var doc wireDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return report.Document{}, fmt.Errorf("get document: decode response: %w", err)
	}
	return doc.document(), nil
}

// List fetches every document known to the backend.
func (c *Client) List(ctx context.Context) ([]report.Document, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+documentsPath+"?action="+actionList, "list documents", nil, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "list documents", msgUnexpected); err != nil {
		return nil, err
	}
	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list documents: decode response: %w", err)
	}
	out := make([]report.Document, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, item.document())
	}
	return out, nil
}

// DownloadDir returns the directory downloads are written to.
func (c *Client) DownloadDir() string {
	return c.downloadDir
}

func (c *Client) do(ctx context.Context, method, url, operation string, body []byte, accept string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)

	c.logger.InfoContext(ctx, "API request", "operation", operation, "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", operation, ctxErr)
		}
		return nil, &Error{operation: operation, message: msgConnect, err: err}
	}

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)
	return resp, nil
}

func checkStatus(resp *http.Response, operation, prefix string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return statusError(operation, prefix, resp.StatusCode, errorDetails(body))
}

// errorDetails extracts a readable explanation from an error response: a JSON
// string, an array of strings, an object's "detail", the object's string values,
// or the raw text.
func errorDetails(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return text
	}
	switch v := parsed.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if s := joinStrings(v); s != "" {
			return s
		}
	case map[string]any:
		if d, ok := v["detail"].(string); ok && strings.TrimSpace(d) != "" {
			return strings.TrimSpace(d)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]any, 0, len(keys))
		for _, k := range keys {
			values = append(values, v[k])
		}
		if s := joinStrings(values); s != "" {
			return s
		}
	}
	return text
}

func joinStrings(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
