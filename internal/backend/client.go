package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/leapstack-labs/leaptable/internal/table"
)

// Client is the async request contract the core consumes.
type Client interface {
	UploadDocument(ctx context.Context, filename string, r io.Reader) (table.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	RunQuery(ctx context.Context, req QueryRequest) (QueryResponse, error)
	ExportTriples(ctx context.Context, payload any) ([]byte, error)
}

// HTTPClient talks to the extraction service over its JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout bounds each request; zero means no timeout.
	Timeout time.Duration
	// Logger receives request logs; nil discards.
	Logger *slog.Logger
}

// NewHTTPClient creates a client for the extraction service.
func NewHTTPClient(cfg Config) *HTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// UploadDocument posts a file as multipart form data and returns the
// document metadata the service extracted.
func (c *HTTPClient) UploadDocument(ctx context.Context, filename string, r io.Reader) (table.Document, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return table.Document{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return table.Document{}, fmt.Errorf("copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return table.Document{}, fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/document", &body)
	if err != nil {
		return table.Document{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc table.Document
	if err := c.do(req, &doc); err != nil {
		return table.Document{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	c.logger.Debug("document uploaded", "document", doc.ID, "name", doc.Name, "pages", doc.PageCount)
	return doc, nil
}

// DeleteDocument removes a document from the service. Fire-and-forget from
// the store's perspective; the error is for the caller's log.
func (c *HTTPClient) DeleteDocument(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/document/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// RunQuery executes one extraction query.
func (c *HTTPClient) RunQuery(ctx context.Context, qr QueryRequest) (QueryResponse, error) {
	payload, err := json.Marshal(qr)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("marshal query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/query", bytes.NewReader(payload))
	if err != nil {
		return QueryResponse{}, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp QueryResponse
	if err := c.do(req, &resp); err != nil {
		return QueryResponse{}, fmt.Errorf("run query for column %s: %w", qr.Prompt.ID, err)
	}
	return resp, nil
}

// ExportTriples posts the deep-stringified table data and returns the
// exported blob.
func (c *HTTPClient) ExportTriples(ctx context.Context, payload any) ([]byte, error) {
	body, err := json.Marshal(StringifyDeep(payload))
	if err != nil {
		return nil, fmt.Errorf("marshal export payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/graph/export-triples", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export triples: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("export triples: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// do runs the request and decodes a JSON response into out when non-nil.
// Responses that fail to match the expected shape are rejected here, at the
// boundary; the core never sees a malformed value.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
