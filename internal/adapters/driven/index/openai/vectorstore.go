// Package openai provides a document index adapter backed by the OpenAI
// Files and Vector Stores APIs. The remote service owns chunking and
// embedding; this adapter only moves file content and tracks processing
// status.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
)

// Ensure VectorStoreIndex implements the interface.
var _ driven.DocumentIndex = (*VectorStoreIndex)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 120 * time.Second

	// filePurpose is the upload purpose required for vector store files.
	filePurpose = "assistants"
)

// Config holds configuration for the vector store index.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// VectorStoreID is the id of the target vector store (required).
	VectorStoreID string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s). Uploads carry
	// whole documents, so this is deliberately generous.
	Timeout time.Duration

	// ChunkSizeTokens and ChunkOverlapTokens, when both sensible, are
	// passed through to the service as a static chunking strategy.
	// Zero leaves chunking entirely to the service.
	ChunkSizeTokens    int
	ChunkOverlapTokens int
}

// VectorStoreIndex uploads, lists and deletes files in a single OpenAI
// vector store.
type VectorStoreIndex struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	vectorStoreID string
	chunking      *chunkingStrategy
}

// chunkingStrategy is the static chunking configuration accepted on
// file attach.
type chunkingStrategy struct {
	Type   string `json:"type"`
	Static struct {
		MaxChunkSizeTokens int `json:"max_chunk_size_tokens"`
		ChunkOverlapTokens int `json:"chunk_overlap_tokens"`
	} `json:"static"`
}

// apiError is the error envelope OpenAI returns on failed requests.
type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// fileObject is the Files API response for an uploaded file.
type fileObject struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// vectorStoreFile is a file association within a vector store.
type vectorStoreFile struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error,omitempty"`
}

// vectorStoreFileList is a paginated list of vector store files.
type vectorStoreFileList struct {
	Data    []vectorStoreFile `json:"data"`
	HasMore bool              `json:"has_more"`
	LastID  string            `json:"last_id"`
}

// vectorStoreObject is the vector store itself, carrying the per-status
// file counts the service maintains.
type vectorStoreObject struct {
	ID         string `json:"id"`
	FileCounts struct {
		InProgress int `json:"in_progress"`
		Completed  int `json:"completed"`
		Failed     int `json:"failed"`
		Cancelled  int `json:"cancelled"`
		Total      int `json:"total"`
	} `json:"file_counts"`
}

// NewVectorStoreIndex creates a vector store index adapter.
func NewVectorStoreIndex(cfg Config) (*VectorStoreIndex, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.VectorStoreID == "" {
		return nil, fmt.Errorf("openai: vector store id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var chunking *chunkingStrategy
	if cfg.ChunkSizeTokens > 0 {
		chunking = &chunkingStrategy{Type: "static"}
		chunking.Static.MaxChunkSizeTokens = cfg.ChunkSizeTokens
		chunking.Static.ChunkOverlapTokens = cfg.ChunkOverlapTokens
	}

	return &VectorStoreIndex{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		vectorStoreID: cfg.VectorStoreID,
		chunking:      chunking,
	}, nil
}

// Upload sends the file content to the Files API and attaches the
// resulting file to the vector store. The returned handle usually has a
// non-terminal status; callers poll Status until processing settles.
func (x *VectorStoreIndex) Upload(ctx context.Context, filename string, content []byte) (*domain.RemoteFile, error) {
	file, err := x.uploadFile(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	attached, err := x.attachFile(ctx, file.ID)
	if err != nil {
		// The orphaned file object would otherwise linger and count
		// against storage quota.
		_ = x.deleteFileObject(ctx, file.ID)
		return nil, err
	}

	return &domain.RemoteFile{
		ID:       attached.ID,
		Filename: filename,
		Status:   domain.FileStatus(attached.Status),
	}, nil
}

// Status fetches the current processing status of a vector store file.
func (x *VectorStoreIndex) Status(ctx context.Context, fileID string) (*domain.RemoteFile, error) {
	var vsf vectorStoreFile
	path := fmt.Sprintf("/vector_stores/%s/files/%s", x.vectorStoreID, fileID)
	if err := x.doJSON(ctx, http.MethodGet, path, nil, &vsf); err != nil {
		return nil, err
	}

	rf := &domain.RemoteFile{
		ID:     vsf.ID,
		Status: domain.FileStatus(vsf.Status),
	}
	if vsf.LastError != nil {
		rf.StatusDetail = vsf.LastError.Message
	}
	return rf, nil
}

// Delete detaches the file from the vector store and deletes the
// underlying file object. A file that is already gone counts as deleted;
// a conflict from the remote service is surfaced wrapping
// domain.ErrDeleteConflict so the caller can retry on a later run.
func (x *VectorStoreIndex) Delete(ctx context.Context, fileID string) error {
	path := fmt.Sprintf("/vector_stores/%s/files/%s", x.vectorStoreID, fileID)
	if err := x.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		var se *statusError
		switch {
		case errors.As(err, &se) && se.code == http.StatusNotFound:
			// Already detached. Still try to remove the file object.
		case errors.As(err, &se) && se.code == http.StatusConflict:
			return fmt.Errorf("%w: %s", domain.ErrDeleteConflict, se.message)
		default:
			return err
		}
	}
	return x.deleteFileObject(ctx, fileID)
}

// List returns every file currently attached to the vector store,
// following pagination cursors.
func (x *VectorStoreIndex) List(ctx context.Context) ([]domain.RemoteFile, error) {
	var files []domain.RemoteFile
	after := ""
	for {
		path := fmt.Sprintf("/vector_stores/%s/files?limit=100", x.vectorStoreID)
		if after != "" {
			path += "&after=" + url.QueryEscape(after)
		}

		var page vectorStoreFileList
		if err := x.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		for _, vsf := range page.Data {
			files = append(files, domain.RemoteFile{
				ID:     vsf.ID,
				Status: domain.FileStatus(vsf.Status),
			})
		}
		if !page.HasMore || page.LastID == "" {
			return files, nil
		}
		after = page.LastID
	}
}

// Counts returns the vector store's own per-status file totals.
func (x *VectorStoreIndex) Counts(ctx context.Context) (*domain.FileCounts, error) {
	var vs vectorStoreObject
	if err := x.doJSON(ctx, http.MethodGet, "/vector_stores/"+x.vectorStoreID, nil, &vs); err != nil {
		return nil, err
	}
	return &domain.FileCounts{
		Total:      vs.FileCounts.Total,
		Completed:  vs.FileCounts.Completed,
		InProgress: vs.FileCounts.InProgress,
		Failed:     vs.FileCounts.Failed,
	}, nil
}

// uploadFile sends content to the Files API as a multipart form.
func (x *VectorStoreIndex) uploadFile(ctx context.Context, filename string, content []byte) (*fileObject, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("purpose", filePurpose); err != nil {
		return nil, fmt.Errorf("write purpose field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+"/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+x.apiKey)

	var file fileObject
	if err := x.do(req, &file); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	return &file, nil
}

// attachFile associates an uploaded file with the vector store.
func (x *VectorStoreIndex) attachFile(ctx context.Context, fileID string) (*vectorStoreFile, error) {
	body := map[string]any{"file_id": fileID}
	if x.chunking != nil {
		body["chunking_strategy"] = x.chunking
	}
	var vsf vectorStoreFile
	path := "/vector_stores/" + x.vectorStoreID + "/files"
	if err := x.doJSON(ctx, http.MethodPost, path, body, &vsf); err != nil {
		return nil, fmt.Errorf("attach %s: %w", fileID, err)
	}
	return &vsf, nil
}

// deleteFileObject removes the underlying file object. A missing file is
// not an error.
func (x *VectorStoreIndex) deleteFileObject(ctx context.Context, fileID string) error {
	if err := x.doJSON(ctx, http.MethodDelete, "/files/"+fileID, nil, nil); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

// doJSON performs a JSON request against the API and decodes the
// response into out when out is non-nil.
func (x *VectorStoreIndex) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+x.apiKey)

	return x.do(req, out)
}

// do executes the request, mapping non-2xx responses to statusError with
// the service's error message when one is present.
func (x *VectorStoreIndex) do(req *http.Request, out any) error {
	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(data)
		var envelope apiError
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
			message = envelope.Error.Message
		}
		return &statusError{code: resp.StatusCode, message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError carries the HTTP status of a failed API call.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.code, e.message)
}
