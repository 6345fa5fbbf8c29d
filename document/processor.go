// Package document handles uploaded prescription documents: upload
// validation and text extraction. PDF and image extraction is delegated
// to an external document-text collaborator; plain text is decoded
// inline. A failed extraction is fatal to the document workflow only.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
)

// ServiceDocumentText is the availability bookkeeping name of the
// document-text collaborator.
const ServiceDocumentText = "document_text"

// MaxFileSize is the upload limit (10MB).
const MaxFileSize = 10 * 1024 * 1024

const extractTimeout = 30 * time.Second

// allowedTypes maps the accepted MIME types. Plain text is decoded
// locally; everything else goes through the collaborator.
var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/tiff":      true,
	"image/bmp":       true,
	"text/plain":      true,
}

// extensionTypes resolves a MIME type from the file name when the
// upload carries none.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".txt":  "text/plain",
}

// ResolveType returns the effective MIME type of an upload, falling back
// to the file extension when the header carries none.
func ResolveType(header *multipart.FileHeader) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	name := strings.ToLower(header.Filename)
	for ext, mimeType := range extensionTypes {
		if strings.HasSuffix(name, ext) {
			return mimeType
		}
	}
	return ""
}

// Sentinel errors for upload validation failures.
var (
	ErrFileTooLarge    = errors.New("file size too large, maximum size is 10MB")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Validate rejects oversize and unsupported uploads with a
// human-readable reason.
func Validate(mimeType string, size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if mimeType == "" {
		return fmt.Errorf("%w: unable to determine file type", ErrUnsupportedType)
	}
	if !allowedTypes[strings.ToLower(mimeType)] {
		return fmt.Errorf("%w: %s, supported types: PDF, JPEG, PNG, TIFF, BMP, plain text", ErrUnsupportedType, mimeType)
	}
	return nil
}

// FileInfoFor builds the upload metadata echoed back to the caller.
func FileInfoFor(name, mimeType string, size int64) entities.FileInfo {
	sizeMB := 0.0
	if size > 0 {
		sizeMB = math.Round(float64(size)/(1024*1024)*100) / 100
	}
	return entities.FileInfo{
		Name:   name,
		Type:   mimeType,
		Size:   size,
		SizeMB: sizeMB,
	}
}

// Processor extracts analyzable text from validated uploads.
type Processor struct {
	remote interfaces.DocumentExtractor
}

// NewProcessor creates a processor. remote may be nil, in which case
// only plain-text uploads can be processed.
func NewProcessor(remote interfaces.DocumentExtractor) *Processor {
	return &Processor{remote: remote}
}

// ExtractText returns the document's text. Plain text is decoded inline;
// PDFs and images are forwarded to the collaborator.
func (p *Processor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if strings.HasPrefix(strings.ToLower(mimeType), "text/plain") {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("document is not valid UTF-8 text")
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("no text could be extracted from the document")
		}
		return text, nil
	}

	if p.remote == nil {
		return "", fmt.Errorf("no document extraction service configured for %s", mimeType)
	}

	text, err := p.remote.ExtractText(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from the document")
	}
	return strings.TrimSpace(text), nil
}

// RemoteExtractor posts document bytes to the configured extraction
// service and decodes the returned text. It implements
// interfaces.DocumentExtractor.
type RemoteExtractor struct {
	client *http.Client
	url    string
	store  interfaces.DrugStore
}

var _ interfaces.DocumentExtractor = (*RemoteExtractor)(nil)

// NewRemoteExtractor creates an extraction client for the given service
// URL. store may be nil.
func NewRemoteExtractor(url string, store interfaces.DrugStore) *RemoteExtractor {
	return &RemoteExtractor{
		client: &http.Client{Timeout: extractTimeout},
		url:    url,
		store:  store,
	}
}

// ExtractText sends the raw document to the collaborator and returns the
// extracted text.
func (r *RemoteExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if r.url == "" {
		return "", fmt.Errorf("document extraction endpoint not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction call returned status %d", resp.StatusCode)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode extraction response: %w", err)
	}
	return payload.Text, nil
}
