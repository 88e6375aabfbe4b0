package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// MaxImageSize is the upload ceiling enforced before any network call.
const MaxImageSize = 5 << 20 // 5 MiB

// Upload is the stored-blob handle returned by the storage endpoint.
type Upload struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// Uploader is the object-storage surface consumed by the form pipeline.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*Upload, error)
}

// StorageClient uploads blobs to the storage endpoint.
type StorageClient struct {
	c       *Client
	session SessionProvider
}

func NewStorageClient(c *Client, session SessionProvider) *StorageClient {
	return &StorageClient{c: c, session: session}
}

// Upload sends the blob as a multipart form and returns the stored path plus
// its public retrieval URL.
func (s *StorageClient) Upload(ctx context.Context, filename, contentType string, data []byte) (*Upload, error) {
	session, err := s.session.Current(ctx)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.resolve("/api/v1/storage/upload"), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	res, err := s.c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if !env.Status {
		return nil, &APIError{Message: env.Message}
	}

	var upload Upload
	if err := env.decodeData(&upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
