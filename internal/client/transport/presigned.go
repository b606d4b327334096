package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CHJCOCO/ryuin/internal/netx"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// PresignedTransport uploads in two phases: it asks the API server for a
// presigned URL, then writes the bytes straight to object storage. The
// file bytes never pass through the server. Every attempt requests a fresh
// URL; descriptors are never reused across attempts.
type PresignedTransport struct {
	BaseURL string
	Client  *http.Client

	nowFunc func() time.Time
}

func NewPresignedTransport(baseURL string, client *http.Client) *PresignedTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &PresignedTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		nowFunc: time.Now,
	}
}

// descriptor is the short-lived grant issued by the server for one object.
type descriptor struct {
	PresignedURL string `json:"presignedUrl"`
	FileURL      string `json:"fileUrl"`
	Key          string `json:"key"`
	ExpiresIn    int    `json:"expiresIn"`

	contentType string
	expiresAt   time.Time
}

func (t *PresignedTransport) requestDescriptor(ctx context.Context, file upload.CandidateFile) (*descriptor, error) {
	ct := contentTypeFor(file)
	payload, err := json.Marshal(map[string]any{
		"fileName": file.Name,
		"fileType": ct,
		"fileSize": file.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding presign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/api/presigned-url", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building presign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, &upload.TransportError{Op: "presign", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError("presign", resp)
	}

	var d descriptor
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding presign response: %w", err)
	}
	d.contentType = ct
	d.expiresAt = t.nowFunc().Add(time.Duration(d.ExpiresIn) * time.Second)
	return &d, nil
}

func (t *PresignedTransport) Upload(ctx context.Context, file upload.CandidateFile, progress ProgressFunc) (*upload.Result, error) {
	if v := upload.ValidateFile(file); !v.Accepted {
		return nil, upload.NewValidationError(v)
	}

	d, err := t.requestDescriptor(ctx, file)
	if err != nil {
		return nil, err
	}

	// Phases normally run back to back; an expired grant means the
	// process stalled and the whole attempt must start over.
	if !t.nowFunc().Before(d.expiresAt) {
		return nil, &upload.TransportError{Op: "storage put", Err: fmt.Errorf("upload grant expired, retry the upload")}
	}

	body := newProgressReader(bytes.NewReader(file.Data), file.Size, progress)
	if err := netx.PutPresigned(ctx, t.Client, d.PresignedURL, d.contentType, body, file.Size); err != nil {
		return nil, err
	}

	return &upload.Result{
		Success:   true,
		PublicURL: d.FileURL,
		ObjectKey: d.Key,
		FileName:  file.Name,
		FileSize:  file.Size,
	}, nil
}
