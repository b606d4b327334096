package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/CHJCOCO/ryuin/internal/filex"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// ServerTransport posts each file to the API server as a multipart form
// and lets the server write it to storage. Progress reflects bytes of the
// request body sent.
type ServerTransport struct {
	BaseURL string
	Client  *http.Client
}

func NewServerTransport(baseURL string, client *http.Client) *ServerTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &ServerTransport{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formFilePart creates the file part with the candidate's own content type,
// not the multipart default.
func formFilePart(w *multipart.Writer, file upload.CandidateFile) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", contentTypeFor(file))
	return w.CreatePart(h)
}

func contentTypeFor(file upload.CandidateFile) string {
	if file.MIMEType != "" {
		return file.MIMEType
	}
	return filex.MIMEByExtension(file.Name)
}

func (t *ServerTransport) Upload(ctx context.Context, file upload.CandidateFile, progress ProgressFunc) (*upload.Result, error) {
	if v := upload.ValidateFile(file); !v.Accepted {
		return nil, upload.NewValidationError(v)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := formFilePart(mw, file)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	size := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/api/upload",
		newProgressReader(&body, size, progress))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = size

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, &upload.TransportError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError("upload", resp)
	}

	var out struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		FileSize int64  `json:"fileSize"`
		Key      string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	return &upload.Result{
		Success:   true,
		PublicURL: out.URL,
		ObjectKey: out.Key,
		FileName:  out.FileName,
		FileSize:  out.FileSize,
	}, nil
}

// remoteError extracts the server's error message, which is written for
// end users, and wraps it with the HTTP status.
func remoteError(op string, resp *http.Response) error {
	te := &upload.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err == nil && body.Error != "" {
		te.Err = fmt.Errorf("%s", body.Error)
	}
	return te
}
