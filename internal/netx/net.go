// Package netx contains the raw HTTP leg of a presigned upload: a PUT of
// the file bytes straight to object storage, outside the API server.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// PutPresigned streams body to a presigned URL. The Content-Type must match
// the one the URL was signed for or storage rejects the request. A non-2xx
// answer is reported as a TransportError carrying the status code; a network
// failure is reported with status code 0.
func PutPresigned(ctx context.Context, client *http.Client, url, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("building storage request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &upload.TransportError{Op: "storage put", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &upload.TransportError{
			Op:         "storage put",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("%s", string(b)),
		}
	}
	return nil
}
