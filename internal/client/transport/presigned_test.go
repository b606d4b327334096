package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// presignTestServer serves both the API and a fake storage endpoint so the
// PUT leg can be observed.
func presignTestServer(t *testing.T) (*httptest.Server, *presignRecorder) {
	t.Helper()
	rec := &presignRecorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/presigned-url", func(w http.ResponseWriter, r *http.Request) {
		rec.presignCalls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec.lastRequest))
		key := fmt.Sprintf("contact-files/%d_%s", rec.presignCalls, rec.lastRequest.FileName)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"presignedUrl":"%s/storage/%d","fileUrl":"https://b.example/%s","key":"%s","expiresIn":300}`,
			rec.baseURL, rec.presignCalls, key, key)
	})
	mux.HandleFunc("/storage/", func(w http.ResponseWriter, r *http.Request) {
		rec.putCalls++
		rec.putContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		rec.putBytes = len(b)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	rec.baseURL = srv.URL
	t.Cleanup(srv.Close)
	return srv, rec
}

type presignRecorder struct {
	baseURL      string
	presignCalls int
	lastRequest  struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
		FileSize int64  `json:"fileSize"`
	}
	putCalls       int
	putContentType string
	putBytes       int
}

func TestPresignedTransport_Upload(t *testing.T) {
	srv, rec := presignTestServer(t)
	tr := NewPresignedTransport(srv.URL, srv.Client())

	var reported []int
	res, err := tr.Upload(context.Background(), pdfFile("제안서.pdf", 4096), func(p int) {
		reported = append(reported, p)
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "제안서.pdf", rec.lastRequest.FileName)
	assert.Equal(t, "application/pdf", rec.lastRequest.FileType)
	assert.Equal(t, int64(4096), rec.lastRequest.FileSize)

	assert.Equal(t, 1, rec.putCalls)
	assert.Equal(t, "application/pdf", rec.putContentType, "the PUT must use the content type the URL was signed for")
	assert.Equal(t, 4096, rec.putBytes)

	assert.Contains(t, res.PublicURL, "제안서.pdf")
	assert.Equal(t, res.FileSize, int64(4096))
	require.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1])
}

func TestPresignedTransport_FreshGrantPerAttempt(t *testing.T) {
	srv, rec := presignTestServer(t)
	tr := NewPresignedTransport(srv.URL, srv.Client())

	first, err := tr.Upload(context.Background(), pdfFile("a.pdf", 64), nil)
	require.NoError(t, err)
	second, err := tr.Upload(context.Background(), pdfFile("a.pdf", 64), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.presignCalls)
	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
}

func TestPresignedTransport_ServerRejectsGrantRequest(t *testing.T) {
	puts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/presigned-url", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"error":"file content type is not valid"}`)
	})
	mux.HandleFunc("/storage/", func(w http.ResponseWriter, r *http.Request) { puts++ })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr := NewPresignedTransport(srv.URL, srv.Client())

	_, err := tr.Upload(context.Background(), pdfFile("a.pdf", 64), nil)

	var te *upload.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Contains(t, te.Error(), "file content type is not valid")
	assert.Zero(t, puts, "no storage write without a grant")
}

func TestPresignedTransport_ExpiredGrant(t *testing.T) {
	srv, rec := presignTestServer(t)
	tr := NewPresignedTransport(srv.URL, srv.Client())

	base := time.Now()
	calls := 0
	tr.nowFunc = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(10 * time.Minute)
	}

	_, err := tr.Upload(context.Background(), pdfFile("a.pdf", 64), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	assert.Zero(t, rec.putCalls)
}

func TestPresignedTransport_RejectsLocallyBeforeAnyRequest(t *testing.T) {
	srv, rec := presignTestServer(t)
	tr := NewPresignedTransport(srv.URL, srv.Client())

	big := make([]byte, upload.MaxSizeBytes+1)
	_, err := tr.Upload(context.Background(), upload.CandidateFile{
		Name: "big.pdf", Size: int64(len(big)), MIMEType: "application/pdf", Data: big,
	}, nil)

	var ve *upload.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, upload.ReasonTooLarge, ve.Reason)
	assert.Zero(t, rec.presignCalls)
}
