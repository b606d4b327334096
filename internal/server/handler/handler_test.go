package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/CHJCOCO/ryuin/internal/logging"
	"github.com/CHJCOCO/ryuin/internal/server/notify"
	"github.com/CHJCOCO/ryuin/internal/server/storage"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// fakeStore records calls and fabricates keys the way the real store
// does, one fresh key per attempt.
type fakeStore struct {
	seq        int
	putErr     error
	presignErr error

	putKeys     []string
	putFiles    []upload.CandidateFile
	presignKeys []string
}

func (f *fakeStore) NewKey(fileName string) string {
	f.seq++
	return fmt.Sprintf("contact-files/%08d_%s", f.seq, storage.SanitizeName(fileName))
}

func (f *fakeStore) PresignExpiry() time.Duration { return 5 * time.Minute }

func (f *fakeStore) PublicURL(key string) string {
	return "https://ryuin-contact.s3.ap-northeast-2.amazonaws.com/" + key
}

func (f *fakeStore) Put(ctx context.Context, file upload.CandidateFile, key string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	f.putFiles = append(f.putFiles, file)
	return nil
}

func (f *fakeStore) PresignPut(ctx context.Context, key, contentType, fileName string, size int64) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presignKeys = append(f.presignKeys, key)
	return "https://bucket.example/put/" + key, nil
}

type fakeNotifier struct {
	complete bool
	err      error

	gotInq notify.Inquiry
	gotIP  string
}

func (f *fakeNotifier) Complete() bool { return f.complete }

func (f *fakeNotifier) Send(ctx context.Context, inq notify.Inquiry, clientIP string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gotInq = inq
	f.gotIP = clientIP
	return "msg-1", nil
}

func newTestHandler(store ObjectStore, n Notifier) *Handler {
	return New(Options{
		Store:    store,
		Notifier: n,
		Logger:   logging.NewJSON(io.Discard),
	})
}

// multipartBody builds a multipart request body with a single "file"
// field carrying the given content type.
func multipartBody(fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName)}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, _ := mw.CreatePart(h)
	_, _ = part.Write(data)
	_ = mw.Close()

	return &buf, mw.FormDataContentType()
}

func doUpload(h *Handler, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	body, ct := multipartBody(fileName, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	return rr
}
