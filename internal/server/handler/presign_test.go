package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CHJCOCO/ryuin/internal/server/storage"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

func doPresign(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/presigned-url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Presign(rr, req)
	return rr
}

func TestPresign_Success(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store, nil)

	rr := doPresign(h, `{"fileName":"plan.docx","fileType":"application/vnd.openxmlformats-officedocument.wordprocessingml.document","fileSize":1000000}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp presignResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 300, resp.ExpiresIn)
	assert.True(t, strings.HasPrefix(resp.Key, "contact-files/"))
	assert.Contains(t, resp.PresignedURL, resp.Key)
	assert.Equal(t, store.PublicURL(resp.Key), resp.FileURL)
}

func TestPresign_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"non-numeric size", `{"fileName":"a.pdf","fileType":"application/pdf","fileSize":"big"}`},
		{"missing name", `{"fileType":"application/pdf","fileSize":10}`},
		{"missing type", `{"fileName":"a.pdf","fileSize":10}`},
		{"missing size", `{"fileName":"a.pdf","fileType":"application/pdf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			h := newTestHandler(store, nil)

			rr := doPresign(h, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "file information is invalid")
			assert.Empty(t, store.presignKeys, "no credential may be issued for a bad request")
		})
	}
}

func TestPresign_PolicyRejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"zero size", `{"fileName":"a.pdf","fileType":"application/pdf","fileSize":0}`, "empty"},
		{"oversize", `{"fileName":"a.pdf","fileType":"application/pdf","fileSize":5242881}`, "5MB"},
		{"bad extension", `{"fileName":"a.exe","fileType":"application/pdf","fileSize":10}`, "not allowed"},
		{"unknown mime is a hard gate here", `{"fileName":"a.pdf","fileType":"application/octet-stream","fileSize":10}`, "content type is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			h := newTestHandler(store, nil)

			rr := doPresign(h, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantMsg)
			assert.Empty(t, store.presignKeys)
		})
	}
}

func TestPresign_StorageNotConfigured(t *testing.T) {
	h := newTestHandler(nil, nil)

	rr := doPresign(h, `{"fileName":"a.pdf","fileType":"application/pdf","fileSize":10}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "server configuration error")
}

func TestPresign_StorageError(t *testing.T) {
	store := &fakeStore{presignErr: &storage.Error{Code: storage.ErrInvalidBucketName, Err: errors.New("detail")}}
	h := newTestHandler(store, nil)

	rr := doPresign(h, `{"fileName":"a.pdf","fileType":"application/pdf","fileSize":10}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "bucket name is invalid")
	assert.NotContains(t, rr.Body.String(), "detail")
}

func TestPresign_FreshDescriptorPerRequest(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store, nil)

	body := `{"fileName":"plan.pdf","fileType":"application/pdf","fileSize":10}`
	r1 := doPresign(h, body)
	r2 := doPresign(h, body)
	require.Equal(t, http.StatusOK, r1.Code)
	require.Equal(t, http.StatusOK, r2.Code)

	var a, b presignResponse
	require.NoError(t, json.Unmarshal(r1.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(r2.Body.Bytes(), &b))
	assert.NotEqual(t, a.Key, b.Key, "descriptors are never shared across attempts")
	assert.NotEqual(t, a.PresignedURL, b.PresignedURL)
}

func TestPresign_KeyContainsSanitizedName(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(store, nil)

	rr := doPresign(h, `{"fileName":"사업 계획.pdf","fileType":"application/pdf","fileSize":10}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp presignResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Key, upload.Ext("사업 계획.pdf"))
	assert.Contains(t, resp.Key, "사업_계획.pdf")
}
