package handler

import (
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/CHJCOCO/ryuin/internal/server/storage"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// maxUploadBody bounds the multipart request body: the 5 MiB policy limit
// plus headroom for the multipart framing.
const maxUploadBody = upload.MaxSizeBytes + 1<<20

var hangulRe = regexp.MustCompile(`[가-힣]`)

type uploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Key      string `json:"key"`
}

// Upload is the server-proxied transport endpoint: it receives the whole
// file as multipart/form-data, re-validates it regardless of what the
// client already checked, and writes it to object storage under a fresh
// key.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file was selected")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	name := header.Filename
	mimeType := header.Header.Get("Content-Type")
	size := int64(len(data))

	h.log.Info(ctx, "upload attempt",
		"file", name,
		"hangul", hangulRe.MatchString(name),
		"size", size,
		"mime", mimeType,
	)

	// The client is untrusted; the policy runs here no matter what.
	v := upload.Validate(name, size, mimeType)
	if !v.Accepted {
		h.countUpload("proxied", "validation")
		writeError(w, http.StatusBadRequest, upload.NewValidationError(v).Error())
		return
	}
	if v.MIMEMismatch {
		// Extension is authoritative; an unknown MIME type is only worth
		// a warning because browsers report these inconsistently.
		h.log.Warn(ctx, "mime type does not match accepted extension", "file", name, "mime", mimeType)
	}

	if h.store == nil {
		h.countUpload("proxied", "config")
		h.log.Error(ctx, "upload rejected: storage not configured", "file", name)
		writeError(w, http.StatusInternalServerError, configErrorMessage)
		return
	}

	key := h.store.NewKey(name)
	f := upload.CandidateFile{Name: name, Size: size, MIMEType: mimeType, Data: data}
	if err := h.store.Put(ctx, f, key); err != nil {
		h.countUpload("proxied", "storage")
		h.log.Error(ctx, "storage put failed", "file", name, "key", key, "error", err)

		var se *storage.Error
		if errors.As(err, &se) {
			writeError(w, http.StatusInternalServerError, se.UserMessage())
			return
		}
		writeError(w, http.StatusInternalServerError, "file upload failed")
		return
	}

	h.countUpload("proxied", "success")
	if h.metrics != nil {
		h.metrics.UploadBytes.Add(float64(size))
	}
	h.log.Info(ctx, "upload stored", "file", name, "key", key)

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		URL:      h.store.PublicURL(key),
		FileName: name,
		FileSize: size,
		Key:      key,
	})
}
