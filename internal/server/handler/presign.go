package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CHJCOCO/ryuin/internal/server/storage"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

type presignRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	// Pointer distinguishes an absent size from a legitimate zero, which
	// the policy must see to reject as an empty file.
	FileSize *int64 `json:"fileSize"`
}

type presignResponse struct {
	Success      bool   `json:"success"`
	PresignedURL string `json:"presignedUrl"`
	FileURL      string `json:"fileUrl"`
	Key          string `json:"key"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Presign is Phase A of the presigned-URL transport: it validates the
// declared file metadata, then issues a time-boxed write credential scoped
// to a fresh object key and the declared content type. No data flows
// through this endpoint.
//
// Unlike the proxied path, an unknown MIME type is rejected here: the
// declared type is baked into the credential, so handing one out for a
// type we do not recognize would undermine the credential's integrity
// guarantee.
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "file information is invalid")
		return
	}
	if req.FileName == "" || req.FileType == "" || req.FileSize == nil {
		writeError(w, http.StatusBadRequest, "file information is invalid")
		return
	}

	v := upload.Validate(req.FileName, *req.FileSize, req.FileType)
	if !v.Accepted {
		h.countUpload("presign", "validation")
		writeError(w, http.StatusBadRequest, upload.NewValidationError(v).Error())
		return
	}
	if !upload.KnownMIME(req.FileType) {
		h.countUpload("presign", "validation")
		writeError(w, http.StatusBadRequest, "file content type is not valid")
		return
	}

	if h.store == nil {
		h.countUpload("presign", "config")
		h.log.Error(ctx, "presign rejected: storage not configured", "file", req.FileName)
		writeError(w, http.StatusInternalServerError, configErrorMessage)
		return
	}

	key := h.store.NewKey(req.FileName)
	putURL, err := h.store.PresignPut(ctx, key, req.FileType, req.FileName, *req.FileSize)
	if err != nil {
		h.countUpload("presign", "storage")
		h.log.Error(ctx, "presign failed", "file", req.FileName, "key", key, "error", err)

		var se *storage.Error
		if errors.As(err, &se) {
			writeError(w, http.StatusInternalServerError, se.UserMessage())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not create upload credential")
		return
	}

	h.countUpload("presign", "success")
	h.log.Info(ctx, "presigned url issued", "file", req.FileName, "key", key)

	writeJSON(w, http.StatusOK, presignResponse{
		Success:      true,
		PresignedURL: putURL,
		FileURL:      h.store.PublicURL(key),
		Key:          key,
		ExpiresIn:    int(h.store.PresignExpiry().Seconds()),
	})
}
