// Package filex turns local files into upload candidates and provides the
// small file-related helpers the CLI shows to users.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// mimeByExtension mirrors what browsers report for the attachment types the
// pipeline accepts. Unknown extensions fall back to octet-stream; the policy
// treats the MIME type as advisory anyway.
var mimeByExtension = map[string]string{
	"hwp":  "application/vnd.hancom.hwp",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"zip":  "application/zip",
}

// MIMEByExtension guesses a content type from the file name extension.
func MIMEByExtension(name string) string {
	if mt, ok := mimeByExtension[upload.Ext(name)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// ReadCandidate loads a local file into a CandidateFile. The declared size
// always equals len(Data).
func ReadCandidate(path string) (upload.CandidateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return upload.CandidateFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return upload.CandidateFile{
		Name:     name,
		Size:     int64(len(data)),
		MIMEType: MIMEByExtension(name),
		Data:     data,
	}, nil
}

// FormatFileSize renders a byte count for display, e.g. "976.56 KB".
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	v := float64(size)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", size, units[0])
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}

// IsImageFile reports whether the name carries an image extension.
func IsImageFile(name string) bool {
	switch upload.Ext(name) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
