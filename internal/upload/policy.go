package upload

import (
	"path"
	"strings"
)

// MaxSizeBytes is the shared attachment size limit (5 MiB). Both endpoints
// and the client transports enforce the same constant.
const MaxSizeBytes = 5 * 1024 * 1024

// AllowedExtensions is the attachment extension allow-set, lowercase,
// without the leading dot.
var AllowedExtensions = []string{
	"hwp", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"pdf", "jpg", "jpeg", "png", "zip",
}

var allowedExtSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(AllowedExtensions))
	for _, e := range AllowedExtensions {
		m[e] = struct{}{}
	}
	return m
}()

// knownMIMETypes is the strict set used to gate presign requests: a
// declared content type outside this set is rejected before a credential
// is issued.
var knownMIMETypes = map[string]struct{}{
	"application/vnd.hancom.hwp": {},
	"application/msword":         {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"application/zip": {},
}

// lenientMIMETypes extends the known set with values browsers and OSes
// commonly report for the same formats, including the generic binary type
// and the empty string. Used only to decide whether to log a warning on
// the proxied path; never a hard gate there.
var lenientMIMETypes = func() map[string]struct{} {
	m := make(map[string]struct{}, len(knownMIMETypes)+4)
	for k := range knownMIMETypes {
		m[k] = struct{}{}
	}
	m["image/jpg"] = struct{}{}
	m["application/x-zip-compressed"] = struct{}{}
	m["application/octet-stream"] = struct{}{}
	m[""] = struct{}{}
	return m
}()

// RejectReason identifies which validation rule rejected a file.
type RejectReason string

const (
	ReasonEmptyFile    RejectReason = "EMPTY_FILE"
	ReasonTooLarge     RejectReason = "TOO_LARGE"
	ReasonBadExtension RejectReason = "BAD_EXTENSION"
)

// Validation is the outcome of the policy check. MIMEMismatch reports an
// unrecognized content type on an otherwise accepted file; callers on the
// proxied path log it and proceed, because extension is authoritative and
// MIME reporting is unreliable for non-Western filenames and office
// formats.
type Validation struct {
	Accepted     bool
	Reason       RejectReason
	MIMEMismatch bool
}

// Ext returns the lowercase extension of name without the leading dot, or
// "" when the name has none.
func Ext(name string) string {
	e := path.Ext(name)
	if e == "" {
		return ""
	}
	return strings.ToLower(e[1:])
}

// Validate applies the attachment policy. Rules run in fixed precedence:
// empty file, then size limit, then extension allow-set. The first failing
// rule determines the reason. MIME type never rejects here.
//
// Validate is deterministic and has no side effects, so every trust
// boundary (client transport, both server endpoints) re-runs it
// independently.
func Validate(name string, size int64, mimeType string) Validation {
	if size == 0 {
		return Validation{Reason: ReasonEmptyFile}
	}
	if size > MaxSizeBytes {
		return Validation{Reason: ReasonTooLarge}
	}
	if _, ok := allowedExtSet[Ext(name)]; !ok {
		return Validation{Reason: ReasonBadExtension}
	}
	_, known := lenientMIMETypes[mimeType]
	return Validation{Accepted: true, MIMEMismatch: !known}
}

// ValidateFile is Validate over a CandidateFile.
func ValidateFile(f CandidateFile) Validation {
	return Validate(f.Name, f.Size, f.MIMEType)
}

// KnownMIME reports whether mimeType is in the strict allow-set used by the
// presign endpoint before issuing a write credential.
func KnownMIME(mimeType string) bool {
	_, ok := knownMIMETypes[mimeType]
	return ok
}
