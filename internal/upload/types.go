// Package upload defines the shared contract of the contact-attachment
// upload pipeline: the candidate file model, the validation policy applied
// on every trust boundary, and the error taxonomy used by transports,
// handlers and the orchestrator.
package upload

// CandidateFile is a file selected for upload, not yet validated or
// transferred. The pipeline only references it for the duration of an
// attempt; it never mutates Name, Size or MIMEType.
type CandidateFile struct {
	// Name is the original file name and may contain non-ASCII characters.
	Name string
	// Size is the declared byte size. For client-side uploads it must
	// equal len(Data).
	Size int64
	// MIMEType is the browser/OS reported content type. It is advisory
	// and may be empty or wrong.
	MIMEType string
	// Data holds the raw bytes on the client side. Server-side validation
	// of presign requests runs on metadata only and leaves Data nil.
	Data []byte
}

// Result is the outcome of one upload attempt, one per candidate file.
type Result struct {
	Success   bool   `json:"success"`
	PublicURL string `json:"url,omitempty"`
	ObjectKey string `json:"key,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Status is the lifecycle state of a file inside an orchestrated batch.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusGeneratingURL Status = "generating-url"
	StatusUploading     Status = "uploading"
	StatusSuccess       Status = "success"
	StatusError         Status = "error"
)

// FileState tracks one candidate file inside a batch submission. Once the
// batch starts, state changes are append-only until a terminal status.
type FileState struct {
	File     CandidateFile
	Status   Status
	Progress int
	Result   *Result
}
