// Package contact implements the inquiry submission flow: validate the
// form, upload the attachments, then deliver the inquiry with the public
// URLs of whatever was stored. Only one submission runs at a time.
package contact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/CHJCOCO/ryuin/internal/client/uploader"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// ErrSubmissionInFlight is returned when a submission starts while an
// earlier one has not finished. Duplicate inquiries from double submits
// are worse than a rejected click.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is everything the inquirer fills in, minus the attachments.
type Form struct {
	CompanyName        string
	ContactPerson      string
	Phone              string
	Email              string
	Services           []string
	Budget             string
	Benchmarks         []string
	ProjectDescription string
}

// Validate checks the fields the service requires before anything is
// uploaded or sent.
func (f Form) Validate() error {
	switch {
	case strings.TrimSpace(f.CompanyName) == "":
		return errors.New("company name is required")
	case strings.TrimSpace(f.ContactPerson) == "":
		return errors.New("contact person is required")
	case strings.TrimSpace(f.Email) == "":
		return errors.New("email is required")
	case !emailRe.MatchString(f.Email):
		return errors.New("email format is invalid")
	case strings.TrimSpace(f.ProjectDescription) == "":
		return errors.New("project description is required")
	}
	return nil
}

// Receipt is the outcome of a completed submission.
type Receipt struct {
	// MessageID identifies the delivered inquiry on the notification
	// service, when it reports one.
	MessageID string
	// Uploads holds one result per attachment, in selection order,
	// including the ones that failed.
	Uploads []upload.Result
	// FileURLs are the public URLs of the attachments that made it to
	// storage.
	FileURLs []string
}

// Submitter drives one inquiry at a time through upload and delivery.
type Submitter struct {
	api      *Client
	uploader *uploader.Uploader

	inFlight atomic.Bool
}

func NewSubmitter(api *Client, up *uploader.Uploader) *Submitter {
	return &Submitter{api: api, uploader: up}
}

// Submit validates the form, uploads the attachments and delivers the
// inquiry. Attachment failures do not block delivery; the inquiry goes out
// with the URLs that succeeded and the receipt reports the rest. The whole
// flow is rejected with ErrSubmissionInFlight while another Submit runs.
func (s *Submitter) Submit(ctx context.Context, form Form, files []upload.CandidateFile, onProgress func(overall int, files []upload.FileState)) (*Receipt, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if err := form.Validate(); err != nil {
		return nil, err
	}

	results := s.uploader.UploadBatch(ctx, files, onProgress)

	var urls []string
	for _, r := range results {
		if r.Success {
			urls = append(urls, r.PublicURL)
		}
	}

	msgID, err := s.api.SendEmail(ctx, form, urls)
	if err != nil {
		return nil, fmt.Errorf("delivering inquiry: %w", err)
	}

	return &Receipt{MessageID: msgID, Uploads: results, FileURLs: urls}, nil
}
