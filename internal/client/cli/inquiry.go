package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/CHJCOCO/ryuin/internal/client/contact"
	"github.com/CHJCOCO/ryuin/internal/filex"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// Inquiry walks through the contact form field by field, uploads any
// attachments and delivers the inquiry.
func (a *App) Inquiry(ctx context.Context) {
	form := contact.Form{}
	var err error

	if form.CompanyName, err = GetSimpleText(a.reader, "Company name", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.ContactPerson, err = GetSimpleText(a.reader, "Contact person", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.Phone, err = GetSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.Services, err = GetList(a.reader, "Requested services", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.Budget, err = GetSimpleText(a.reader, "Budget (optional)", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.Benchmarks, err = GetList(a.reader, "Benchmark sites", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if form.ProjectDescription, err = GetMultiline(a.reader, "Project description", a.out); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	paths, err := GetList(a.reader, "Attachment paths", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	var files []upload.CandidateFile
	for _, p := range paths {
		f, err := filex.ReadCandidate(p)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return
		}
		files = append(files, f)
	}

	receipt, err := a.submitter.Submit(ctx, form, files, func(overall int, _ []upload.FileState) {
		fmt.Fprintf(a.out, "\rUploading attachments... %3d%%", overall)
	})
	if len(files) > 0 {
		fmt.Fprintln(a.out)
	}
	if err != nil {
		if errors.Is(err, contact.ErrSubmissionInFlight) {
			fmt.Fprintln(a.out, "A submission is already running, try again in a moment")
			return
		}
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	for _, r := range receipt.Uploads {
		if !r.Success {
			fmt.Fprintf(a.out, "attachment failed: %s: %s\n", r.FileName, r.Error)
		}
	}
	fmt.Fprintf(a.out, "Inquiry sent (%d of %d attachments delivered)\n", len(receipt.FileURLs), len(receipt.Uploads))
	if receipt.MessageID != "" {
		fmt.Fprintln(a.out, "Message id:", receipt.MessageID)
	}
}
